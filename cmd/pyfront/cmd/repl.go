package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/parser"
)

const (
	promptMain  = ">>> "
	promptCont  = "... "
	historyFile = ".pyfront_history"
	replFile    = "<stdin>"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse statements interactively",
		Long: `Read statements at a prompt and print their syntax trees.

Input continues on a '...' prompt while the statement is incomplete.
A block opened by a trailing ':' ends with an empty line. Ctrl-D exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd.OutOrStdout())
		},
	}
}

func (a *app) repl(out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := filepath.Join(env.HomeDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(out, "pyfront %s, Ctrl-D to exit\n", version)
	for {
		lines, err := readStatement(ln.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("repl: %w", err)
		}
		if len(lines) == 0 {
			continue
		}
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				ln.AppendHistory(line)
			}
		}
		a.eval(strings.Join(lines, "\n")+"\n", out)
	}
}

// readStatement prompts until the lines read so far form a complete
// statement. A blank first line yields no lines. Input cut short by io.EOF
// is returned as it stands; the next call reports the EOF.
func readStatement(prompt func(string) (string, error)) ([]string, error) {
	var lines []string
	block := false

	for {
		p := promptMain
		if len(lines) > 0 {
			p = promptCont
		}
		line, err := prompt(p)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				return lines, nil
			}
			return nil, err
		}

		blank := strings.TrimSpace(line) == ""
		if len(lines) == 0 && blank {
			return nil, nil
		}
		lines = append(lines, line)

		if block {
			if blank {
				return lines, nil
			}
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			block = true
			continue
		}

		_, perr := parser.ParseSource(replFile, strings.Join(lines, "\n")+"\n", nil)
		if perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return lines, nil
	}
}

// eval parses src and dumps the result. A bare expression such as '1 + 2'
// is not a statement of its own, so it is shown as an expression tree.
func (a *app) eval(src string, out io.Writer) {
	probe := diag.New(io.Discard)
	mod, err := parser.ParseSource(replFile, src, probe)
	if err == nil {
		ast.Fdump(out, mod)
		return
	}

	var de *diag.Error
	if !errors.As(err, &de) {
		fmt.Fprintln(out, err)
		return
	}
	if de.Code == diag.CodeNonCallStatement {
		if expr, xerr := parser.ParseExpression(replFile, src, probe); xerr == nil {
			ast.Fdump(out, expr)
			return
		}
	}
	a.diags.AddSource(replFile, []byte(src))
	a.diags.Fatal(de)
}
