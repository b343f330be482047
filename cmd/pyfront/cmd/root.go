package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pyfront/internal/config"
	"pyfront/internal/diag"
	"pyfront/internal/frontend"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

// maxExitStatus is the largest status the OS keeps without truncation.
const maxExitStatus = 255

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))

// ExitError carries a non-zero exit status out of a command whose failures
// have already been reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg   *config.Config
	log   *slog.Logger
	diags *diag.Diagnostics
	fe    *frontend.Frontend
	color bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pyfront",
		Short: "Python front end: tokens, syntax trees, scopes and imports",
		Long: `pyfront reads Python source and reports what the front end sees.

Commands:
  parse    print the syntax tree of a file
  tokens   print the token stream of a file
  check    parse every source file under the given paths
  scopes   print the scopes and captured names of a file
  deps     print the import graph reachable from a file
  repl     parse statements interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./pyfront.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newParseCmd(a),
		newTokensCmd(a),
		newCheckCmd(a),
		newScopesCmd(a),
		newDepsCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			return min(exit.Code, maxExitStatus)
		}
		fmt.Fprintf(os.Stderr, "pyfront: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(errOut io.Writer) error {
	cfg, err := config.Resolve(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
	if cfg.Path != "" {
		a.log.Debug("config loaded", "path", cfg.Path)
	}

	a.color = cfg.UseColor(isTerminal(errOut))
	a.diags = diag.New(errOut,
		diag.WithColor(a.color),
		diag.WithMaxWarnings(cfg.Check.MaxWarnings))
	a.fe = frontend.New(a.diags, a.log)
	return nil
}

// status turns the error count into the command result. Counts above
// maxExitStatus are clamped so a failing run never exits 0.
func (a *app) status() error {
	if code := a.diags.ExitCode(); code != 0 {
		return &ExitError{Code: min(code, maxExitStatus)}
	}
	return nil
}

// fail prints the run summary after a reported failure. Errors that never
// reached the diagnostics, such as unreadable files, are returned as is.
func (a *app) fail(err error) error {
	var de *diag.Error
	if !errors.As(err, &de) {
		return err
	}
	a.diags.PrintSummary()
	if st := a.status(); st != nil {
		return st
	}
	return err
}

func (a *app) heading(text string) string {
	if !a.color {
		return text
	}
	return headingStyle.Render(text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
