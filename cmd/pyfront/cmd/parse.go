package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyfront/internal/ast"
	"pyfront/internal/config"
	"pyfront/internal/lexer"
	"pyfront/internal/resolver"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			mod, err := a.fe.ParseFile(args[0])
			if err != nil {
				return a.fail(err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case config.FormatTree:
				ast.Fdump(out, mod)
			case config.FormatYAML:
				if err := ast.EncodeYAML(out, mod); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want %s or %s)", format, config.FormatTree, config.FormatYAML)
			}
			return a.status()
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: tree or yaml (default from config)")
	return cmd
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lexer.UseFile(args[0], a.diags)
			if err != nil {
				return a.fail(err)
			}
			toks, err := l.Tokens()

			out := cmd.OutOrStdout()
			for _, tok := range toks {
				fmt.Fprintf(out, "%s +%d %s %s\n", tok.Pos, tok.Offset, tok.Kind, tok.Lexeme)
			}
			if err != nil {
				return a.fail(err)
			}
			return a.status()
		},
	}
}

func newScopesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scopes FILE",
		Short: "Print the scopes and captured names of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := a.fe.ParseFile(args[0])
			if err != nil {
				return a.fail(err)
			}
			info, err := resolver.Resolve(mod, a.diags)
			if err != nil {
				return a.fail(err)
			}
			info.Fprint(cmd.OutOrStdout())
			return a.status()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no config or diagnostics needed
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pyfront", version)
		},
	}
}
