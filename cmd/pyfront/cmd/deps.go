package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pyfront/internal/diag"
	"pyfront/internal/modules"
)

func newDepsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deps FILE",
		Short: "Print the import graph reachable from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, errs := modules.LoadWorld(args[0], a.fe)

			// syntax errors are already reported; the rest is printed here
			for _, err := range errs {
				var de *diag.Error
				if !errors.As(err, &de) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", err)
				}
			}
			if world == nil {
				var de *diag.Error
				if errors.As(errs[0], &de) {
					return a.fail(de)
				}
				return &ExitError{Code: 1}
			}

			if hits, misses := a.fe.Cache.Stats(); hits > 0 {
				a.log.Debug("parse cache", "hits", hits, "misses", misses)
			}
			world.Fprint(cmd.OutOrStdout())
			if len(errs) > 0 {
				a.diags.PrintSummary()
				if st := a.status(); st != nil {
					return st
				}
				return &ExitError{Code: len(errs)}
			}
			return a.status()
		},
	}
}
