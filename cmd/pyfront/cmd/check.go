package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Parse every source file under the given paths",
		Long: `Parse every source file under the given paths and print a summary.

Directories are walked recursively; names matching check.exclude are
skipped. Files named explicitly are parsed whatever their extension.
The exit status is the number of errors, at most 255.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.collect(args)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range files {
				if _, err := a.fe.ParseFile(path); err != nil {
					failed++
					a.log.Debug("parse failed", "file", path)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d files, %d failed\n", a.heading("checked"), len(files), failed)
			a.diags.PrintSummary()
			return a.status()
		},
	}
}

// collect expands the arguments of 'check' into the files to parse.
func (a *app) collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("check: %w", err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && a.cfg.Excluded(d.Name()) {
				a.log.Debug("skipping", "path", path)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && a.cfg.IsSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("check: walk %s: %w", root, err)
		}
	}
	return files, nil
}
