package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"longbox/internal/config"
	"longbox/internal/library"
	"longbox/internal/logging"
	"longbox/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Index new comic archives under the library directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				// Warnings about unreadable archives go to stderr so they
				// do not interleave with the progress bar on stdout.
				logger, err := logging.New(logging.Options{Level: "warn", Writer: cmd.ErrOrStderr()})
				if err != nil {
					return err
				}
				sc := scanner.New(cfg, store, logger)

				if !quiet {
					archives, err := sc.Discover(cmd.Context())
					if err != nil {
						return fmt.Errorf("discover archives: %w", err)
					}
					bar := progressbar.Default(int64(len(archives)), "Scanning library...")
					sc.OnFile = func(string) {
						_ = bar.Add(1)
					}
				}

				summary, err := sc.Scan(cmd.Context())
				if err != nil {
					return fmt.Errorf("scan library: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Archives found:   %d\n", summary.ArchivesFound)
				fmt.Fprintf(out, "Series created:   %d\n", summary.SeriesCreated)
				fmt.Fprintf(out, "Issues created:   %d\n", summary.IssuesCreated)
				fmt.Fprintf(out, "Already indexed:  %d\n", summary.AlreadyIndexed)
				if summary.Failures > 0 {
					fmt.Fprintf(out, "Failures:         %d\n", summary.Failures)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the progress bar")
	return cmd
}
