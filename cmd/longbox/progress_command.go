package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"longbox/internal/config"
	"longbox/internal/library"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <issue-id> <page>",
		Short: "Record the current reading page for an issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page must be an integer, got %q", args[1])
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				if err := store.SetProgress(cmd.Context(), args[0], page); err != nil {
					return describeLookupError(err, "issue", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s set to page %d\n", args[0], page)
				return nil
			})
		},
	}
}
