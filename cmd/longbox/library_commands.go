package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"longbox/internal/config"
	"longbox/internal/library"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "List indexed series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				seriesList, err := store.ListSeries(cmd.Context())
				if err != nil {
					return err
				}
				if len(seriesList) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No series indexed. Run `longbox scan` first.")
					return nil
				}

				rows := make([][]string, 0, len(seriesList))
				for _, series := range seriesList {
					count, err := issueCount(cmd, store, series.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{series.ID, series.Name, strconv.Itoa(count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Issues"}, rows, 3))
				return nil
			})
		},
	}
}

func newIssuesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "issues <series>",
		Short: "List issues in a series (by id or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				series, err := resolveSeries(cmd, store, args[0])
				if err != nil {
					return err
				}

				issues, err := store.ListIssues(cmd.Context(), series.ID)
				if err != nil {
					return err
				}
				if len(issues) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Series %q has no indexed issues.\n", series.Name)
					return nil
				}

				rows := make([][]string, 0, len(issues))
				for _, issue := range issues {
					rows = append(rows, []string{
						issue.ID,
						issue.FileName,
						strconv.Itoa(issue.PageCount),
						strconv.Itoa(issue.CurrentPage),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "File", "Pages", "Current"}, rows, 3, 4))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <issue-id>",
		Short: "Show details for one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				issue, err := store.GetIssue(cmd.Context(), args[0])
				if err != nil {
					return describeLookupError(err, "issue", args[0])
				}
				series, err := store.GetSeries(cmd.Context(), issue.SeriesID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:           %s\n", issue.ID)
				fmt.Fprintf(out, "Series:       %s (%s)\n", series.Name, series.ID)
				fmt.Fprintf(out, "File:         %s\n", issue.FileName)
				fmt.Fprintf(out, "Path:         %s\n", issue.Path)
				if issue.CoverImage != "" {
					fmt.Fprintf(out, "Cover:        %s\n", issue.CoverImage)
				}
				fmt.Fprintf(out, "Pages:        %d\n", issue.PageCount)
				fmt.Fprintf(out, "Current page: %d\n", issue.CurrentPage)
				return nil
			})
		},
	}
}

// resolveSeries accepts either a series id or an exact series name.
func resolveSeries(cmd *cobra.Command, store *library.Store, ref string) (*library.Series, error) {
	series, err := store.GetSeries(cmd.Context(), ref)
	if err == nil {
		return series, nil
	}
	if !errors.Is(err, library.ErrNotFound) {
		return nil, err
	}

	all, err := store.ListSeries(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, candidate := range all {
		if candidate.Name == ref {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no series with id or name %q", ref)
}

func issueCount(cmd *cobra.Command, store *library.Store, seriesID string) (int, error) {
	issues, err := store.ListIssues(cmd.Context(), seriesID)
	if err != nil {
		return 0, err
	}
	return len(issues), nil
}

func describeLookupError(err error, kind, ref string) error {
	if errors.Is(err, library.ErrNotFound) {
		return fmt.Errorf("no %s with id %q", kind, ref)
	}
	return err
}
