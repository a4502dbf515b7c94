package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alertops/socstats/internal/stats"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Analyst workload and performance",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersQuantitiesCmd())
	cmd.AddCommand(newUsersStatsCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Known analysts",
		RunE: func(cmd *cobra.Command, args []string) error {
			analysts, err := reports.Analysts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list analysts: %w", err)
			}

			switch getOutputFormat() {
			case "json":
				return printJSON(analysts)
			case "yaml":
				return printYAML(analysts)
			default:
				out := NewTable("ID", "USERNAME", "NAME", "QUEUE", "ENABLED")
				for _, a := range analysts {
					out.AddRow(
						strconv.FormatInt(a.ID, 10),
						a.Username,
						a.Name(),
						a.Queue,
						strconv.FormatBool(a.Enabled),
					)
				}
				out.Render()
				return nil
			}
		},
	}
}

func newUsersQuantitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quantities",
		Short: "Alerts dispositioned per analyst per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			table, err := reports.AnalystQuantities(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build analyst quantities: %w", err)
			}
			return renderStatTable(table)
		},
	}
}

func newUsersStatsCmd() *cobra.Command {
	var usernames []string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Full statistics set computed per analyst",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			byAnalyst, analysts, err := reports.AnalystStats(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build per-analyst statistics: %w", err)
			}

			wanted := make(map[string]bool, len(usernames))
			for _, u := range usernames {
				wanted[u] = true
			}

			for _, analyst := range analysts {
				if len(wanted) > 0 && !wanted[analyst.Username] {
					continue
				}
				tables, ok := byAnalyst[analyst.ID]
				if !ok {
					continue
				}
				for _, kind := range stats.StatKinds() {
					if err := renderStatTable(tables[kind]); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&usernames, "analyst", nil, "restrict to these analyst usernames")
	return cmd
}
