package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alertops/socstats/internal/stats"
)

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert statistics by month and disposition",
	}

	cmd.AddCommand(newAlertsStatsCmd())
	cmd.AddCommand(newAlertsHopCmd())
	cmd.AddCommand(newAlertsSummaryCmd())

	return cmd
}

func newAlertsStatsCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Alert counts and cycle-time statistics per disposition",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			agg, err := reports.AlertStats(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build alert statistics: %w", err)
			}

			if kind != "" {
				table, err := agg.Table(kind)
				if err != nil {
					return err
				}
				return renderStatTable(table)
			}
			for _, k := range stats.StatKinds() {
				if err := renderStatTable(agg.Tables[k]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "stat", "", "single statistic to show (e.g. alert_count, cycle_time_mean)")
	return cmd
}

func newAlertsHopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hop",
		Short: "Disposed-alert breakdown by business hours, nights and weekends",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			table, err := reports.HoursOfOperation(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build hours-of-operation table: %w", err)
			}
			return renderStatTable(table)
		},
	}
}

func newAlertsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Business-hours vs raw mean cycle times per month",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			table, err := reports.OverallSummary(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build summary table: %w", err)
			}
			return renderStatTable(table)
		},
	}
}
