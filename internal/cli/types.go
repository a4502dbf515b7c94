package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alertops/socstats/internal/stats"
)

func newTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Alert type breakdowns",
	}

	cmd.AddCommand(newTypesListCmd())
	cmd.AddCommand(newTypesCountsCmd())
	cmd.AddCommand(newTypesCategoriesCmd())
	cmd.AddCommand(newTypesStatsCmd())

	return cmd
}

func newTypesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Distinct alert types observed in the range",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			types, err := reports.AlertTypes(cmd.Context(), opts.Start, opts.End)
			if err != nil {
				return fmt.Errorf("failed to list alert types: %w", err)
			}

			switch getOutputFormat() {
			case "json":
				return printJSON(types)
			case "yaml":
				return printYAML(types)
			default:
				for _, t := range types {
					fmt.Println(t)
				}
				return nil
			}
		},
	}
}

func newTypesCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Total alert counts per alert type",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			counts, err := reports.TypeCounts(cmd.Context(), opts.Start, opts.End)
			if err != nil {
				return fmt.Errorf("failed to count alert types: %w", err)
			}

			switch getOutputFormat() {
			case "json":
				return printJSON(counts)
			case "yaml":
				return printYAML(counts)
			default:
				out := NewTable("ALERT TYPE", "COUNT")
				for _, c := range counts {
					out.AddRow(c.AlertType, strconv.FormatInt(c.Count, 10))
				}
				out.Render()
				return nil
			}
		},
	}
}

func newTypesCategoriesCmd() *cobra.Command {
	var categoryMapPath string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Monthly alert counts grouped into alert-type categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			categoryMap, err := stats.LoadCategoryMap(categoryMapPath)
			if err != nil {
				return err
			}

			typeCounts, err := reports.TypeCountsPerMonth(cmd.Context(), opts.Start, opts.End)
			if err != nil {
				return fmt.Errorf("failed to count alert types: %w", err)
			}
			months, err := stats.MonthsBetween(opts.Start, opts.End)
			if err != nil {
				return err
			}
			table, err := stats.GroupByCategory(typeCounts, categoryMap, months)
			if err != nil {
				return err
			}
			return renderStatTable(table)
		},
	}

	cmd.Flags().StringVar(&categoryMapPath, "category-map", "", "YAML file mapping alert-type prefixes to categories")
	_ = cmd.MarkFlagRequired("category-map")
	return cmd
}

func newTypesStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Full statistics set computed per alert type",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := reportOptions()
			if err != nil {
				return err
			}

			byType, err := reports.TypeStats(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to build per-type statistics: %w", err)
			}

			for _, alertType := range stats.SortedTypes(byType) {
				for _, kind := range stats.StatKinds() {
					if err := renderStatTable(byType[alertType][kind]); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
