package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alertops/socstats/internal/export"
	"github.com/alertops/socstats/internal/stats"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full table set to a file",
	}

	cmd.AddCommand(newExportXLSXCmd())
	cmd.AddCommand(newExportArchiveCmd())

	return cmd
}

func newExportXLSXCmd() *cobra.Command {
	var outPath string
	var categoryMapPath string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export all stat tables as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := collectTables(cmd, categoryMapPath)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			if err := export.WriteXLSX(f, tables); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			fmt.Printf("Wrote %d tables to %s\n", len(tables), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "soc_stats.xlsx", "output file path")
	cmd.Flags().StringVar(&categoryMapPath, "category-map", "", "YAML file mapping alert-type prefixes to categories")
	return cmd
}

func newExportArchiveCmd() *cobra.Command {
	var outPath string
	var categoryMapPath string
	var format string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Export all stat tables as a gzipped tar archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("archive format must be json or csv, got %q", format)
			}

			tables, err := collectTables(cmd, categoryMapPath)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			if format == "csv" {
				err = export.WriteCSVArchive(f, tables)
			} else {
				err = export.WriteJSONArchive(f, tables)
			}
			if err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}
			fmt.Printf("Wrote %d tables to %s\n", len(tables), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "soc_stats.tar.gz", "output file path")
	cmd.Flags().StringVar(&categoryMapPath, "category-map", "", "YAML file mapping alert-type prefixes to categories")
	cmd.Flags().StringVar(&format, "format", "json", "table format inside the archive: json or csv")
	return cmd
}

// collectTables builds every table the export formats carry: the
// per-disposition statistics, the operating-hours breakdowns, analyst
// workloads and, when a category map is supplied, category quantities.
func collectTables(cmd *cobra.Command, categoryMapPath string) ([]*stats.StatTable, error) {
	opts, err := reportOptions()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()

	agg, err := reports.AlertStats(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert statistics: %w", err)
	}

	tables := make([]*stats.StatTable, 0, len(stats.StatKinds())+4)
	for _, kind := range stats.StatKinds() {
		tables = append(tables, agg.Tables[kind])
	}
	tables = append(tables, agg.HoursOfOperationTable())
	tables = append(tables, agg.OverallSummaryTable())

	quantities, err := reports.AnalystQuantities(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build analyst quantities: %w", err)
	}
	tables = append(tables, quantities)

	if categoryMapPath != "" {
		categoryMap, err := stats.LoadCategoryMap(categoryMapPath)
		if err != nil {
			return nil, err
		}
		typeCounts, err := reports.TypeCountsPerMonth(ctx, opts.Start, opts.End)
		if err != nil {
			return nil, fmt.Errorf("failed to count alert types: %w", err)
		}
		months, err := stats.MonthsBetween(opts.Start, opts.End)
		if err != nil {
			return nil, err
		}
		categories, err := stats.GroupByCategory(typeCounts, categoryMap, months)
		if err != nil {
			return nil, err
		}
		tables = append(tables, categories)
	}

	return tables, nil
}
