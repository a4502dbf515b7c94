package services

import (
	"context"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/metrics"
	"github.com/alertops/socstats/internal/stats"
)

// ReportService turns raw alert records into the month-bucketed stat
// tables. All aggregation happens in memory; the repository only hands
// back rows.
type ReportService struct {
	repo       alert.Repository
	logger     *logger.Logger
	window     *stats.BusinessTimeWindow
	transforms []string
	categories stats.CategoryMap
}

// ReportOptions configures a single report build.
type ReportOptions struct {
	Start  time.Time
	End    time.Time
	Filter alert.Filter
}

// NewReportService creates a new report service. window may be nil for
// raw wall-clock cycle times; transforms are applied to every record
// fetch in order.
func NewReportService(
	repo alert.Repository,
	window *stats.BusinessTimeWindow,
	transforms []string,
	categories stats.CategoryMap,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		repo:       repo,
		logger:     log,
		window:     window,
		transforms: transforms,
		categories: categories,
	}
}

// CategoryMap returns the configured alert-type category map.
func (s *ReportService) CategoryMap() stats.CategoryMap {
	return s.categories
}

func (s *ReportService) fetch(ctx context.Context, opts ReportOptions) ([]alert.Record, error) {
	records, err := s.repo.FetchBetween(ctx, opts.Start, opts.End, opts.Filter)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to fetch alerts")
		return nil, err
	}
	return stats.ApplyTransforms(records, s.transforms)
}

func (s *ReportService) statOptions(opts ReportOptions) stats.Options {
	return stats.Options{Start: opts.Start, End: opts.End, Window: s.window}
}

// AlertStats builds the full per-disposition statistics set.
func (s *ReportService) AlertStats(ctx context.Context, opts ReportOptions) (*stats.Aggregation, error) {
	start := time.Now()
	records, err := s.fetch(ctx, opts)
	if err != nil {
		metrics.RecordReport("alert_stats", "error", 0, time.Since(start))
		return nil, err
	}

	agg, err := stats.Aggregate(records, s.statOptions(opts))
	if err != nil {
		metrics.RecordReport("alert_stats", "error", len(records), time.Since(start))
		return nil, err
	}

	metrics.RecordReport("alert_stats", "ok", len(records), time.Since(start))
	s.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"months":  len(agg.Months),
	}).Debug("Alert statistics built")
	return agg, nil
}

// HoursOfOperation builds the business-hours / nights / weekends
// breakdown of disposed alerts.
func (s *ReportService) HoursOfOperation(ctx context.Context, opts ReportOptions) (*stats.StatTable, error) {
	agg, err := s.AlertStats(ctx, opts)
	if err != nil {
		return nil, err
	}
	return agg.HoursOfOperationTable(), nil
}

// OverallSummary builds the per-month SLA comparison table.
func (s *ReportService) OverallSummary(ctx context.Context, opts ReportOptions) (*stats.StatTable, error) {
	agg, err := s.AlertStats(ctx, opts)
	if err != nil {
		return nil, err
	}
	return agg.OverallSummaryTable(), nil
}

// TypeCategoryQuantities groups per-type monthly counts into the
// configured categories.
func (s *ReportService) TypeCategoryQuantities(ctx context.Context, opts ReportOptions) (*stats.StatTable, error) {
	start := time.Now()
	typeCounts, err := s.repo.TypeCountsByMonth(ctx, opts.Start, opts.End)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to fetch type counts")
		metrics.RecordReport("type_categories", "error", 0, time.Since(start))
		return nil, err
	}

	months, err := stats.MonthsBetween(opts.Start, opts.End)
	if err != nil {
		return nil, err
	}
	table, err := stats.GroupByCategory(typeCounts, s.categories, months)
	if err != nil {
		metrics.RecordReport("type_categories", "error", len(typeCounts), time.Since(start))
		return nil, err
	}
	metrics.RecordReport("type_categories", "ok", len(typeCounts), time.Since(start))
	return table, nil
}

// TypeCounts returns total counts per alert type over the range.
func (s *ReportService) TypeCounts(ctx context.Context, start, end time.Time) ([]alert.TypeCount, error) {
	return s.repo.TypeCountsBetween(ctx, start, end)
}

// TypeCountsPerMonth returns per-type monthly counts over the range,
// for callers grouping with their own category map.
func (s *ReportService) TypeCountsPerMonth(ctx context.Context, start, end time.Time) ([]alert.TypeMonthCount, error) {
	return s.repo.TypeCountsByMonth(ctx, start, end)
}

// TypeStats builds the full statistics set for each alert type.
func (s *ReportService) TypeStats(ctx context.Context, opts ReportOptions) (map[string]map[stats.StatKind]*stats.StatTable, error) {
	start := time.Now()
	records, err := s.fetch(ctx, opts)
	if err != nil {
		metrics.RecordReport("type_stats", "error", 0, time.Since(start))
		return nil, err
	}
	byType, err := stats.TypeStatTables(records, s.statOptions(opts))
	if err != nil {
		metrics.RecordReport("type_stats", "error", len(records), time.Since(start))
		return nil, err
	}
	metrics.RecordReport("type_stats", "ok", len(records), time.Since(start))
	return byType, nil
}

// AnalystQuantities builds the per-analyst monthly workload table.
func (s *ReportService) AnalystQuantities(ctx context.Context, opts ReportOptions) (*stats.StatTable, error) {
	start := time.Now()
	records, err := s.fetch(ctx, opts)
	if err != nil {
		metrics.RecordReport("analyst_quantities", "error", 0, time.Since(start))
		return nil, err
	}
	analysts, err := s.repo.ListAnalysts(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to list analysts")
		metrics.RecordReport("analyst_quantities", "error", len(records), time.Since(start))
		return nil, err
	}
	table, err := stats.AnalystQuantitiesTable(records, analysts, s.statOptions(opts))
	if err != nil {
		metrics.RecordReport("analyst_quantities", "error", len(records), time.Since(start))
		return nil, err
	}
	metrics.RecordReport("analyst_quantities", "ok", len(records), time.Since(start))
	return table, nil
}

// AnalystStats builds the full statistics set for each analyst.
func (s *ReportService) AnalystStats(ctx context.Context, opts ReportOptions) (map[int64]map[stats.StatKind]*stats.StatTable, []alert.Analyst, error) {
	records, err := s.fetch(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	analysts, err := s.repo.ListAnalysts(ctx)
	if err != nil {
		return nil, nil, err
	}
	byAnalyst, err := stats.AnalystStatTables(records, analysts, s.statOptions(opts))
	if err != nil {
		return nil, nil, err
	}
	return byAnalyst, analysts, nil
}

// AlertTypes returns the distinct alert types observed in the range.
func (s *ReportService) AlertTypes(ctx context.Context, start, end time.Time) ([]string, error) {
	return s.repo.DistinctTypesBetween(ctx, start, end)
}

// Analysts returns all known analysts.
func (s *ReportService) Analysts(ctx context.Context) ([]alert.Analyst, error) {
	return s.repo.ListAnalysts(ctx)
}

// Companies returns all company names keyed by id.
func (s *ReportService) Companies(ctx context.Context) (map[int64]string, error) {
	return s.repo.ListCompanies(ctx)
}
