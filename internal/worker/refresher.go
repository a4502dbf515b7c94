package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/metrics"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
)

// Refresher periodically rebuilds the full stat table set and publishes
// it to the cache. Readers never wait on a rebuild: the previous
// snapshot stays live until the new one is complete.
type Refresher struct {
	reports  *services.ReportService
	cache    *services.TableCache
	cfg      config.RefreshConfig
	logger   *logger.Logger
	schedule cron.Schedule
}

// NewRefresher creates a refresher from the configured cron schedule.
func NewRefresher(reports *services.ReportService, cache *services.TableCache, cfg config.RefreshConfig, log *logger.Logger) (*Refresher, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	return &Refresher{
		reports:  reports,
		cache:    cache,
		cfg:      cfg,
		logger:   log,
		schedule: schedule,
	}, nil
}

// Start runs an immediate refresh, then follows the cron schedule until
// the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.WithFields(map[string]interface{}{
		"schedule":   r.cfg.Schedule,
		"range_days": r.cfg.RangeDays,
	}).Info("Starting table refresher")

	if err := r.RefreshOnce(ctx); err != nil {
		r.logger.ErrorWithErr(err, "Initial table refresh failed")
	}

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.ErrorWithErr(err, "Table refresh failed")
			}
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("Table refresher stopped")
			return
		}
	}
}

// RefreshOnce builds a complete snapshot and publishes it.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	started := time.Now()
	end := time.Now()
	start := end.AddDate(0, 0, -r.cfg.RangeDays)

	opts := services.ReportOptions{
		Start:  start,
		End:    end,
		Filter: alert.Filter{Companies: r.cfg.Companies},
	}

	snapshot, err := r.build(ctx, opts)
	if err != nil {
		metrics.RecordRefresh("error", time.Since(started))
		return err
	}

	r.cache.Publish(snapshot)
	metrics.RecordRefresh("ok", time.Since(started))
	metrics.SetCachedTables(len(snapshot.Tables))
	metrics.SetSnapshotAge(0)

	r.logger.WithFields(map[string]interface{}{
		"tables":   len(snapshot.Tables),
		"duration": time.Since(started).String(),
	}).Info("Published table snapshot")
	return nil
}

func (r *Refresher) build(ctx context.Context, opts services.ReportOptions) (*services.Snapshot, error) {
	tables := make(map[string]*stats.StatTable)

	agg, err := r.reports.AlertStats(ctx, opts)
	if err != nil {
		return nil, err
	}
	for kind, table := range agg.Tables {
		tables[string(kind)] = table
	}
	tables["hours_of_operation"] = agg.HoursOfOperationTable()
	tables["overall_operating_alert"] = agg.OverallSummaryTable()

	if !r.reports.CategoryMap().Empty() {
		categories, err := r.reports.TypeCategoryQuantities(ctx, opts)
		if err != nil {
			return nil, err
		}
		tables["alert_type_categories"] = categories
	}

	analysts, err := r.reports.AnalystQuantities(ctx, opts)
	if err != nil {
		return nil, err
	}
	tables["analyst_alert_quantities"] = analysts

	return &services.Snapshot{
		Tables:  tables,
		Start:   opts.Start,
		End:     opts.End,
		BuiltAt: time.Now(),
	}, nil
}
