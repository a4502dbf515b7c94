package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
	"github.com/alertops/socstats/internal/testutil"
)

func newTestRefresher(t *testing.T, repo alert.Repository, categories stats.CategoryMap) (*Refresher, *services.TableCache) {
	t.Helper()

	log := testutil.NewTestLogger()
	reports := services.NewReportService(repo, nil, nil, categories, log)
	cache := services.NewTableCache()

	r, err := NewRefresher(reports, cache, config.RefreshConfig{
		Schedule:  "@every 15m",
		RangeDays: 365,
	}, log)
	if err != nil {
		t.Fatalf("NewRefresher() error = %v", err)
	}
	return r, cache
}

func TestNewRefresher_BadSchedule(t *testing.T) {
	log := testutil.NewTestLogger()
	reports := services.NewReportService(testutil.NewMockAlertRepository(), nil, nil, stats.CategoryMap{}, log)

	_, err := NewRefresher(reports, services.NewTableCache(), config.RefreshConfig{
		Schedule:  "not a schedule",
		RangeDays: 365,
	}, log)
	if err == nil {
		t.Fatal("NewRefresher() expected error for bad schedule")
	}
}

func TestRefreshOnce_PublishesSnapshot(t *testing.T) {
	mockRepo := testutil.NewMockAlertRepository()
	mockRepo.Records = []alert.Record{
		testutil.DisposedAlert(1, "ids_snort", "false_positive", time.Now().Add(-48*time.Hour), 2*time.Hour),
	}
	r, cache := newTestRefresher(t, mockRepo, stats.CategoryMap{})

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error = %v", err)
	}

	s := cache.Snapshot()
	if s == nil {
		t.Fatal("no snapshot published")
	}

	for _, name := range []string{
		"alert_count",
		"cycle_time_mean",
		"hours_of_operation",
		"overall_operating_alert",
		"analyst_alert_quantities",
	} {
		if _, ok := s.Tables[name]; !ok {
			t.Errorf("snapshot missing table %q, has %v", name, s.Names())
		}
	}
	if _, ok := s.Tables["alert_type_categories"]; ok {
		t.Error("category table published without a category map")
	}
}

func TestRefreshOnce_IncludesCategoriesWhenConfigured(t *testing.T) {
	mockRepo := testutil.NewMockAlertRepository()
	mockRepo.Records = []alert.Record{
		testutil.DisposedAlert(1, "ids_snort", "delivery", time.Now().Add(-48*time.Hour), time.Hour),
	}
	categories := stats.CategoryMap{Categories: []stats.Category{
		{Name: "network ids", Prefixes: []string{"ids_"}},
	}}
	r, cache := newTestRefresher(t, mockRepo, categories)

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error = %v", err)
	}
	if _, ok := cache.Table("alert_type_categories"); !ok {
		t.Error("snapshot missing alert_type_categories")
	}
}

func TestRefreshOnce_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	mockRepo := testutil.NewMockAlertRepository()
	mockRepo.Records = []alert.Record{
		testutil.DisposedAlert(1, "ids_snort", "delivery", time.Now().Add(-48*time.Hour), time.Hour),
	}
	r, cache := newTestRefresher(t, mockRepo, stats.CategoryMap{})

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error = %v", err)
	}
	previous := cache.Snapshot()

	mockRepo.FetchError = fmt.Errorf("connection refused")
	if err := r.RefreshOnce(context.Background()); err == nil {
		t.Fatal("RefreshOnce() expected error, got nil")
	}
	if cache.Snapshot() != previous {
		t.Error("failed refresh replaced the published snapshot")
	}
}
