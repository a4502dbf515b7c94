package stats

import (
	"testing"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
)

func analystRecord(id, userID int64, disposition string, insert time.Time, cycle time.Duration) alert.Record {
	r := disposedRecord(id, disposition, insert, cycle)
	r.DispositionUserID = int64Ptr(userID)
	return r
}

func TestAnalystQuantitiesTable(t *testing.T) {
	insert := date(2024, time.January, 10)
	analysts := []alert.Analyst{
		{ID: 1, Username: "jsmith"},
		{ID: 2, Username: "alee"},
		{ID: 3, Username: "idle"},
	}
	records := []alert.Record{
		analystRecord(1, 1, "FALSE_POSITIVE", insert, time.Hour),
		analystRecord(2, 1, "DELIVERY", insert, time.Hour),
		analystRecord(3, 2, "DELIVERY", insert.AddDate(0, 1, 0), time.Hour),
		{ID: 4, AlertType: "test_tool", InsertDate: insert},
	}

	table, err := AnalystQuantitiesTable(records, analysts, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if table.HasColumn("idle") {
		t.Error("analyst with no dispositioned alerts should be excluded")
	}
	if got := table.Value("202401", "jsmith"); got != 2 {
		t.Errorf("jsmith[202401] = %v, want 2", got)
	}
	if got := table.Value("202402", "alee"); got != 1 {
		t.Errorf("alee[202402] = %v, want 1", got)
	}
	if got := table.Value("202401", "alee"); got != 0 {
		t.Errorf("alee[202401] = %v, want 0", got)
	}
}

func TestAnalystStatTables(t *testing.T) {
	insert := date(2024, time.January, 10)
	analysts := []alert.Analyst{
		{ID: 1, Username: "jsmith", DisplayName: "J. Smith"},
		{ID: 2, Username: "alee"},
	}
	records := []alert.Record{
		analystRecord(1, 1, "FALSE_POSITIVE", insert, 2*time.Hour),
		analystRecord(2, 1, "FALSE_POSITIVE", insert, 4*time.Hour),
	}

	byAnalyst, err := AnalystStatTables(records, analysts, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := byAnalyst[2]; ok {
		t.Error("analyst without records should have no tables")
	}
	tables, ok := byAnalyst[1]
	if !ok {
		t.Fatal("missing tables for analyst 1")
	}
	mean := tables[StatCycleTimeMean]
	if got := mean.Value("202401", string(DispositionFalsePositive)); got != 3 {
		t.Errorf("mean = %v, want 3", got)
	}
	if want := "J. Smith - Average Time to Disposition"; mean.Name != want {
		t.Errorf("table name = %q, want %q", mean.Name, want)
	}
}
