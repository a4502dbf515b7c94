package stats

import (
	"testing"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
)

func TestTypeStatTables(t *testing.T) {
	insert := date(2024, time.January, 10)
	records := []alert.Record{
		{ID: 1, AlertType: "ids_snort", Disposition: strPtr("DELIVERY"), InsertDate: insert, DispositionTime: timePtr(insert.Add(2 * time.Hour))},
		{ID: 2, AlertType: "ids_snort", Disposition: strPtr("DELIVERY"), InsertDate: insert, DispositionTime: timePtr(insert.Add(4 * time.Hour))},
		{ID: 3, AlertType: "email_scanner_v2", Disposition: strPtr("FALSE_POSITIVE"), InsertDate: insert, DispositionTime: timePtr(insert.Add(time.Hour))},
	}

	byType, err := TypeStatTables(records, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(byType) != 2 {
		t.Fatalf("got %d types, want 2", len(byType))
	}

	snort := byType["ids_snort"]
	if got := snort[StatAlertCount].Value("202401", string(DispositionDelivery)); got != 2 {
		t.Errorf("ids_snort delivery count = %v, want 2", got)
	}
	if got := snort[StatCycleTimeMean].Value("202401", string(DispositionDelivery)); got != 3 {
		t.Errorf("ids_snort delivery mean = %v, want 3", got)
	}
	// the other type never leaks into this partition
	if got := snort[StatAlertCount].Value("202401", string(DispositionFalsePositive)); got != 0 {
		t.Errorf("ids_snort false_positive count = %v, want 0", got)
	}

	if want := "ids_snort - Alert Quantities"; snort[StatAlertCount].Name != want {
		t.Errorf("table name = %q, want %q", snort[StatAlertCount].Name, want)
	}
}

func TestSortedTypes(t *testing.T) {
	byType := map[string]map[StatKind]*StatTable{
		"zeek":  nil,
		"email": nil,
		"ids":   nil,
	}
	got := SortedTypes(byType)
	want := []string{"email", "ids", "zeek"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedTypes() = %v, want %v", got, want)
		}
	}
}

func timePtr(t time.Time) *time.Time { return &t }
