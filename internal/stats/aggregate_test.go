package stats

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
	apperrors "github.com/alertops/socstats/internal/pkg/errors"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func disposedRecord(id int64, disposition string, insert time.Time, cycle time.Duration) alert.Record {
	dispositionTime := insert.Add(cycle)
	return alert.Record{
		ID:              id,
		AlertType:       "test_tool",
		Disposition:     strPtr(disposition),
		InsertDate:      insert,
		DispositionTime: &dispositionTime,
	}
}

func TestAggregateSingleRecordScenario(t *testing.T) {
	opts := Options{
		Start: date(2024, time.January, 1),
		End:   date(2024, time.March, 31),
	}
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", date(2024, time.February, 10).Add(8*time.Hour), 10*time.Hour),
	}

	agg, err := Aggregate(records, opts)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	wantMonths := []MonthKey{"202401", "202402", "202403"}
	if len(agg.Months) != len(wantMonths) {
		t.Fatalf("got %d months, want %d", len(agg.Months), len(wantMonths))
	}
	for i := range wantMonths {
		if agg.Months[i] != wantMonths[i] {
			t.Errorf("month[%d] = %s, want %s", i, agg.Months[i], wantMonths[i])
		}
	}

	fp := string(DispositionFalsePositive)
	checks := []struct {
		kind StatKind
		want float64
	}{
		{StatAlertCount, 1},
		{StatCycleTimeSum, 10},
		{StatCycleTimeMean, 10},
		{StatCycleTimeMin, 10},
		{StatCycleTimeMax, 10},
		{StatCycleTimeStd, 0},
	}
	for _, c := range checks {
		got := agg.Tables[c.kind].Value("202402", fp)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s[202402][%s] = %v, want %v", c.kind, fp, got, c.want)
		}
	}

	// every other cell is zero
	for _, kind := range StatKinds() {
		table := agg.Tables[kind]
		for _, m := range table.Months {
			for _, col := range table.Columns {
				if m == "202402" && (col == fp || col == "total") {
					continue
				}
				if v := table.Value(m, col); v != 0 {
					t.Errorf("%s[%s][%s] = %v, want 0", kind, m, col, v)
				}
			}
		}
	}
}

func TestAggregateMonthAxisCompleteness(t *testing.T) {
	tests := []struct {
		name       string
		records    []alert.Record
		opts       Options
		wantMonths int
	}{
		{
			name:       "explicit range with no records",
			records:    nil,
			opts:       Options{Start: date(2024, time.January, 1), End: date(2024, time.June, 30)},
			wantMonths: 6,
		},
		{
			name: "sparse data keeps gapless axis",
			records: []alert.Record{
				disposedRecord(1, "DELIVERY", date(2024, time.January, 3), time.Hour),
				disposedRecord(2, "DELIVERY", date(2024, time.May, 3), time.Hour),
			},
			opts:       Options{},
			wantMonths: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := Aggregate(tt.records, tt.opts)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			for _, table := range agg.Tables {
				if len(table.Months) != tt.wantMonths {
					t.Errorf("%s has %d rows, want %d", table.Name, len(table.Months), tt.wantMonths)
				}
			}
		})
	}
}

func TestAggregateCategoryExclusivity(t *testing.T) {
	insert := date(2024, time.April, 2).Add(9 * time.Hour)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, time.Hour),
		disposedRecord(2, "FALSE_POSITIVE", insert.Add(time.Hour), 2*time.Hour),
		disposedRecord(3, "EXPLOITATION", insert, 30*time.Minute),
		disposedRecord(4, "GRAYWARE", insert, 4*time.Hour),
		{ID: 5, AlertType: "test_tool", InsertDate: insert},
		{ID: 6, AlertType: "test_tool", InsertDate: insert, Disposition: strPtr("SOMETHING_NEW")},
	}

	agg, err := Aggregate(records, Options{})
	if err != nil {
		t.Fatal(err)
	}

	counts := agg.Tables[StatAlertCount]
	sum := 0.0
	for _, d := range Dispositions() {
		sum += counts.Value("202404", string(d))
	}
	if sum != float64(len(records)) {
		t.Errorf("summed category counts = %v, want %d", sum, len(records))
	}
	if got := counts.Value("202404", "total"); got != float64(len(records)) {
		t.Errorf("total = %v, want %d", got, len(records))
	}
	// nil and unknown dispositions both land in undispositioned
	if got := counts.Value("202404", string(DispositionUndispositioned)); got != 2 {
		t.Errorf("undispositioned = %v, want 2", got)
	}
}

func TestAggregateUndispositionedExcludedFromCycleTimes(t *testing.T) {
	insert := date(2024, time.April, 2).Add(9 * time.Hour)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, 2*time.Hour),
		{ID: 2, AlertType: "test_tool", InsertDate: insert},
	}

	agg, err := Aggregate(records, Options{})
	if err != nil {
		t.Fatal(err)
	}

	und := string(DispositionUndispositioned)
	if got := agg.Tables[StatAlertCount].Value("202404", und); got != 1 {
		t.Errorf("undispositioned count = %v, want 1", got)
	}
	if got := agg.Tables[StatCycleTimeSum].Value("202404", und); got != 0 {
		t.Errorf("undispositioned cycle sum = %v, want 0", got)
	}
}

func TestAggregateRecordOutsideRangeExcluded(t *testing.T) {
	opts := Options{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}
	// inserted in January, disposed in February: binning is by
	// insertion month, so the record is excluded
	records := []alert.Record{
		disposedRecord(1, "DELIVERY", date(2024, time.January, 25), 300*time.Hour),
	}

	agg, err := Aggregate(records, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := agg.Tables[StatAlertCount].Value("202402", "total"); got != 0 {
		t.Errorf("february total = %v, want 0", got)
	}
}

func TestAggregateMissingInsertDate(t *testing.T) {
	records := []alert.Record{{ID: 7, AlertType: "test_tool"}}
	_, err := Aggregate(records, Options{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)})
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeMissingField {
		t.Fatalf("error code = %s, want %s", code, apperrors.ErrCodeMissingField)
	}
}

func TestAggregateInvertedRange(t *testing.T) {
	_, err := Aggregate(nil, Options{Start: date(2024, time.March, 1), End: date(2024, time.January, 1)})
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeInvalidRange {
		t.Fatalf("error code = %s, want %s", code, apperrors.ErrCodeInvalidRange)
	}
}

func TestAggregateBusinessHoursCycleTimes(t *testing.T) {
	loc := eastern(t)
	w := testWindow(t)

	// Tue 23:00 -> Wed 07:00 is one business hour
	insert := time.Date(2024, time.January, 9, 23, 0, 0, 0, loc)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, 8*time.Hour),
	}

	agg, err := Aggregate(records, Options{Window: w})
	if err != nil {
		t.Fatal(err)
	}
	got := agg.Tables[StatCycleTimeMean].Value("202401", string(DispositionFalsePositive))
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("business-hours mean = %v, want 1", got)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	insert := date(2024, time.April, 2).Add(9 * time.Hour)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, time.Hour),
		disposedRecord(2, "EXPLOITATION", insert, 3*time.Hour),
		{ID: 3, AlertType: "test_tool", InsertDate: insert},
	}
	opts := Options{Start: date(2024, time.March, 1), End: date(2024, time.May, 31)}

	first, err := Aggregate(records, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Aggregate(records, opts)
	if err != nil {
		t.Fatal(err)
	}

	for _, kind := range StatKinds() {
		a, err := json.Marshal(first.Tables[kind])
		if err != nil {
			t.Fatal(err)
		}
		b, err := json.Marshal(second.Tables[kind])
		if err != nil {
			t.Fatal(err)
		}
		if string(a) != string(b) {
			t.Errorf("%s not identical across runs", kind)
		}
	}
}

func TestAggregateStddev(t *testing.T) {
	insert := date(2024, time.April, 2).Add(9 * time.Hour)
	records := []alert.Record{
		disposedRecord(1, "DELIVERY", insert, 2*time.Hour),
		disposedRecord(2, "DELIVERY", insert, 4*time.Hour),
		disposedRecord(3, "DELIVERY", insert, 6*time.Hour),
	}

	agg, err := Aggregate(records, Options{})
	if err != nil {
		t.Fatal(err)
	}

	col := string(DispositionDelivery)
	if got := agg.Tables[StatCycleTimeMean].Value("202404", col); math.Abs(got-4) > 1e-9 {
		t.Errorf("mean = %v, want 4", got)
	}
	// population stddev of {2,4,6} is sqrt(8/3)
	want := math.Sqrt(8.0 / 3.0)
	if got := agg.Tables[StatCycleTimeStd].Value("202404", col); math.Abs(got-want) > 1e-9 {
		t.Errorf("stddev = %v, want %v", got, want)
	}
	if got := agg.Tables[StatCycleTimeMin].Value("202404", col); math.Abs(got-2) > 1e-9 {
		t.Errorf("min = %v, want 2", got)
	}
	if got := agg.Tables[StatCycleTimeMax].Value("202404", col); math.Abs(got-6) > 1e-9 {
		t.Errorf("max = %v, want 6", got)
	}
}

func TestParseStatKind(t *testing.T) {
	if _, err := ParseStatKind("cycle_time_mean"); err != nil {
		t.Errorf("ParseStatKind(cycle_time_mean) error = %v", err)
	}
	_, err := ParseStatKind("made_up_stat")
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeUnknownCat {
		t.Errorf("error code = %s, want %s", code, apperrors.ErrCodeUnknownCat)
	}
}
