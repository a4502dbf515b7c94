package stats

import (
	"testing"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
	apperrors "github.com/alertops/socstats/internal/pkg/errors"
)

func TestLookupTransform(t *testing.T) {
	for _, name := range TransformNames() {
		if _, err := LookupTransform(name); err != nil {
			t.Errorf("LookupTransform(%s) error = %v", name, err)
		}
	}

	_, err := LookupTransform("patch_in_my_module")
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("error code = %s, want %s", code, apperrors.ErrCodeInvalidConfig)
	}
}

func TestApplyTransforms(t *testing.T) {
	insert := date(2024, time.April, 2)
	badDisposition := insert.Add(-time.Hour)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, time.Hour),
		disposedRecord(2, "DELIVERY", insert, 2*time.Hour),
		{ID: 3, AlertType: "test_tool", InsertDate: insert},
		{
			ID:              4,
			AlertType:       "test_tool",
			Disposition:     strPtr("DELIVERY"),
			InsertDate:      insert,
			DispositionTime: &badDisposition,
		},
	}

	tests := []struct {
		name    string
		chain   []string
		wantIDs []int64
		wantErr bool
	}{
		{"no transforms", nil, []int64{1, 2, 3, 4}, false},
		{"exclude undispositioned", []string{"exclude_undispositioned"}, []int64{1, 2, 4}, false},
		{"exclude false positives", []string{"exclude_false_positives"}, []int64{2, 3, 4}, false},
		{"drop invalid cycle times", []string{"drop_invalid_cycle_times"}, []int64{1, 2, 3}, false},
		{"chained", []string{"exclude_undispositioned", "exclude_false_positives", "drop_invalid_cycle_times"}, []int64{2}, false},
		{"unknown key", []string{"exclude_undispositioned", "nope"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyTransforms(records, tt.chain)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyTransforms() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("record[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestApplyTransformsDoesNotMutateInput(t *testing.T) {
	insert := date(2024, time.April, 2)
	records := []alert.Record{
		disposedRecord(1, "FALSE_POSITIVE", insert, time.Hour),
		{ID: 2, AlertType: "test_tool", InsertDate: insert},
	}

	if _, err := ApplyTransforms(records, []string{"exclude_undispositioned"}); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != 1 || records[1].ID != 2 {
		t.Error("input slice was mutated")
	}
}
