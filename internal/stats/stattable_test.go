package stats

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatTableZeroFill(t *testing.T) {
	table := NewStatTable("t", KindCount, []MonthKey{"202401", "202402"}, []string{"a", "b"})
	for _, m := range table.Months {
		for _, c := range table.Columns {
			if v := table.Value(m, c); v != 0 {
				t.Errorf("%s[%s] = %v, want 0", m, c, v)
			}
		}
	}
}

func TestStatTableUnknownKeysIgnored(t *testing.T) {
	table := NewStatTable("t", KindCount, []MonthKey{"202401"}, []string{"a"})
	table.Set("209901", "a", 5)
	table.Set("202401", "zzz", 5)
	table.Add("209901", "a", 5)
	if v := table.Value("202401", "a"); v != 0 {
		t.Errorf("cell = %v, want 0 after out-of-axis writes", v)
	}
	if v := table.Value("209901", "a"); v != 0 {
		t.Errorf("Value on unknown month = %v, want 0", v)
	}
}

func TestStatTableAddTotalColumn(t *testing.T) {
	table := NewStatTable("t", KindCount, []MonthKey{"202401"}, []string{"a", "b"})
	table.Set("202401", "a", 2)
	table.Set("202401", "b", 3)
	table.AddTotalColumn()

	if !table.HasColumn("total") {
		t.Fatal("total column missing")
	}
	if got := table.Value("202401", "total"); got != 5 {
		t.Errorf("total = %v, want 5", got)
	}
	if last := table.Columns[len(table.Columns)-1]; last != "total" {
		t.Errorf("total column position = %s, want last", last)
	}
}

func TestStatTableMarshalJSON(t *testing.T) {
	table := NewStatTable("t", KindCount, []MonthKey{"202401", "202402"}, []string{"a"})
	table.Set("202401", "a", 3)

	raw, err := json.Marshal(table)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"202401":{"a":3},"202402":{"a":0}}`
	if string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}

	// counts serialize as integers, hours as floats
	hours := NewStatTable("t", KindHours, []MonthKey{"202401"}, []string{"a"})
	hours.Set("202401", "a", 2.5)
	raw, err = json.Marshal(hours)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"202401":{"a":2.5}}`; string(raw) != want {
		t.Errorf("json = %s, want %s", raw, want)
	}
}

func TestStatTableCSV(t *testing.T) {
	table := NewStatTable("t", KindCount, []MonthKey{"202401", "202402"}, []string{"a", "b"})
	table.Set("202401", "a", 1)
	table.Set("202402", "b", 2)

	got, err := table.CSVString()
	if err != nil {
		t.Fatal(err)
	}
	want := "month,a,b\n202401,1,0\n202402,0,2\n"
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "Hours of Operation", "Hours of Operation"},
		{"invalid chars", "a/b:c*d?e[f]g\\h", "a-b-c-d-e-f-g-h"},
		{"truncated", strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"empty", "", "unnamed"},
		{"whitespace only", "   ", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &StatTable{Name: tt.in}
			if got := table.SafeName(); got != tt.want {
				t.Errorf("SafeName() = %q, want %q", got, tt.want)
			}
			if len(table.SafeName()) > 31 {
				t.Errorf("SafeName() longer than 31 chars")
			}
		})
	}
}
