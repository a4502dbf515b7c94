package stats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TableKind tells consumers how to format cell values.
type TableKind int

const (
	// KindCount holds non-negative integer counts.
	KindCount TableKind = iota
	// KindHours holds non-negative durations expressed in hours.
	KindHours
)

// StatTable is the engine's output unit: a table keyed by MonthKey with
// one named column per category, zero-filled. Rows are chronologically
// ordered and cover the full month axis even when no data contributed.
// Tables are value objects built once per invocation and never mutated
// after being handed to a consumer.
type StatTable struct {
	Name    string
	Kind    TableKind
	Months  []MonthKey
	Columns []string

	monthIdx map[MonthKey]int
	colIdx   map[string]int
	cells    [][]float64
}

// NewStatTable builds a zero-filled months x columns table.
func NewStatTable(name string, kind TableKind, months []MonthKey, columns []string) *StatTable {
	t := &StatTable{
		Name:     name,
		Kind:     kind,
		Months:   append([]MonthKey(nil), months...),
		Columns:  append([]string(nil), columns...),
		monthIdx: make(map[MonthKey]int, len(months)),
		colIdx:   make(map[string]int, len(columns)),
	}
	for i, m := range t.Months {
		t.monthIdx[m] = i
	}
	for i, c := range t.Columns {
		t.colIdx[c] = i
	}
	t.cells = make([][]float64, len(t.Months))
	for i := range t.cells {
		t.cells[i] = make([]float64, len(t.Columns))
	}
	return t
}

// Set stores a cell value. Unknown months or columns are ignored: the
// axis is fixed at construction.
func (t *StatTable) Set(month MonthKey, column string, v float64) {
	mi, ok := t.monthIdx[month]
	if !ok {
		return
	}
	ci, ok := t.colIdx[column]
	if !ok {
		return
	}
	t.cells[mi][ci] = v
}

// Add accumulates into a cell.
func (t *StatTable) Add(month MonthKey, column string, v float64) {
	mi, ok := t.monthIdx[month]
	if !ok {
		return
	}
	ci, ok := t.colIdx[column]
	if !ok {
		return
	}
	t.cells[mi][ci] += v
}

// Value returns a cell value; absent cells read as zero.
func (t *StatTable) Value(month MonthKey, column string) float64 {
	mi, ok := t.monthIdx[month]
	if !ok {
		return 0
	}
	ci, ok := t.colIdx[column]
	if !ok {
		return 0
	}
	return t.cells[mi][ci]
}

// HasColumn reports whether column exists in the table.
func (t *StatTable) HasColumn(column string) bool {
	_, ok := t.colIdx[column]
	return ok
}

// AddTotalColumn appends a "total" column holding each row's sum.
func (t *StatTable) AddTotalColumn() {
	t.colIdx["total"] = len(t.Columns)
	t.Columns = append(t.Columns, "total")
	for i := range t.cells {
		sum := 0.0
		for _, v := range t.cells[i] {
			sum += v
		}
		t.cells[i] = append(t.cells[i], sum)
	}
}

func (t *StatTable) formatValue(v float64) string {
	if t.Kind == KindCount {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalJSON serializes the table as an object keyed by month, each
// month holding a column -> value object. Month order follows the axis.
func (t *StatTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for mi, m := range t.Months {
		if mi > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:{", string(m))
		for ci, c := range t.Columns {
			if ci > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "%q:%s", c, t.formatValue(t.cells[mi][ci]))
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteCSV writes the table in flat CSV form with a leading month column.
func (t *StatTable) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"month"}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(t.Columns)+1)
	for mi, m := range t.Months {
		row[0] = string(m)
		for ci := range t.Columns {
			row[ci+1] = t.formatValue(t.cells[mi][ci])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVString returns the table in flat CSV form.
func (t *StatTable) CSVString() (string, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// invalid in spreadsheet sheet names
var invalidSheetChars = []string{"\\", "*", "?", ":", "/", "[", "]"}

// SafeName returns the table name sanitized for use as a spreadsheet
// sheet name, bounded to 31 characters.
func (t *StatTable) SafeName() string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = "unnamed"
	}
	for _, c := range invalidSheetChars {
		name = strings.ReplaceAll(name, c, "-")
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
