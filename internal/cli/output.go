package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/alertops/socstats/internal/stats"
)

// Table renders data as a formatted table.
type Table struct {
	headers []string
	rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		writer:  os.Stdout,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))

	// Separator
	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	// Rows
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// renderStatTable prints a stat table in the requested format.
func renderStatTable(table *stats.StatTable) error {
	switch getOutputFormat() {
	case "json":
		return printJSON(table)
	case "yaml":
		return printYAML(table)
	case "csv":
		return table.WriteCSV(os.Stdout)
	default:
		fmt.Println(table.Name)
		out := NewTable(append([]string{"month"}, table.Columns...)...)
		for _, m := range table.Months {
			row := make([]string, 0, len(table.Columns)+1)
			row = append(row, string(m))
			for _, c := range table.Columns {
				row = append(row, formatCell(table, table.Value(m, c)))
			}
			out.AddRow(row...)
		}
		out.Render()
		fmt.Println()
		return nil
	}
}

func formatCell(table *stats.StatTable, v float64) string {
	if table.Kind == stats.KindCount {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(data interface{}) error {
	// round-trip through JSON so custom marshalers apply
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}
