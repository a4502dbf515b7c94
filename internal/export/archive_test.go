package export

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/alertops/socstats/internal/stats"
)

func exportTables() []*stats.StatTable {
	counts := stats.NewStatTable("Alert Quantities", stats.KindCount, []stats.MonthKey{"202401", "202402"}, []string{"false_positive"})
	counts.Set("202401", "false_positive", 3)

	means := stats.NewStatTable("Average Time to Disposition", stats.KindHours, []stats.MonthKey{"202401", "202402"}, []string{"false_positive"})
	means.Set("202401", "false_positive", 2.5)

	return []*stats.StatTable{counts, means}
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	defer gz.Close()

	entries := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar.Next() error = %v", err)
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("reading %s: %v", hdr.Name, err)
		}
		entries[hdr.Name] = content
	}
	return entries
}

func TestWriteJSONArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONArchive(&buf, exportTables()); err != nil {
		t.Fatalf("WriteJSONArchive() error = %v", err)
	}

	entries := readArchive(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(entries))
	}

	data, ok := entries["Alert Quantities.json"]
	if !ok {
		t.Fatalf("missing Alert Quantities.json, got %v", entryNames(entries))
	}

	var decoded map[string]map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		t.Fatalf("decoding table JSON: %v", err)
	}
	if got := decoded["202401"]["false_positive"].String(); got != "3" {
		t.Errorf("202401 false_positive = %s, want 3", got)
	}
	if got := decoded["202402"]["false_positive"].String(); got != "0" {
		t.Errorf("202402 false_positive = %s, want 0", got)
	}
}

func TestWriteCSVArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSVArchive(&buf, exportTables()); err != nil {
		t.Fatalf("WriteCSVArchive() error = %v", err)
	}

	entries := readArchive(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(entries))
	}

	data, ok := entries["Average Time to Disposition.csv"]
	if !ok {
		t.Fatalf("missing Average Time to Disposition.csv, got %v", entryNames(entries))
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"month,false_positive",
		"202401,2.5",
		"202402,0",
	}
	if len(lines) != len(want) {
		t.Fatalf("CSV lines = %v, want %v", lines, want)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func entryNames(entries map[string][]byte) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	return names
}
