package export

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"time"

	"github.com/alertops/socstats/internal/stats"
)

// WriteJSONArchive writes tables as a gzipped tar of JSON documents,
// one file per table named after its sanitized table name.
func WriteJSONArchive(w io.Writer, tables []*stats.StatTable) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	now := time.Now()

	for _, table := range tables {
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:    table.SafeName() + ".json",
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// WriteCSVArchive writes tables as a gzipped tar of CSV files.
func WriteCSVArchive(w io.Writer, tables []*stats.StatTable) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	now := time.Now()

	for _, table := range tables {
		data, err := table.CSVString()
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:    table.SafeName() + ".csv",
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := io.WriteString(tw, data); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
