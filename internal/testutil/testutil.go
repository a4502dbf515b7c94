package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/db"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/logger"
)

// NewTestDB opens an in-memory SQLite database with the full schema
// applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	// A single connection keeps every statement on the same in-memory
	// database.
	database, err := db.Connect(context.Background(), config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(context.Background(), database); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return database
}

// NewTestLogger returns a quiet logger for tests.
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// DisposedAlert builds a closed alert record.
func DisposedAlert(id int64, alertType, disposition string, insert time.Time, cycle time.Duration) alert.Record {
	dt := insert.Add(cycle)
	return alert.Record{
		ID:              id,
		AlertType:       alertType,
		Disposition:     &disposition,
		InsertDate:      insert,
		DispositionTime: &dt,
		CompanyID:       1,
	}
}

// OpenAlert builds a record that has not been dispositioned yet.
func OpenAlert(id int64, alertType string, insert time.Time) alert.Record {
	return alert.Record{
		ID:         id,
		AlertType:  alertType,
		InsertDate: insert,
		CompanyID:  1,
	}
}
