package alert

import (
	"context"
	"time"
)

// Repository defines read access to the alert store. The metrics engine
// never constructs queries itself; implementations return plain record
// slices and the engine does the rest in memory.
type Repository interface {
	// FetchBetween returns all alerts inserted in [start, end],
	// optionally narrowed by filter.
	FetchBetween(ctx context.Context, start, end time.Time, filter Filter) ([]Record, error)

	// TypeCountsByMonth returns per-type, per-month alert counts for
	// alerts inserted in [start, end].
	TypeCountsByMonth(ctx context.Context, start, end time.Time) ([]TypeMonthCount, error)

	// TypeCountsBetween returns total counts per alert type for alerts
	// inserted in [start, end].
	TypeCountsBetween(ctx context.Context, start, end time.Time) ([]TypeCount, error)

	// DistinctTypesBetween returns the unique alert types observed in
	// [start, end].
	DistinctTypesBetween(ctx context.Context, start, end time.Time) ([]string, error)

	// ListAnalysts returns all known analysts.
	ListAnalysts(ctx context.Context) ([]Analyst, error)

	// ListCompanies returns company id -> name for all companies.
	ListCompanies(ctx context.Context) (map[int64]string, error)
}
