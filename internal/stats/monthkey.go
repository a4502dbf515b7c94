package stats

import (
	"time"

	"github.com/alertops/socstats/internal/pkg/errors"
)

// MonthKey is a calendar month as a 6-character YYYYMM string. The
// lexicographic order of keys equals chronological order, which makes
// them usable directly as a sorted table axis.
type MonthKey string

const monthKeyLayout = "200601"

// MonthKeyFor returns the MonthKey of the month containing t.
func MonthKeyFor(t time.Time) MonthKey {
	return MonthKey(t.Format(monthKeyLayout))
}

// Time returns the first instant of the month in loc (UTC when nil),
// or the zero time if the key is malformed.
func (m MonthKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(monthKeyLayout, string(m), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MonthsBetween returns one key per calendar month from start's month
// through end's month inclusive, regardless of day-of-month.
func MonthsBetween(start, end time.Time) ([]MonthKey, error) {
	if end.Before(start) {
		return nil, errors.InvalidRange("month range", start, end)
	}

	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []MonthKey
	for !cur.After(last) {
		months = append(months, MonthKeyFor(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return months, nil
}
