package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
)

// MockAlertRepository is an in-memory implementation of alert.Repository.
// Seed Records, Analysts and Companies directly; set the error fields to
// force failures.
type MockAlertRepository struct {
	Records   []alert.Record
	Analysts  []alert.Analyst
	Companies map[int64]string

	FetchError error
	ListError  error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{
		Companies: make(map[int64]string),
	}
}

func (m *MockAlertRepository) inRange(r alert.Record, start, end time.Time) bool {
	return !r.InsertDate.Before(start) && !r.InsertDate.After(end)
}

func (m *MockAlertRepository) FetchBetween(ctx context.Context, start, end time.Time, filter alert.Filter) ([]alert.Record, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}

	companies := make(map[string]bool, len(filter.Companies))
	for _, name := range filter.Companies {
		companies[name] = true
	}
	types := make(map[string]bool, len(filter.AlertTypes))
	for _, at := range filter.AlertTypes {
		types[at] = true
	}

	var out []alert.Record
	for _, r := range m.Records {
		if !m.inRange(r, start, end) {
			continue
		}
		if len(companies) > 0 && !companies[m.Companies[r.CompanyID]] {
			continue
		}
		if len(types) > 0 && !types[r.AlertType] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MockAlertRepository) TypeCountsByMonth(ctx context.Context, start, end time.Time) ([]alert.TypeMonthCount, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}

	counts := make(map[string]map[string]int64)
	for _, r := range m.Records {
		if !m.inRange(r, start, end) {
			continue
		}
		month := r.InsertDate.Format("200601")
		if counts[r.AlertType] == nil {
			counts[r.AlertType] = make(map[string]int64)
		}
		counts[r.AlertType][month]++
	}

	var out []alert.TypeMonthCount
	for alertType, months := range counts {
		for month, n := range months {
			out = append(out, alert.TypeMonthCount{AlertType: alertType, Month: month, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].AlertType < out[j].AlertType
	})
	return out, nil
}

func (m *MockAlertRepository) TypeCountsBetween(ctx context.Context, start, end time.Time) ([]alert.TypeCount, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}

	counts := make(map[string]int64)
	for _, r := range m.Records {
		if m.inRange(r, start, end) {
			counts[r.AlertType]++
		}
	}
	out := make([]alert.TypeCount, 0, len(counts))
	for alertType, n := range counts {
		out = append(out, alert.TypeCount{AlertType: alertType, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].AlertType < out[j].AlertType
	})
	return out, nil
}

func (m *MockAlertRepository) DistinctTypesBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}

	seen := make(map[string]bool)
	for _, r := range m.Records {
		if m.inRange(r, start, end) {
			seen[r.AlertType] = true
		}
	}
	out := make([]string, 0, len(seen))
	for alertType := range seen {
		out = append(out, alertType)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MockAlertRepository) ListAnalysts(ctx context.Context) ([]alert.Analyst, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Analysts, nil
}

func (m *MockAlertRepository) ListCompanies(ctx context.Context) (map[int64]string, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Companies, nil
}
