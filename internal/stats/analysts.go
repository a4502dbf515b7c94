package stats

import (
	"fmt"

	"github.com/alertops/socstats/internal/domain/alert"
)

// AnalystQuantitiesTable counts alerts dispositioned by each analyst
// per insertion month. Analysts with no dispositioned alerts in the
// range are left out, matching the workload report's presentation.
func AnalystQuantitiesTable(records []alert.Record, analysts []alert.Analyst, opts Options) (*StatTable, error) {
	months, err := monthAxis(records, opts)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64]map[MonthKey]int64)
	monthSet := make(map[MonthKey]bool, len(months))
	for _, m := range months {
		monthSet[m] = true
	}
	for _, r := range records {
		if r.DispositionUserID == nil {
			continue
		}
		month := MonthKeyFor(r.InsertDate)
		if !monthSet[month] {
			continue
		}
		if byUser[*r.DispositionUserID] == nil {
			byUser[*r.DispositionUserID] = make(map[MonthKey]int64)
		}
		byUser[*r.DispositionUserID][month]++
	}

	var columns []string
	withData := make([]alert.Analyst, 0, len(analysts))
	for _, a := range analysts {
		if len(byUser[a.ID]) == 0 {
			continue
		}
		columns = append(columns, a.Username)
		withData = append(withData, a)
	}

	table := NewStatTable("Alert Quantities by Analyst", KindCount, months, columns)
	for _, a := range withData {
		for month, n := range byUser[a.ID] {
			table.Set(month, a.Username, float64(n))
		}
	}
	return table, nil
}

// AnalystStatTables computes the full statistic set for each analyst's
// dispositioned alerts, keyed by analyst id.
func AnalystStatTables(records []alert.Record, analysts []alert.Analyst, opts Options) (map[int64]map[StatKind]*StatTable, error) {
	byUser := make(map[int64][]alert.Record)
	for _, r := range records {
		if r.DispositionUserID == nil {
			continue
		}
		byUser[*r.DispositionUserID] = append(byUser[*r.DispositionUserID], r)
	}

	out := make(map[int64]map[StatKind]*StatTable, len(analysts))
	for _, a := range analysts {
		subset := byUser[a.ID]
		if len(subset) == 0 {
			continue
		}
		agg, err := Aggregate(subset, opts)
		if err != nil {
			return nil, err
		}
		for kind, table := range agg.Tables {
			table.Name = fmt.Sprintf("%s - %s", a.Name(), kind.Label())
		}
		out[a.ID] = agg.Tables
	}
	return out, nil
}
