package stats

import (
	"fmt"
	"sort"

	"github.com/alertops/socstats/internal/domain/alert"
)

// TypeStatTables partitions records by alert type and computes the full
// statistic set for each type. Table names are prefixed with the type
// so exported sheets stay distinguishable.
func TypeStatTables(records []alert.Record, opts Options) (map[string]map[StatKind]*StatTable, error) {
	byType := make(map[string][]alert.Record)
	for _, r := range records {
		byType[r.AlertType] = append(byType[r.AlertType], r)
	}

	out := make(map[string]map[StatKind]*StatTable, len(byType))
	for alertType, subset := range byType {
		agg, err := Aggregate(subset, opts)
		if err != nil {
			return nil, err
		}
		for kind, table := range agg.Tables {
			table.Name = fmt.Sprintf("%s - %s", alertType, kind.Label())
		}
		out[alertType] = agg.Tables
	}
	return out, nil
}

// SortedTypes returns the alert types of a per-type stat map in stable
// order for rendering.
func SortedTypes(byType map[string]map[StatKind]*StatTable) []string {
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
