package stats

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/errors"
)

// OtherCategory collects alert types that match no configured prefix.
const OtherCategory = "other"

// Category is one named group of alert-type identifier prefixes.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
}

// CategoryMap is an ordered caller-supplied grouping of alert types
// into coarser categories. Order matters: the first category whose
// prefix matches claims the alert type.
type CategoryMap struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Empty reports whether no categories are configured.
func (m CategoryMap) Empty() bool {
	return len(m.Categories) == 0
}

// LoadCategoryMap reads a YAML category map from path. An empty path
// yields an empty map, which disables category grouping.
func LoadCategoryMap(path string) (CategoryMap, error) {
	var m CategoryMap
	if path == "" {
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.InvalidConfiguration("category_map", path, err.Error())
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, errors.InvalidConfiguration("category_map", path, err.Error())
	}
	for _, c := range m.Categories {
		if c.Name == "" || len(c.Prefixes) == 0 {
			return CategoryMap{}, errors.InvalidConfiguration("category_map", path, "each category needs a name and at least one prefix")
		}
	}
	return m, nil
}

// categoryFor returns the first category claiming alertType, or "".
func (m CategoryMap) categoryFor(alertType string) string {
	for _, c := range m.Categories {
		for _, prefix := range c.Prefixes {
			if strings.HasPrefix(alertType, prefix) {
				return c.Name
			}
		}
	}
	return ""
}

// GroupByCategory tallies per-type, per-month counts into the coarser
// categories of categoryMap. Assignment is first-match-wins and
// exclusive: an alert type is never counted in two categories even if
// it matches prefixes in both. Types matching nothing go to a
// synthesized "other" category, added only when non-empty. The months
// axis may be supplied to guarantee gapless output; when nil it is
// inferred from the counts.
func GroupByCategory(typeCounts []alert.TypeMonthCount, categoryMap CategoryMap, months []MonthKey) (*StatTable, error) {
	if months == nil {
		months = monthsFromCounts(typeCounts)
	}

	assigned := make(map[string]string)
	hasOther := false
	for _, tc := range typeCounts {
		if _, seen := assigned[tc.AlertType]; seen {
			continue
		}
		cat := categoryMap.categoryFor(tc.AlertType)
		if cat == "" {
			cat = OtherCategory
			hasOther = true
		}
		assigned[tc.AlertType] = cat
	}

	columns := make([]string, 0, len(categoryMap.Categories)+1)
	for _, c := range categoryMap.Categories {
		columns = append(columns, c.Name)
	}
	if hasOther {
		columns = append(columns, OtherCategory)
	}

	table := NewStatTable("Alert Type Category Quantities", KindCount, months, columns)
	for _, tc := range typeCounts {
		table.Add(MonthKey(tc.Month), assigned[tc.AlertType], float64(tc.Count))
	}
	return table, nil
}

func monthsFromCounts(typeCounts []alert.TypeMonthCount) []MonthKey {
	var minKey, maxKey MonthKey
	for _, tc := range typeCounts {
		m := MonthKey(tc.Month)
		if minKey == "" || m < minKey {
			minKey = m
		}
		if maxKey == "" || m > maxKey {
			maxKey = m
		}
	}
	if minKey == "" {
		return nil
	}
	months, err := MonthsBetween(minKey.Time(nil), maxKey.Time(nil))
	if err != nil {
		return nil
	}
	return months
}
