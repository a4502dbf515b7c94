package stats

import (
	"sort"

	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/errors"
)

// Transform adjusts a record set before aggregation. Transforms are
// statically registered and selected by configuration key; there is no
// dynamic lookup of code by name beyond this fixed registry.
type Transform func([]alert.Record) []alert.Record

var transformRegistry = map[string]Transform{
	"exclude_undispositioned":  excludeUndispositioned,
	"exclude_false_positives":  excludeFalsePositives,
	"drop_invalid_cycle_times": dropInvalidCycleTimes,
}

// TransformNames returns the registered transform keys, sorted.
func TransformNames() []string {
	names := make([]string, 0, len(transformRegistry))
	for name := range transformRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTransform resolves a configured transform key.
func LookupTransform(name string) (Transform, error) {
	t, ok := transformRegistry[name]
	if !ok {
		return nil, errors.InvalidConfiguration("transforms", name, "no such transform registered")
	}
	return t, nil
}

// ApplyTransforms runs the named transforms in order over a copy of
// records. The input slice is never mutated.
func ApplyTransforms(records []alert.Record, names []string) ([]alert.Record, error) {
	out := append([]alert.Record(nil), records...)
	for _, name := range names {
		t, err := LookupTransform(name)
		if err != nil {
			return nil, err
		}
		out = t(out)
	}
	return out, nil
}

func excludeUndispositioned(records []alert.Record) []alert.Record {
	out := records[:0]
	for _, r := range records {
		if r.Disposed() {
			out = append(out, r)
		}
	}
	return out
}

func excludeFalsePositives(records []alert.Record) []alert.Record {
	out := records[:0]
	for _, r := range records {
		if Categorize(r) != DispositionFalsePositive {
			out = append(out, r)
		}
	}
	return out
}

// drops records whose disposition precedes their insertion, which a
// well-behaved store should never produce
func dropInvalidCycleTimes(records []alert.Record) []alert.Record {
	out := records[:0]
	for _, r := range records {
		if r.Disposed() && r.DispositionTime.Before(r.InsertDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}
