package stats

import (
	"testing"

	"github.com/alertops/socstats/internal/domain/alert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		disposition *string
		want        Disposition
	}{
		{"nil disposition", nil, DispositionUndispositioned},
		{"uppercase store value", strPtr("FALSE_POSITIVE"), DispositionFalsePositive},
		{"lowercase", strPtr("grayware"), DispositionGrayware},
		{"surrounding whitespace", strPtr("  DELIVERY  "), DispositionDelivery},
		{"unknown value", strPtr("BRAND_NEW_DISPO"), DispositionUndispositioned},
		{"empty string", strPtr(""), DispositionUndispositioned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := alert.Record{Disposition: tt.disposition}
			if got := Categorize(r); got != tt.want {
				t.Errorf("Categorize() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDispositionsOrder(t *testing.T) {
	all := Dispositions()
	if len(all) == 0 {
		t.Fatal("no dispositions enumerated")
	}
	if all[len(all)-1] != DispositionUndispositioned {
		t.Errorf("last disposition = %s, want %s", all[len(all)-1], DispositionUndispositioned)
	}
	seen := make(map[Disposition]bool, len(all))
	for _, d := range all {
		if seen[d] {
			t.Errorf("duplicate disposition %s", d)
		}
		seen[d] = true
		if !d.Valid() {
			t.Errorf("%s not valid", d)
		}
	}
}
