package stats

import (
	"math"
	"testing"
	"time"

	apperrors "github.com/alertops/socstats/internal/pkg/errors"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("US/Eastern")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

func testWindow(t *testing.T) *BusinessTimeWindow {
	t.Helper()
	w, err := NewBusinessTimeWindow(6, 18, "US/Eastern", DefaultHolidays())
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNewBusinessTimeWindow(t *testing.T) {
	tests := []struct {
		name      string
		startHour int
		endHour   int
		timeZone  string
		wantErr   bool
	}{
		{name: "valid", startHour: 6, endHour: 18, timeZone: "US/Eastern"},
		{name: "end before start", startHour: 18, endHour: 6, timeZone: "US/Eastern", wantErr: true},
		{name: "end equals start", startHour: 9, endHour: 9, timeZone: "UTC", wantErr: true},
		{name: "start out of range", startHour: -1, endHour: 18, timeZone: "UTC", wantErr: true},
		{name: "end out of range", startHour: 6, endHour: 24, timeZone: "UTC", wantErr: true},
		{name: "bad timezone", startHour: 6, endHour: 18, timeZone: "Mars/Olympus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBusinessTimeWindow(tt.startHour, tt.endHour, tt.timeZone, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBusinessTimeWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if code := apperrors.CodeOf(err); code != apperrors.ErrCodeInvalidConfig {
					t.Errorf("error code = %s, want %s", code, apperrors.ErrCodeInvalidConfig)
				}
			}
		})
	}
}

func TestElapsedBusinessHours(t *testing.T) {
	loc := eastern(t)
	w := testWindow(t)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{
			// Tue 23:00 -> Wed 07:00: only 06:00-07:00 counts
			name:  "overnight into business morning",
			start: time.Date(2024, time.January, 9, 23, 0, 0, 0, loc),
			end:   time.Date(2024, time.January, 10, 7, 0, 0, 0, loc),
			want:  1,
		},
		{
			name:  "fully inside one business day",
			start: time.Date(2024, time.January, 10, 9, 0, 0, 0, loc),
			end:   time.Date(2024, time.January, 10, 14, 30, 0, 0, loc),
			want:  5.5,
		},
		{
			// Sat 10:00 -> Sun 16:00
			name:  "entirely on the weekend",
			start: time.Date(2024, time.January, 13, 10, 0, 0, 0, loc),
			end:   time.Date(2024, time.January, 14, 16, 0, 0, 0, loc),
			want:  0,
		},
		{
			// Fri 17:00 -> Mon 07:00 spanning the weekend
			name:  "weekend spanning",
			start: time.Date(2024, time.January, 12, 17, 0, 0, 0, loc),
			end:   time.Date(2024, time.January, 15, 7, 0, 0, 0, loc),
			want:  2,
		},
		{
			// Jul 4 2024 is a Thursday holiday
			name:  "holiday excluded entirely",
			start: time.Date(2024, time.July, 4, 9, 0, 0, 0, loc),
			end:   time.Date(2024, time.July, 4, 17, 0, 0, 0, loc),
			want:  0,
		},
		{
			name:  "same instant",
			start: time.Date(2024, time.January, 10, 9, 0, 0, 0, loc),
			end:   time.Date(2024, time.January, 10, 9, 0, 0, 0, loc),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ElapsedBusinessHours(tt.start, tt.end, w)
			if err != nil {
				t.Fatalf("ElapsedBusinessHours() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ElapsedBusinessHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElapsedBusinessHoursDisabledWindow(t *testing.T) {
	start := time.Date(2024, time.January, 13, 10, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	got, err := ElapsedBusinessHours(start, end, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 36 {
		t.Errorf("raw elapsed = %v, want 36", got)
	}
}

func TestElapsedBusinessHoursInvertedRange(t *testing.T) {
	start := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	_, err := ElapsedBusinessHours(start, start.Add(-time.Hour), testWindow(t))
	if code := apperrors.CodeOf(err); code != apperrors.ErrCodeInvalidRange {
		t.Fatalf("error code = %s, want %s", code, apperrors.ErrCodeInvalidRange)
	}
}

func TestElapsedBusinessHoursMonotonic(t *testing.T) {
	loc := eastern(t)
	w := testWindow(t)
	start := time.Date(2024, time.January, 12, 15, 0, 0, 0, loc)

	prev := -1.0
	for i := 0; i <= 96; i++ {
		end := start.Add(time.Duration(i) * time.Hour)
		got, err := ElapsedBusinessHours(start, end, w)
		if err != nil {
			t.Fatal(err)
		}
		if got < prev {
			t.Fatalf("not monotonic at +%dh: %v < %v", i, got, prev)
		}
		prev = got
	}
}

func TestHolidayObservedShift(t *testing.T) {
	cal := DefaultHolidays()

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		// Jul 4 2026 is a Saturday; observed Fri Jul 3
		{name: "actual saturday holiday", day: date(2026, time.July, 4), want: true},
		{name: "observed friday", day: date(2026, time.July, 3), want: true},
		// Jan 1 2023 is a Sunday; observed Mon Jan 2
		{name: "observed monday", day: date(2023, time.January, 2), want: true},
		{name: "memorial day last monday of may", day: date(2024, time.May, 27), want: true},
		{name: "labor day first monday of september", day: date(2024, time.September, 2), want: true},
		{name: "thanksgiving fourth thursday", day: date(2024, time.November, 28), want: true},
		{name: "plain weekday", day: date(2024, time.March, 6), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsHoliday(tt.day); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
