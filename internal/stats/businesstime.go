package stats

import (
	"time"

	"github.com/alertops/socstats/internal/pkg/errors"
)

// Default operating window when business hours are requested without
// explicit settings.
const (
	DefaultStartHour = 6
	DefaultEndHour   = 18
	DefaultTimeZone  = "US/Eastern"
)

// BusinessTimeWindow is an immutable operating-hours configuration:
// a daily [StartHour, EndHour) window on weekdays, holidays excluded.
//
// Timestamps handed to the calculator are assumed to already be
// localized to the configured timezone; no conversion is performed.
type BusinessTimeWindow struct {
	StartHour int
	EndHour   int
	Location  *time.Location
	Holidays  *HolidayCalendar
}

// NewBusinessTimeWindow validates and builds a window. The end hour is
// exclusive and must be greater than the start hour.
func NewBusinessTimeWindow(startHour, endHour int, timeZone string, holidays *HolidayCalendar) (*BusinessTimeWindow, error) {
	if startHour < 0 || startHour > 23 {
		return nil, errors.InvalidConfiguration("business_hours.start_hour", startHour, "hour must be 0-23")
	}
	if endHour < 0 || endHour > 23 {
		return nil, errors.InvalidConfiguration("business_hours.end_hour", endHour, "hour must be 0-23")
	}
	if endHour <= startHour {
		return nil, errors.InvalidConfiguration("business_hours", [2]int{startHour, endHour}, "end hour must be after start hour")
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, errors.InvalidConfiguration("business_hours.time_zone", timeZone, "unrecognized timezone name")
	}
	return &BusinessTimeWindow{
		StartHour: startHour,
		EndHour:   endHour,
		Location:  loc,
		Holidays:  holidays,
	}, nil
}

// DefaultBusinessTimeWindow returns the 6-18 US/Eastern window with the
// stock holiday calendar.
func DefaultBusinessTimeWindow() *BusinessTimeWindow {
	w, err := NewBusinessTimeWindow(DefaultStartHour, DefaultEndHour, DefaultTimeZone, DefaultHolidays())
	if err != nil {
		// the defaults are known-valid
		panic(err)
	}
	return w
}

// OpenHours returns the length of one business day in hours.
func (w *BusinessTimeWindow) OpenHours() float64 {
	return float64(w.EndHour - w.StartHour)
}

// isBusinessDay reports whether t falls on a weekday that is not a holiday.
func (w *BusinessTimeWindow) isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !w.Holidays.IsHoliday(t)
}

// ElapsedBusinessHours converts a wall-clock timestamp pair into the
// elapsed hours that fall inside the window. A nil window disables the
// calculation and returns the raw elapsed hours. The result is
// non-negative and non-decreasing in end for a fixed start.
func ElapsedBusinessHours(start, end time.Time, w *BusinessTimeWindow) (float64, error) {
	if end.Before(start) {
		return 0, errors.InvalidRange("business time", start, end)
	}
	if w == nil {
		return end.Sub(start).Hours(), nil
	}

	total := 0.0
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for !day.After(end) {
		if w.isBusinessDay(day) {
			open := day.Add(time.Duration(w.StartHour) * time.Hour)
			close := day.Add(time.Duration(w.EndHour) * time.Hour)

			s := start
			if open.After(s) {
				s = open
			}
			e := end
			if close.Before(e) {
				e = close
			}
			if e.After(s) {
				total += e.Sub(s).Hours()
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return total, nil
}
