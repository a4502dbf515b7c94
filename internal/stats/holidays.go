package stats

import "time"

// HolidayRule describes one recurring holiday. A rule is either fixed
// to a day of month (Day > 0) or floating on a weekday occurrence
// (Week != 0; negative counts from the end of the month, -1 = last).
type HolidayRule struct {
	Name    string
	Month   time.Month
	Day     int
	Weekday time.Weekday
	Week    int
}

// HolidayCalendar answers whether a given date is a holiday under a
// fixed rule set.
type HolidayCalendar struct {
	rules []HolidayRule
}

// NewHolidayCalendar creates a calendar from the given rules.
func NewHolidayCalendar(rules ...HolidayRule) *HolidayCalendar {
	return &HolidayCalendar{rules: rules}
}

// DefaultHolidays returns the stock US holiday set used when no
// calendar is configured.
func DefaultHolidays() *HolidayCalendar {
	return NewHolidayCalendar(
		HolidayRule{Name: "New Year's Day", Month: time.January, Day: 1},
		HolidayRule{Name: "Memorial Day", Month: time.May, Weekday: time.Monday, Week: -1},
		HolidayRule{Name: "Independence Day", Month: time.July, Day: 4},
		HolidayRule{Name: "Labor Day", Month: time.September, Weekday: time.Monday, Week: 1},
		HolidayRule{Name: "Thanksgiving Day", Month: time.November, Weekday: time.Thursday, Week: 4},
		HolidayRule{Name: "Day After Thanksgiving", Month: time.November, Weekday: time.Friday, Week: 4},
		HolidayRule{Name: "Christmas Eve", Month: time.December, Day: 24},
		HolidayRule{Name: "Christmas Day", Month: time.December, Day: 25},
	)
}

// IsHoliday reports whether t's date matches any rule. Day-of-month
// holidays that land on a weekend are also observed on the adjacent
// Friday or Monday; both the actual day and the observed day count.
func (c *HolidayCalendar) IsHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	for _, rule := range c.rules {
		if rule.matches(t) {
			return true
		}
	}
	return false
}

func (r HolidayRule) matches(t time.Time) bool {
	if r.Day > 0 {
		if r.dayMatches(t) {
			return true
		}
		// observed shift: Sat -> Fri, Sun -> Mon
		switch t.Weekday() {
		case time.Friday:
			return r.dayMatches(t.AddDate(0, 0, 1))
		case time.Monday:
			return r.dayMatches(t.AddDate(0, 0, -1))
		}
		return false
	}
	return r.weekMatches(t)
}

func (r HolidayRule) dayMatches(t time.Time) bool {
	return t.Month() == r.Month && t.Day() == r.Day
}

func (r HolidayRule) weekMatches(t time.Time) bool {
	if r.Week == 0 || t.Month() != r.Month || t.Weekday() != r.Weekday {
		return false
	}
	if r.Week > 0 {
		return (t.Day()-1)/7+1 == r.Week
	}
	// counting from the end of the month
	daysInMonth := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return (daysInMonth-t.Day())/7+1 == -r.Week
}
