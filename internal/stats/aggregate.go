package stats

import (
	"math"
	"time"

	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/errors"
)

// StatKind names one statistic computed per month and disposition.
type StatKind string

const (
	StatAlertCount    StatKind = "alert_count"
	StatCycleTimeSum  StatKind = "cycle_time_sum"
	StatCycleTimeMean StatKind = "cycle_time_mean"
	StatCycleTimeMin  StatKind = "cycle_time_min"
	StatCycleTimeMax  StatKind = "cycle_time_max"
	StatCycleTimeStd  StatKind = "cycle_time_std"
)

var statKindOrder = []StatKind{
	StatAlertCount,
	StatCycleTimeSum,
	StatCycleTimeMean,
	StatCycleTimeMin,
	StatCycleTimeMax,
	StatCycleTimeStd,
}

var statLabels = map[StatKind]string{
	StatAlertCount:    "Alert Quantities",
	StatCycleTimeSum:  "Total Open Time",
	StatCycleTimeMean: "Average Time to Disposition",
	StatCycleTimeMin:  "Quickest Disposition",
	StatCycleTimeMax:  "Slowest Disposition",
	StatCycleTimeStd:  "Std. Dev. of Time to Disposition",
}

// StatKinds returns all statistic kinds in presentation order.
func StatKinds() []StatKind {
	out := make([]StatKind, len(statKindOrder))
	copy(out, statKindOrder)
	return out
}

// Valid reports whether k is an enumerated statistic kind.
func (k StatKind) Valid() bool {
	_, ok := statLabels[k]
	return ok
}

// Label returns the human-friendly name of the statistic.
func (k StatKind) Label() string {
	if label, ok := statLabels[k]; ok {
		return label
	}
	return string(k)
}

// ParseStatKind validates a caller-supplied stat kind name.
func ParseStatKind(s string) (StatKind, error) {
	k := StatKind(s)
	if !k.Valid() {
		return "", errors.UnknownCategory("stat kind", s)
	}
	return k, nil
}

// Options controls an aggregation run.
type Options struct {
	// Start and End pin the month axis. When both are zero the axis is
	// inferred from the min and max insertion dates observed; supplying
	// the range explicitly guarantees gapless output for sparse data.
	Start time.Time
	End   time.Time

	// Window applies business-hours adjustment to cycle times. Nil
	// means raw wall-clock elapsed time.
	Window *BusinessTimeWindow
}

// cellAccum is the streaming state for one (month, category) bucket.
type cellAccum struct {
	count int64
	sum   float64
	sumSq float64
	min   float64
	max   float64
}

func (c *cellAccum) observe(hours float64) {
	if c.count == 0 || hours < c.min {
		c.min = hours
	}
	if c.count == 0 || hours > c.max {
		c.max = hours
	}
	c.count++
	c.sum += hours
	c.sumSq += hours * hours
}

func (c *cellAccum) mean() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}

// population standard deviation, clamped so floating-point error never
// yields a small negative radicand
func (c *cellAccum) stddev() float64 {
	if c.count == 0 {
		return 0
	}
	m := c.mean()
	variance := c.sumSq/float64(c.count) - m*m
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

type hopAccum struct {
	count int64
	sum   float64
}

type monthAccum struct {
	quantity int64
	disposed int64
	rawSum   float64
	bhSum    float64
}

// Aggregation is the result of one pass over a record set: the
// month-by-disposition stat tables plus the per-bucket state the
// summarizers derive their views from without re-walking raw records.
type Aggregation struct {
	Tables map[StatKind]*StatTable
	Months []MonthKey

	window       *BusinessTimeWindow
	bucketWindow *BusinessTimeWindow
	hop          map[MonthKey]map[HoursBucket]*hopAccum
	overall      map[MonthKey]*monthAccum
}

// Aggregate computes every statistic kind in a single pass over
// records. Records are binned by insertion month; a record whose
// insertion month falls outside the axis is excluded entirely, even if
// its disposition falls inside. Undispositioned records contribute to
// counts only. Each record lands in exactly one disposition category.
func Aggregate(records []alert.Record, opts Options) (*Aggregation, error) {
	months, err := monthAxis(records, opts)
	if err != nil {
		return nil, err
	}

	// the hours-of-operation bucketing always needs an operating
	// window; fall back to the defaults when cycle times are raw
	bucketWindow := opts.Window
	if bucketWindow == nil {
		bucketWindow = DefaultBusinessTimeWindow()
	}

	monthSet := make(map[MonthKey]bool, len(months))
	for _, m := range months {
		monthSet[m] = true
	}

	cells := make(map[MonthKey]map[Disposition]*cellAccum)
	counts := make(map[MonthKey]map[Disposition]int64)
	hop := make(map[MonthKey]map[HoursBucket]*hopAccum)
	overall := make(map[MonthKey]*monthAccum)

	for _, r := range records {
		if r.InsertDate.IsZero() {
			return nil, errors.MissingField("insert_date", r.ID)
		}
		month := MonthKeyFor(r.InsertDate)
		if !monthSet[month] {
			continue
		}
		cat := Categorize(r)

		if counts[month] == nil {
			counts[month] = make(map[Disposition]int64)
		}
		counts[month][cat]++

		if overall[month] == nil {
			overall[month] = &monthAccum{}
		}
		overall[month].quantity++

		if !r.Disposed() {
			continue
		}

		// the data model guarantees disposition >= insertion; clamp
		// rather than fail if a store violates it
		dispositionTime := *r.DispositionTime
		if dispositionTime.Before(r.InsertDate) {
			dispositionTime = r.InsertDate
		}

		cycleHours, err := ElapsedBusinessHours(r.InsertDate, dispositionTime, opts.Window)
		if err != nil {
			return nil, err
		}

		if cells[month] == nil {
			cells[month] = make(map[Disposition]*cellAccum)
		}
		if cells[month][cat] == nil {
			cells[month][cat] = &cellAccum{}
		}
		cells[month][cat].observe(cycleHours)

		rawHours := dispositionTime.Sub(r.InsertDate).Hours()
		bhHours, err := ElapsedBusinessHours(r.InsertDate, dispositionTime, bucketWindow)
		if err != nil {
			return nil, err
		}
		overall[month].disposed++
		overall[month].rawSum += rawHours
		overall[month].bhSum += bhHours

		bucket := bucketFor(dispositionTime, bucketWindow)
		if hop[month] == nil {
			hop[month] = make(map[HoursBucket]*hopAccum)
		}
		if hop[month][bucket] == nil {
			hop[month][bucket] = &hopAccum{}
		}
		hop[month][bucket].count++
		hop[month][bucket].sum += rawHours
	}

	agg := &Aggregation{
		Tables:       make(map[StatKind]*StatTable, len(statKindOrder)),
		Months:       months,
		window:       opts.Window,
		bucketWindow: bucketWindow,
		hop:          hop,
		overall:      overall,
	}

	columns := make([]string, 0, len(dispositionOrder))
	for _, d := range dispositionOrder {
		columns = append(columns, string(d))
	}

	countTable := NewStatTable(StatAlertCount.Label(), KindCount, months, columns)
	for month, byCat := range counts {
		for cat, n := range byCat {
			countTable.Set(month, string(cat), float64(n))
		}
	}
	countTable.AddTotalColumn()
	agg.Tables[StatAlertCount] = countTable

	for _, kind := range statKindOrder[1:] {
		table := NewStatTable(kind.Label(), KindHours, months, columns)
		for month, byCat := range cells {
			for cat, acc := range byCat {
				var v float64
				switch kind {
				case StatCycleTimeSum:
					v = acc.sum
				case StatCycleTimeMean:
					v = acc.mean()
				case StatCycleTimeMin:
					v = acc.min
				case StatCycleTimeMax:
					v = acc.max
				case StatCycleTimeStd:
					v = acc.stddev()
				}
				table.Set(month, string(cat), v)
			}
		}
		agg.Tables[kind] = table
	}

	return agg, nil
}

// Table returns the table for a caller-supplied stat kind name.
func (a *Aggregation) Table(kind string) (*StatTable, error) {
	k, err := ParseStatKind(kind)
	if err != nil {
		return nil, err
	}
	return a.Tables[k], nil
}

func monthAxis(records []alert.Record, opts Options) ([]MonthKey, error) {
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		return MonthsBetween(opts.Start, opts.End)
	}
	if len(records) == 0 {
		return nil, nil
	}
	var minDate, maxDate time.Time
	for _, r := range records {
		if r.InsertDate.IsZero() {
			return nil, errors.MissingField("insert_date", r.ID)
		}
		if minDate.IsZero() || r.InsertDate.Before(minDate) {
			minDate = r.InsertDate
		}
		if maxDate.IsZero() || r.InsertDate.After(maxDate) {
			maxDate = r.InsertDate
		}
	}
	return MonthsBetween(minDate, maxDate)
}
