package stats

import "time"

// HoursBucket is one of the three mutually exclusive operating-hours
// categories a disposed alert falls into.
type HoursBucket string

const (
	BucketBusinessHours HoursBucket = "business_hours"
	BucketNights        HoursBucket = "nights"
	BucketWeekends      HoursBucket = "weekends"
)

var hoursBuckets = []HoursBucket{BucketBusinessHours, BucketNights, BucketWeekends}

// bucketFor assigns a timestamp to exactly one operating-hours bucket.
// Off-hours adjacent to the weekend belong to it: Monday before open is
// still the weekend, Friday after close already is.
func bucketFor(t time.Time, w *BusinessTimeWindow) HoursBucket {
	beforeOpen := t.Hour() < w.StartHour
	afterClose := t.Hour() >= w.EndHour

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return BucketWeekends
	case time.Monday:
		if beforeOpen {
			return BucketWeekends
		}
		if afterClose {
			return BucketNights
		}
	case time.Friday:
		if beforeOpen {
			return BucketNights
		}
		if afterClose {
			return BucketWeekends
		}
	default:
		if beforeOpen || afterClose {
			return BucketNights
		}
	}
	return BucketBusinessHours
}

// HoursOfOperationTable re-buckets the aggregation's cycle-time
// contributions into business-hours, nights and weekends by the hour
// and weekday of each disposition, with a count and a mean cycle-time
// column per bucket per month.
func (a *Aggregation) HoursOfOperationTable() *StatTable {
	columns := make([]string, 0, len(hoursBuckets)*2)
	for _, b := range hoursBuckets {
		columns = append(columns, string(b)+"_count", string(b)+"_mean_hours")
	}

	table := NewStatTable("Hours of Operation", KindHours, a.Months, columns)
	for month, byBucket := range a.hop {
		for bucket, acc := range byBucket {
			table.Set(month, string(bucket)+"_count", float64(acc.count))
			if acc.count > 0 {
				table.Set(month, string(bucket)+"_mean_hours", acc.sum/float64(acc.count))
			}
		}
	}
	return table
}

// OverallSummaryTable lines up the business-hours-adjusted mean cycle
// time against the raw mean per month for direct SLA comparison.
func (a *Aggregation) OverallSummaryTable() *StatTable {
	columns := []string{
		"business_hours_cycle_time_mean",
		"raw_cycle_time_mean",
		"alert_count",
	}

	table := NewStatTable("Overall Operating Alert Summary", KindHours, a.Months, columns)
	for month, acc := range a.overall {
		table.Set(month, "alert_count", float64(acc.quantity))
		if acc.disposed > 0 {
			table.Set(month, "business_hours_cycle_time_mean", acc.bhSum/float64(acc.disposed))
			table.Set(month, "raw_cycle_time_mean", acc.rawSum/float64(acc.disposed))
		}
	}
	return table
}
