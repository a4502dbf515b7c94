package alert

import "time"

// Record is one disposed or pending security alert as fetched from the
// alert store. Disposition and DispositionTime are nil together: an
// alert without a disposition has not been closed by an analyst yet.
type Record struct {
	ID                int64      `json:"id"`
	AlertType         string     `json:"alert_type"`
	Disposition       *string    `json:"disposition,omitempty"`
	InsertDate        time.Time  `json:"insert_date"`
	DispositionTime   *time.Time `json:"disposition_time,omitempty"`
	CompanyID         int64      `json:"company_id"`
	DispositionUserID *int64     `json:"disposition_user_id,omitempty"`
}

// Disposed reports whether the alert has been closed with a disposition.
func (r Record) Disposed() bool {
	return r.Disposition != nil && r.DispositionTime != nil
}

// CycleTime returns the raw wall-clock duration between insertion and
// disposition, or zero for an undispositioned alert.
func (r Record) CycleTime() time.Duration {
	if !r.Disposed() {
		return 0
	}
	return r.DispositionTime.Sub(r.InsertDate)
}

// TypeMonthCount is one row of the per-type, per-month count breakdown
// used by the category grouping engine.
type TypeMonthCount struct {
	AlertType string `json:"alert_type"`
	Month     string `json:"month"`
	Count     int64  `json:"count"`
}

// TypeCount is a total alert count for one alert type across a range.
type TypeCount struct {
	AlertType string `json:"alert_type"`
	Count     int64  `json:"count"`
}

// Analyst identifies a user that dispositions alerts.
type Analyst struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Queue       string `json:"queue,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Name returns the analyst's display name, falling back to the username.
func (a Analyst) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// Filter narrows a record fetch.
type Filter struct {
	Companies  []string // company names; empty selects all
	AlertTypes []string // alert type strings; empty selects all
}
