package dto

// ReportRequest represents the shared query parameters of the report
// endpoints. Dates use YYYY-MM-DD; an empty range defaults server-side.
type ReportRequest struct {
	Start      string   `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End        string   `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Companies  []string `json:"companies,omitempty"`
	AlertTypes []string `json:"alertTypes,omitempty"`
}

// StatTableDTO represents one stat table in API responses
type StatTableDTO struct {
	Name    string      `json:"name"`
	Months  []string    `json:"months"`
	Columns []string    `json:"columns"`
	Rows    interface{} `json:"rows"`
}

// SnapshotDTO describes the published cache snapshot
type SnapshotDTO struct {
	Tables  []string `json:"tables"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	BuiltAt string   `json:"builtAt"`
	AgeSecs float64  `json:"ageSeconds"`
}

// TypeCountDTO represents a total count for one alert type
type TypeCountDTO struct {
	AlertType string `json:"alertType"`
	Count     int64  `json:"count"`
}

// AnalystDTO represents an analyst in API responses
type AnalystDTO struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Queue       string `json:"queue,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
