package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alertops/socstats/internal/api/dto"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/errors"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/utils"
	"github.com/alertops/socstats/internal/pkg/validator"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
)

// defaultRangeDays is how far back reports reach when no range is given.
const defaultRangeDays = 7

// ReportHandler serves the on-demand statistics endpoints
type ReportHandler struct {
	reports   *services.ReportService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, v *validator.Validator, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		validator: v,
		logger:    log,
	}
}

// parseReportOptions reads the shared report query parameters
func parseReportOptions(r *http.Request, v *validator.Validator) (services.ReportOptions, *errors.AppError) {
	req := dto.ReportRequest{
		Start:      r.URL.Query().Get("start"),
		End:        r.URL.Query().Get("end"),
		Companies:  r.URL.Query()["company"],
		AlertTypes: r.URL.Query()["alert_type"],
	}
	if verrs := v.Validate(req); len(verrs) > 0 {
		return services.ReportOptions{}, errors.ValidationError("Invalid report parameters", verrs)
	}

	end := time.Now()
	if req.End != "" {
		end, _ = time.Parse("2006-01-02", req.End)
		// include the whole end day
		end = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	start := end.AddDate(0, 0, -defaultRangeDays)
	if req.Start != "" {
		start, _ = time.Parse("2006-01-02", req.Start)
	}
	if end.Before(start) {
		return services.ReportOptions{}, errors.InvalidRange("report range", start, end)
	}

	return services.ReportOptions{
		Start:  start,
		End:    end,
		Filter: alert.Filter{Companies: req.Companies, AlertTypes: req.AlertTypes},
	}, nil
}

func tableDTO(table *stats.StatTable) dto.StatTableDTO {
	months := make([]string, len(table.Months))
	for i, m := range table.Months {
		months[i] = string(m)
	}
	rows, _ := json.Marshal(table)
	return dto.StatTableDTO{
		Name:    table.Name,
		Months:  months,
		Columns: table.Columns,
		Rows:    json.RawMessage(rows),
	}
}

// AlertStats serves the full per-disposition statistics set
func (h *ReportHandler) AlertStats(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	agg, err := h.reports.AlertStats(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	tables := make(map[string]dto.StatTableDTO, len(agg.Tables))
	for kind, table := range agg.Tables {
		tables[string(kind)] = tableDTO(table)
	}
	utils.WriteSuccess(w, http.StatusOK, tables)
}

// StatTable serves a single statistic kind selected by path parameter
func (h *ReportHandler) StatTable(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if _, err := stats.ParseStatKind(kind); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	agg, err := h.reports.AlertStats(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	table, err := agg.Table(kind)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}

// HoursOfOperation serves the operating-hours breakdown
func (h *ReportHandler) HoursOfOperation(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	table, err := h.reports.HoursOfOperation(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}

// OverallSummary serves the per-month SLA comparison
func (h *ReportHandler) OverallSummary(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	table, err := h.reports.OverallSummary(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}

// TypeCategories serves the alert-type category quantities
func (h *ReportHandler) TypeCategories(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	table, err := h.reports.TypeCategoryQuantities(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}

// TypeCounts serves total counts per alert type
func (h *ReportHandler) TypeCounts(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	counts, err := h.reports.TypeCounts(r.Context(), opts.Start, opts.End)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	out := make([]dto.TypeCountDTO, len(counts))
	for i, c := range counts {
		out[i] = dto.TypeCountDTO{AlertType: c.AlertType, Count: c.Count}
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}

// AnalystQuantities serves the per-analyst workload table
func (h *ReportHandler) AnalystQuantities(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	table, err := h.reports.AnalystQuantities(r.Context(), opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}

// Analysts serves the known analysts
func (h *ReportHandler) Analysts(w http.ResponseWriter, r *http.Request) {
	analysts, err := h.reports.Analysts(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	out := make([]dto.AnalystDTO, len(analysts))
	for i, a := range analysts {
		out[i] = dto.AnalystDTO{
			ID:          a.ID,
			Username:    a.Username,
			DisplayName: a.DisplayName,
			Queue:       a.Queue,
			Enabled:     a.Enabled,
		}
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}

// Companies serves the known companies
func (h *ReportHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.reports.Companies(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	out := make([]dto.CompanyDTO, 0, len(companies))
	for id, name := range companies {
		out = append(out, dto.CompanyDTO{ID: id, Name: name})
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}
