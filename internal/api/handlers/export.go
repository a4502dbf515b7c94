package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alertops/socstats/internal/export"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/utils"
	"github.com/alertops/socstats/internal/pkg/validator"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
)

// ExportHandler streams report bundles as downloadable files
type ExportHandler struct {
	reports   *services.ReportService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(reports *services.ReportService, v *validator.Validator, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		reports:   reports,
		validator: v,
		logger:    log,
	}
}

func (h *ExportHandler) buildTables(r *http.Request, opts services.ReportOptions) ([]*stats.StatTable, error) {
	agg, err := h.reports.AlertStats(r.Context(), opts)
	if err != nil {
		return nil, err
	}

	tables := make([]*stats.StatTable, 0, len(agg.Tables)+3)
	for _, kind := range stats.StatKinds() {
		tables = append(tables, agg.Tables[kind])
	}
	tables = append(tables, agg.HoursOfOperationTable(), agg.OverallSummaryTable())

	analysts, err := h.reports.AnalystQuantities(r.Context(), opts)
	if err != nil {
		return nil, err
	}
	tables = append(tables, analysts)

	if !h.reports.CategoryMap().Empty() {
		categories, err := h.reports.TypeCategoryQuantities(r.Context(), opts)
		if err != nil {
			return nil, err
		}
		tables = append(tables, categories)
	}
	return tables, nil
}

// XLSX serves the full report bundle as a spreadsheet
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	tables, err := h.buildTables(r, opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	filename := fmt.Sprintf("soc_stats_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteXLSX(w, tables); err != nil {
		h.logger.ErrorWithErr(err, "Failed to write spreadsheet")
	}
}

// Archive serves the full report bundle as a gzipped tar of JSON
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	opts, appErr := parseReportOptions(r, h.validator)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	tables, err := h.buildTables(r, opts)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	filename := fmt.Sprintf("soc_stats_%s.tar.gz", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteJSONArchive(w, tables); err != nil {
		h.logger.ErrorWithErr(err, "Failed to write archive")
	}
}
