package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alertops/socstats/internal/api/dto"
	"github.com/alertops/socstats/internal/pkg/errors"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/utils"
	"github.com/alertops/socstats/internal/services"
)

// TableHandler serves the background-refreshed table snapshot. These
// endpoints never touch the database; they read whatever the refresher
// last published.
type TableHandler struct {
	cache  *services.TableCache
	logger *logger.Logger
}

// NewTableHandler creates a new cached-table handler
func NewTableHandler(cache *services.TableCache, log *logger.Logger) *TableHandler {
	return &TableHandler{
		cache:  cache,
		logger: log,
	}
}

// Snapshot describes the current snapshot
func (h *TableHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	s := h.cache.Snapshot()
	if s == nil {
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "NOT_READY", "No snapshot published yet")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.SnapshotDTO{
		Tables:  s.Names(),
		Start:   s.Start.Format(time.RFC3339),
		End:     s.End.Format(time.RFC3339),
		BuiltAt: s.BuiltAt.Format(time.RFC3339),
		AgeSecs: time.Since(s.BuiltAt).Seconds(),
	})
}

// Table serves one cached table by name
func (h *TableHandler) Table(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	table, ok := h.cache.Table(name)
	if !ok {
		utils.WriteError(w, errors.NotFound("Table"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, tableDTO(table))
}
