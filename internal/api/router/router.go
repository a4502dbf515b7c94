package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alertops/socstats/internal/api/handlers"
	"github.com/alertops/socstats/internal/api/middleware"
	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/metrics"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Report *handlers.ReportHandler
	Table  *handlers.TableHandler
	Export *handlers.ExportHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(100, 200)) // 100 req/sec, burst of 200
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	})

	// API routes, optionally behind JWT auth
	r.Group(func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
		}

		r.Route("/api/v1", func(r chi.Router) {
			// on-demand reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/alerts", h.Report.AlertStats)
				r.Get("/alerts/{kind}", h.Report.StatTable)
				r.Get("/hours-of-operation", h.Report.HoursOfOperation)
				r.Get("/overall-summary", h.Report.OverallSummary)
				r.Get("/alert-types", h.Report.TypeCounts)
				r.Get("/alert-type-categories", h.Report.TypeCategories)
				r.Get("/analysts", h.Report.AnalystQuantities)
			})

			// cached snapshot
			r.Route("/tables", func(r chi.Router) {
				r.Get("/", h.Table.Snapshot)
				r.Get("/{name}", h.Table.Table)
			})

			// exports
			r.Route("/export", func(r chi.Router) {
				r.Get("/xlsx", h.Export.XLSX)
				r.Get("/archive", h.Export.Archive)
			})

			r.Get("/companies", h.Report.Companies)
			r.Get("/analysts", h.Report.Analysts)
		})
	})

	return r
}
