package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socstats",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "socstats",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "socstats",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Report metrics
	reportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socstats",
			Subsystem: "report",
			Name:      "builds_total",
			Help:      "Total number of report builds",
		},
		[]string{"report", "status"},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "socstats",
			Subsystem: "report",
			Name:      "build_duration_seconds",
			Help:      "Report build duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"report"},
	)

	recordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socstats",
			Subsystem: "report",
			Name:      "records_processed_total",
			Help:      "Total number of alert records aggregated",
		},
		[]string{"report"},
	)

	// Cache refresh metrics
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "socstats",
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of cache refresh runs",
		},
		[]string{"status"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "socstats",
			Subsystem: "refresh",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full cache refresh in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	cachedTables = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "socstats",
			Subsystem: "refresh",
			Name:      "cached_tables",
			Help:      "Number of tables in the published snapshot",
		},
	)

	cacheAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "socstats",
			Subsystem: "refresh",
			Name:      "snapshot_age_seconds",
			Help:      "Age of the published snapshot in seconds",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordReport records one report build with its record volume
func RecordReport(report, status string, records int, duration time.Duration) {
	reportsTotal.WithLabelValues(report, status).Inc()
	reportDuration.WithLabelValues(report).Observe(duration.Seconds())
	recordsProcessed.WithLabelValues(report).Add(float64(records))
}

// RecordRefresh records a cache refresh run
func RecordRefresh(status string, duration time.Duration) {
	refreshTotal.WithLabelValues(status).Inc()
	refreshDuration.Observe(duration.Seconds())
}

// SetCachedTables sets the gauge for published table count
func SetCachedTables(count int) {
	cachedTables.Set(float64(count))
}

// SetSnapshotAge sets the gauge for the published snapshot's age
func SetSnapshotAge(age time.Duration) {
	cacheAge.Set(age.Seconds())
}
