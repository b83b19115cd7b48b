// Package metrics exposes Prometheus instrumentation for the HTTP API
// and the domain operations behind it.
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
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventario_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventario_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	loginAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventario_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	loginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventario_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)

	// Domain operation metrics
	entityOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventario_entity_operations_total",
			Help: "Total number of domain entity operations",
		},
		[]string{"entity", "operation"},
	)
)

// RecordLoginAttempt counts a login attempt; failed marks it as rejected.
func RecordLoginAttempt(failed bool) {
	loginAttempts.Inc()
	if failed {
		loginFailures.Inc()
	}
}

// RecordEntityOperation counts a successful domain operation, e.g.
// ("warehouse", "create").
func RecordEntityOperation(entity, operation string) {
	entityOperations.WithLabelValues(entity, operation).Inc()
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the status code written to a ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latencies per route pattern.
// It must be mounted inside the chi router so the route pattern is
// resolved, keeping label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := strconv.Itoa(recorder.status)
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}
