package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding_service",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onboarding_service",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "onboarding_service",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics

	DraftsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onboarding_service",
			Name:      "drafts_started_total",
			Help:      "Total number of drafts opened by step 1",
		},
	)

	StepSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding_service",
			Name:      "step_submissions_total",
			Help:      "Total number of step 2/3 submissions",
		},
		[]string{"step", "result"}, // ok, or the error code
	)

	DraftsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onboarding_service",
			Name:      "drafts_completed_total",
			Help:      "Total number of drafts that reached completion",
		},
	)

	PartitionUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onboarding_service",
			Name:      "partition_updates_total",
			Help:      "Total number of admin partition writes",
		},
		[]string{"result"},
	)
)

// Metrics records HTTP RED metrics, labelled by chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
