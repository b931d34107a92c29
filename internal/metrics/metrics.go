// Package metrics provides Prometheus instrumentation for the index
// computation and insight pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ComputationsTotal counts index computations by index, method, and status.
	ComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentindex_computations_total",
		Help: "Total index computations",
	}, []string{"index", "method", "status"})

	// ComputationDuration tracks computation latency by method.
	ComputationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentindex_computation_duration_seconds",
		Help:    "Index computation duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"method"})

	// InsightRequestsTotal counts insight requests by source and status.
	InsightRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentindex_insight_requests_total",
		Help: "Total insight requests",
	}, []string{"source", "status"})

	// ReasoningLatency tracks reasoning-service call latency.
	ReasoningLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentindex_reasoning_latency_seconds",
		Help:    "Reasoning service call latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentindex_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentindex_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
