package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	customersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customers_resolved_total",
			Help: "Total number of identity resolutions, by outcome",
		},
		[]string{"result"}, // created | matched
	)

	identityConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_conflicts_total",
			Help: "Identifiers claimed while already bound to another customer",
		},
		[]string{"identifier_type"},
	)

	conversionsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_tracked_total",
			Help: "Total number of conversion events recorded",
		},
		[]string{"type"},
	)

	journeysCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "journeys_completed_total",
			Help: "Total number of journeys marked completed",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordCustomerResolved(result string) {
	customersResolved.WithLabelValues(result).Inc()
}

func RecordIdentityConflict(identifierType string) {
	identityConflicts.WithLabelValues(identifierType).Inc()
}

func RecordConversion(conversionType string) {
	conversionsTracked.WithLabelValues(conversionType).Inc()
}

func RecordJourneysCompleted(count int64) {
	journeysCompleted.Add(float64(count))
}
