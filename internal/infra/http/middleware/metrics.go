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

	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_import_rows_total",
			Help: "Total bulk-import rows by outcome",
		},
		[]string{"outcome"}, // valid, rejected, converted_carrier
	)

	tenantDatabasesProvisioned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_databases_provisioned_total",
			Help: "Total tenant databases provisioned",
		},
	)

	quoteEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_emails_total",
			Help: "Total quote emails by delivery status",
		},
		[]string{"status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
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

func RecordImportRows(valid, rejected, converted int) {
	importRows.WithLabelValues("valid").Add(float64(valid))
	importRows.WithLabelValues("rejected").Add(float64(rejected))
	importRows.WithLabelValues("converted_carrier").Add(float64(converted))
}

func RecordTenantProvisioned() {
	tenantDatabasesProvisioned.Inc()
}

func RecordQuoteEmail(status string) {
	quoteEmails.WithLabelValues(status).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
