package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Entity operation counter
	EntityOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"}, // e.g. entity="class", operation="create"
	)

	// Admission counter
	AdmissionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_admissions_total",
			Help: "Total number of admission attempts",
		},
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_login_total",
			Help: "Total number of login attempts",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counter by kind
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_errors_total",
			Help: "Total number of operation errors by kind",
		},
		[]string{"kind"}, // kind can be "validation", "conflict", "not_found", etc.
	)

	// Revalidation signal counter
	RevalidationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_revalidations_total",
			Help: "Total number of stale-path revalidation signals emitted",
		},
		[]string{"path"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

func init() {
	prometheus.MustRegister(EntityOperationCounter)
	prometheus.MustRegister(AdmissionCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(RevalidationCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordEntityOperation increments the counter for one entity operation
func RecordEntityOperation(entity, operation string) {
	EntityOperationCounter.WithLabelValues(entity, operation).Inc()
}

// RecordError increments the error counter for a failure kind
func RecordError(kind string) {
	ErrorCounter.WithLabelValues(kind).Inc()
}

// RecordRevalidation increments the revalidation counter for a path
func RecordRevalidation(path string) {
	RevalidationCounter.WithLabelValues(path).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware captures request count and duration for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)

			return err
		}
	}
}
