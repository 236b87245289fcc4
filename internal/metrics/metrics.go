package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results used as label values of EmployeeOperations.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultFailure  = "failure"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for HTTP requests and employee operations,
// and histograms for request and database query durations.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EmployeeOperations  *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ems_http_requests_total",
			Help: "Total number of HTTP requests handled by the API server.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ems_http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled by the API server.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EmployeeOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ems_employee_operations_total",
			Help: "Total number of employee operations by outcome.",
		}, []string{"operation", "result"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ems_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'find_employee_by_id', 'insert_employee'
	}

	return metrics
}

// ObserveOperation increments the employee operation counter for the given operation and result.
func (m *Metrics) ObserveOperation(operation, result string) {
	m.EmployeeOperations.WithLabelValues(operation, result).Inc()
}
