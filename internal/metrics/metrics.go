package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors used for monitoring the employee service.
// It covers store query latency, the outcome of every service operation,
// the number of stored employees and the traffic seen by the HTTP front ends.
type Metrics struct {
	DBQueryDuration *prometheus.HistogramVec
	Operations      *prometheus.CounterVec
	EmployeesStored prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance registered on reg.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employees_db_query_duration_seconds",
			Help:    "Duration of entity store queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'list_employees', 'insert_employee', 'commit'
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employees_operations_total",
			Help: "Total number of query and mutation operations by outcome.",
		}, []string{"operation", "result"}),
		EmployeesStored: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "employees_stored",
			Help: "Number of employees held by the in-memory store after the last commit.",
		}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employees_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employees_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, result := range []string{ResultSuccess, ResultNotFound, ResultInvalid, ResultFailure} {
		metrics.Operations.WithLabelValues("create_employee", result)
	}

	return metrics
}

// Operation outcomes used as the "result" label of Operations.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultFailure  = "failure"
)
