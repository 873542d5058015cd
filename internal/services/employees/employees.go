// Package employees holds the query and mutation services of the employee directory.
// Both services work on an explicit repository.EmployeeStore; the only domain failure they
// model is "not found", reported as a boolean rather than an error.
package employees

import (
	"log/slog"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
)

// Operation names used in logs and as the "operation" metric label.
const (
	OpListEmployees  = "list_employees"
	OpGetEmployee    = "get_employee"
	OpCreateEmployee = "create_employee"
	OpUpdateEmployee = "update_employee"
	OpDeleteEmployee = "delete_employee"
)

func initLogger(log *slog.Logger, opn string) *slog.Logger {
	return log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

func record(appMetrics *metrics.Metrics, operation, result string) {
	if appMetrics == nil {
		return
	}
	appMetrics.Operations.WithLabelValues(operation, result).Inc()
}
