package employees

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
)

// Query is the read-only side of the directory.
type Query struct {
	log     *slog.Logger
	store   repository.EmployeeReader
	metrics *metrics.Metrics
}

func NewQuery(log *slog.Logger, store repository.EmployeeReader, appMetrics *metrics.Metrics) *Query {
	return &Query{log: log, store: store, metrics: appMetrics}
}

// ListEmployees returns every employee in id order. The store is read when the sequence is
// ranged over, and each range reads a fresh committed snapshot. A store failure is yielded
// once as the error of a zero employee, after which the sequence ends.
func (q *Query) ListEmployees(ctx context.Context) iter.Seq2[models.Employee, error] {
	return func(yield func(models.Employee, error) bool) {
		log := initLogger(q.log, "Query.ListEmployees")

		employees, err := q.store.List(ctx)
		if err != nil {
			record(q.metrics, OpListEmployees, metrics.ResultFailure)
			log.ErrorContext(ctx, "Failed to read employees", sl.Err(err))
			yield(models.Employee{}, fmt.Errorf("failed to list employees: %w", err))
			return
		}
		record(q.metrics, OpListEmployees, metrics.ResultSuccess)
		log.DebugContext(ctx, "Employees read", slog.Int("count", len(employees)))

		for _, employee := range employees {
			if !yield(employee, nil) {
				return
			}
		}
	}
}

// GetEmployee returns the employee with the given id. found is false when there is none.
func (q *Query) GetEmployee(ctx context.Context, identifier int) (models.Employee, bool, error) {
	log := initLogger(q.log, "Query.GetEmployee").With(sl.EmployeeID(identifier))

	employee, found, err := q.store.Find(ctx, identifier)
	if err != nil {
		record(q.metrics, OpGetEmployee, metrics.ResultFailure)
		log.ErrorContext(ctx, "Failed to read employee", sl.Err(err))
		return models.Employee{}, false, fmt.Errorf("failed to get employee: %w", err)
	}
	if !found {
		record(q.metrics, OpGetEmployee, metrics.ResultNotFound)
		log.DebugContext(ctx, "Employee not found")
		return models.Employee{}, false, nil
	}

	record(q.metrics, OpGetEmployee, metrics.ResultSuccess)

	return employee, true, nil
}
