package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
)

// Mutation creates, updates and deletes employees. Every successful call commits exactly one
// store session.
type Mutation struct {
	log       *slog.Logger
	store     repository.EmployeeStore
	metrics   *metrics.Metrics
	validator *Validator
	strict    bool
}

type Option func(*Mutation)

// WithStrictValidation toggles rejection of blank names or departments and negative salaries.
// It is on by default.
func WithStrictValidation(strict bool) Option {
	return func(m *Mutation) {
		m.strict = strict
	}
}

func NewMutation(
	log *slog.Logger,
	store repository.EmployeeStore,
	appMetrics *metrics.Metrics,
	opts ...Option,
) *Mutation {
	mutation := &Mutation{
		log:       log,
		store:     store,
		metrics:   appMetrics,
		validator: NewValidator(),
		strict:    true,
	}
	for _, opt := range opts {
		opt(mutation)
	}

	return mutation
}

// CreateEmployee stores a new employee and returns it with its assigned id.
func (m *Mutation) CreateEmployee(
	ctx context.Context,
	name, department string,
	salary decimal.Decimal,
) (models.Employee, error) {
	const opn = "Mutation.CreateEmployee"
	log := initLogger(m.log, opn)

	employee := models.Employee{Name: name, Department: department, Salary: salary}
	if m.strict {
		if err := m.validator.Employee(employee); err != nil {
			record(m.metrics, OpCreateEmployee, metrics.ResultInvalid)
			log.InfoContext(ctx, "Employee rejected", sl.Err(err))
			return models.Employee{}, err
		}
	}

	err := m.inSession(ctx, log, func(session repository.EmployeeSession) error {
		if addErr := session.Add(ctx, &employee); addErr != nil {
			return fmt.Errorf("failed to add employee: %w", addErr)
		}
		return nil
	})
	if err != nil {
		record(m.metrics, OpCreateEmployee, metrics.ResultFailure)
		return models.Employee{}, err
	}

	record(m.metrics, OpCreateEmployee, metrics.ResultSuccess)
	log.InfoContext(ctx, "Employee created", sl.EmployeeID(employee.ID))

	return employee, nil
}

// UpdateEmployee applies the supplied patch fields to the employee with the given id.
// found is false, and nothing is written, when there is no such employee. An empty patch still
// commits and returns the unchanged employee.
func (m *Mutation) UpdateEmployee(
	ctx context.Context,
	identifier int,
	patch models.EmployeePatch,
) (models.Employee, bool, error) {
	const opn = "Mutation.UpdateEmployee"
	log := initLogger(m.log, opn).With(sl.EmployeeID(identifier))

	if m.strict {
		if err := m.validator.Patch(patch); err != nil {
			record(m.metrics, OpUpdateEmployee, metrics.ResultInvalid)
			log.InfoContext(ctx, "Employee update rejected", sl.Err(err))
			return models.Employee{}, false, err
		}
	}

	var updated models.Employee
	err := m.inSession(ctx, log, func(session repository.EmployeeSession) error {
		current, found, findErr := session.Find(ctx, identifier)
		if findErr != nil {
			return fmt.Errorf("failed to find employee: %w", findErr)
		}
		if !found {
			return errNotFound
		}

		updated = patch.Apply(current)
		if updateErr := session.Update(ctx, updated); updateErr != nil {
			return fmt.Errorf("failed to update employee: %w", updateErr)
		}
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		record(m.metrics, OpUpdateEmployee, metrics.ResultNotFound)
		log.DebugContext(ctx, "Employee to update not found")
		return models.Employee{}, false, nil
	case err != nil:
		record(m.metrics, OpUpdateEmployee, metrics.ResultFailure)
		return models.Employee{}, false, err
	}

	record(m.metrics, OpUpdateEmployee, metrics.ResultSuccess)
	log.InfoContext(ctx, "Employee updated")

	return updated, true, nil
}

// DeleteEmployee removes the employee with the given id and reports whether it existed.
func (m *Mutation) DeleteEmployee(ctx context.Context, identifier int) (bool, error) {
	const opn = "Mutation.DeleteEmployee"
	log := initLogger(m.log, opn).With(sl.EmployeeID(identifier))

	err := m.inSession(ctx, log, func(session repository.EmployeeSession) error {
		_, found, findErr := session.Find(ctx, identifier)
		if findErr != nil {
			return fmt.Errorf("failed to find employee: %w", findErr)
		}
		if !found {
			return errNotFound
		}

		if removeErr := session.Remove(ctx, identifier); removeErr != nil {
			return fmt.Errorf("failed to remove employee: %w", removeErr)
		}
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		record(m.metrics, OpDeleteEmployee, metrics.ResultNotFound)
		log.DebugContext(ctx, "Employee to delete not found")
		return false, nil
	case err != nil:
		record(m.metrics, OpDeleteEmployee, metrics.ResultFailure)
		return false, err
	}

	record(m.metrics, OpDeleteEmployee, metrics.ResultSuccess)
	log.InfoContext(ctx, "Employee deleted")

	return true, nil
}

// errNotFound aborts a session without committing; it never leaves this package.
var errNotFound = errors.New("not found")

// inSession runs work inside a store session and commits it when work succeeds.
// The session is rolled back on any error, including errNotFound.
func (m *Mutation) inSession(
	ctx context.Context,
	log *slog.Logger,
	work func(session repository.EmployeeSession) error,
) error {
	session, err := m.store.Begin(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open store session", sl.Err(err))
		return fmt.Errorf("failed to begin session: %w", err)
	}
	defer func() {
		if rollbackErr := session.Rollback(ctx); rollbackErr != nil {
			log.WarnContext(ctx, "Failed to rollback store session", sl.Err(rollbackErr))
		}
	}()

	if err = work(session); err != nil {
		if !errors.Is(err, errNotFound) {
			log.ErrorContext(ctx, "Store session failed", sl.Err(err))
		}
		return err
	}

	if err = session.Commit(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to commit store session", sl.Err(err))
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}
