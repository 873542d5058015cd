package repository

import (
	"context"
	"errors"

	"github.com/subeerhaldar/graphql-demo/internal/models"
)

var (
	// ErrNotFound is returned by a session when an update or removal targets an unknown id.
	ErrNotFound = errors.New("employee not found")
	// ErrSessionClosed is returned when a session is used after Commit or Rollback.
	ErrSessionClosed = errors.New("session already closed")
)

// EmployeeReader is the read side of the entity store. Reads only observe committed state.
type EmployeeReader interface {
	// List returns every stored employee ordered by id, which is also insertion order.
	List(ctx context.Context) ([]models.Employee, error)
	// Find returns the employee with the given id; found is false when there is none.
	Find(ctx context.Context, identifier int) (employee models.Employee, found bool, err error)
}

// EmployeeStore is the entity store shared by the query and mutation services.
type EmployeeStore interface {
	EmployeeReader
	// Begin opens a session. Only one session commits at a time, so mutations are serialized.
	Begin(ctx context.Context) (EmployeeSession, error)
	Ping(ctx context.Context) error
}

// EmployeeSession stages additions, updates and removals until Commit.
// A session must be closed with Commit or Rollback and is not safe for concurrent use.
// Rollback after Commit is a no-op, so it can always be deferred.
type EmployeeSession interface {
	// Find sees committed state plus the session's own staged changes.
	Find(ctx context.Context, identifier int) (employee models.Employee, found bool, err error)
	// Add stages a new employee and writes the store-assigned id into employee.ID.
	Add(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee models.Employee) error
	Remove(ctx context.Context, identifier int) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
