package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/models"
)

const (
	listEmployeesQuery = `SELECT id, name, department, salary::text FROM employees ORDER BY id`
	findEmployeeQuery  = `SELECT id, name, department, salary::text FROM employees WHERE id=$1`
	lockEmployeeQuery  = `SELECT id, name, department, salary::text FROM employees WHERE id=$1 FOR UPDATE`
	insertEmployeeStmt = `
		INSERT INTO employees (name, department, salary)
		VALUES ($1, $2, $3)
		RETURNING id, salary::text;
	`
	updateEmployeeStmt = `
		UPDATE employees
		SET name = $2, department = $3, salary = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;
	`
	deleteEmployeeStmt = `DELETE FROM employees WHERE id = $1`
)

// PostgresStore is an entity store backed by the employees table.
type PostgresStore struct {
	db      Database
	metrics *metrics.Metrics
}

func NewPostgresStore(db Database, appMetrics *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: appMetrics}
}

func observe(appMetrics *metrics.Metrics, queryType string) func() {
	startTime := time.Now()
	return func() {
		if appMetrics == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		appMetrics.DBQueryDuration.WithLabelValues(queryType).Observe(duration)
	}
}

// List retrieves all employees ordered by id.
func (r *PostgresStore) List(ctx context.Context) ([]models.Employee, error) {
	defer observe(r.metrics, "list_employees")()

	rows, err := r.db.Query(ctx, listEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	result := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to list employees: %w", scanErr)
		}
		result = append(result, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return result, nil
}

// Find retrieves an employee from the database by their ID.
func (r *PostgresStore) Find(ctx context.Context, identifier int) (models.Employee, bool, error) {
	defer observe(r.metrics, "get_employee_by_id")()

	return findEmployee(r.db.QueryRow(ctx, findEmployeeQuery, identifier))
}

// Begin opens a database transaction for the session.
func (r *PostgresStore) Begin(ctx context.Context) (EmployeeSession, error) {
	defer observe(r.metrics, "begin")()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &pgSession{tx: tx, metrics: r.metrics}, nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

type pgSession struct {
	tx      pgx.Tx
	metrics *metrics.Metrics
	closed  bool
}

// Find locks the row until the session ends so concurrent mutations of it are serialized.
func (s *pgSession) Find(ctx context.Context, identifier int) (models.Employee, bool, error) {
	if s.closed {
		return models.Employee{}, false, ErrSessionClosed
	}
	defer observe(s.metrics, "lock_employee_by_id")()

	return findEmployee(s.tx.QueryRow(ctx, lockEmployeeQuery, identifier))
}

func (s *pgSession) Add(ctx context.Context, employee *models.Employee) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer observe(s.metrics, "insert_employee")()

	var (
		identifier int
		stored     string
	)
	err := s.tx.QueryRow(ctx, insertEmployeeStmt, employee.Name, employee.Department, employee.Salary.String()).
		Scan(&identifier, &stored)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	// the caller gets the salary as the column holds it
	salary, err := decimal.NewFromString(stored)
	if err != nil {
		return fmt.Errorf("failed to save employee: invalid salary %q: %w", stored, err)
	}
	employee.ID = identifier
	employee.Salary = salary

	return nil
}

// Update updates an employee's information in the database.
func (s *pgSession) Update(ctx context.Context, employee models.Employee) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer observe(s.metrics, "update_employee")()

	tag, err := s.tx.Exec(ctx, updateEmployeeStmt,
		employee.ID, employee.Name, employee.Department, employee.Salary.String())
	if err != nil {
		return fmt.Errorf("failed to update employee data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update employee %d: %w", employee.ID, ErrNotFound)
	}

	return nil
}

func (s *pgSession) Remove(ctx context.Context, identifier int) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer observe(s.metrics, "delete_employee")()

	tag, err := s.tx.Exec(ctx, deleteEmployeeStmt, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to remove employee %d: %w", identifier, ErrNotFound)
	}

	return nil
}

func (s *pgSession) Commit(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	defer observe(s.metrics, "commit")()

	s.closed = true
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *pgSession) Rollback(ctx context.Context) error {
	if s.closed {
		return nil
	}

	s.closed = true
	if err := s.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func findEmployee(row pgx.Row) (models.Employee, bool, error) {
	employee, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, true, nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var (
		result models.Employee
		salary string
	)

	if err := row.Scan(&result.ID, &result.Name, &result.Department, &salary); err != nil {
		return models.Employee{}, err
	}

	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return models.Employee{}, fmt.Errorf("invalid salary %q: %w", salary, err)
	}
	result.Salary = amount

	return result, nil
}
