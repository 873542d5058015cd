package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/repository"
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

var employeeColumns = []string{"id", "name", "department", "salary"}

func newStore(t *testing.T) (pgxmock.PgxPoolIface, *repository.PostgresStore) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, repository.NewPostgresStore(mock, metrics.NewMetrics(prometheus.NewRegistry()))
}

func TestPostgresList_Success(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(1, "Alice", "Eng", "90000").
			AddRow(2, "Bob", "Sales", "70000.50"))

	employees, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, 1, employees[0].ID)
	assert.Equal(t, "Alice", employees[0].Name)
	assert.True(t, decimal.NewFromInt(90000).Equal(employees[0].Salary))
	assert.Equal(t, "Sales", employees[1].Department)
	assert.True(t, decimal.RequireFromString("70000.5").Equal(employees[1].Salary))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_Empty(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnRows(pgxmock.NewRows(employeeColumns))

	employees, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, employees)
	assert.NotNil(t, employees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_QueryError(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).WillReturnError(assert.AnError)

	_, err := repo.List(context.Background())

	require.EqualError(t, err, "failed to list employees: "+assert.AnError.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_InvalidSalary(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listEmployeesQuery)).
		WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(1, "Alice", "Eng", "lots"))

	_, err := repo.List(context.Background())

	require.ErrorContains(t, err, `invalid salary "lots"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFind(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(findEmployeeQuery)).
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(1, "Alice", "Eng", "90000"))

		employee, found, err := repo.Find(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Alice", employee.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found is not an error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(findEmployeeQuery)).WithArgs(7).WillReturnError(pgx.ErrNoRows)

		employee, found, err := repo.Find(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, models.Employee{}, employee)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(findEmployeeQuery)).WithArgs(7).WillReturnError(assert.AnError)

		_, found, err := repo.Find(context.Background(), 7)

		require.EqualError(t, err, "failed to get employee by id: "+assert.AnError.Error())
		assert.False(t, found)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSession_AddCommit(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeStmt)).
		WithArgs("Alice", "Eng", "90000").
		WillReturnRows(pgxmock.NewRows([]string{"id", "salary"}).AddRow(1, "90000"))
	mock.ExpectCommit()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	employee := models.Employee{Name: "Alice", Department: "Eng", Salary: decimal.NewFromInt(90000)}
	require.NoError(t, session.Add(ctx, &employee))
	require.NoError(t, session.Commit(ctx))
	require.NoError(t, session.Rollback(ctx), "rollback after commit is a no-op")

	assert.Equal(t, 1, employee.ID)
	require.ErrorIs(t, session.Commit(ctx), repository.ErrSessionClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_AddReturnsStoredSalary(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeStmt)).
		WithArgs("Alice", "Eng", "90000.255").
		WillReturnRows(pgxmock.NewRows([]string{"id", "salary"}).AddRow(7, "90000.26"))
	mock.ExpectCommit()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	employee := models.Employee{Name: "Alice", Department: "Eng", Salary: decimal.RequireFromString("90000.255")}
	require.NoError(t, session.Add(ctx, &employee))
	require.NoError(t, session.Commit(ctx))

	assert.Equal(t, 7, employee.ID)
	assert.Equal(t, "90000.26", employee.Salary.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_AddInvalidStoredSalary(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeStmt)).
		WithArgs("Alice", "Eng", "1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "salary"}).AddRow(1, "NaN"))
	mock.ExpectRollback()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	employee := models.Employee{Name: "Alice", Department: "Eng", Salary: decimal.NewFromInt(1)}
	err = session.Add(ctx, &employee)

	require.ErrorContains(t, err, "invalid salary")
	assert.Zero(t, employee.ID)
	require.NoError(t, session.Rollback(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_AddError(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeStmt)).
		WithArgs("Alice", "Eng", "90000").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	employee := models.Employee{Name: "Alice", Department: "Eng", Salary: decimal.NewFromInt(90000)}
	err = session.Add(ctx, &employee)

	require.EqualError(t, err, "failed to save employee: "+assert.AnError.Error())
	require.NoError(t, session.Rollback(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_UpdateAndRemove(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockEmployeeQuery)).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(employeeColumns).AddRow(1, "Alice", "Eng", "90000"))
	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeStmt)).
		WithArgs(1, "Alice", "Platform", "90000").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeStmt)).
		WithArgs(2).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	employee, found, err := session.Find(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)

	employee.Department = "Platform"
	require.NoError(t, session.Update(ctx, employee))
	require.NoError(t, session.Remove(ctx, 2))
	require.NoError(t, session.Commit(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_MissingRows(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeStmt)).
		WithArgs(9, "Ghost", "None", "0").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeStmt)).
		WithArgs(9).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	err = session.Update(ctx, models.Employee{ID: 9, Name: "Ghost", Department: "None", Salary: decimal.Zero})
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = session.Remove(ctx, 9)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, session.Rollback(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSession_CommitError(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(assert.AnError)

	ctx := context.Background()
	session, err := repo.Begin(ctx)
	require.NoError(t, err)

	err = session.Commit(ctx)

	require.ErrorIs(t, err, assert.AnError)
	require.ErrorContains(t, err, "failed to commit transaction")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBegin_Error(t *testing.T) {
	t.Parallel()

	mock, repo := newStore(t)
	mock.ExpectBegin().WillReturnError(assert.AnError)

	session, err := repo.Begin(context.Background())

	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, session)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPing(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresStore(mock, nil)
	mock.ExpectPing().WillReturnError(assert.AnError)

	err = repo.Ping(context.Background())

	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
