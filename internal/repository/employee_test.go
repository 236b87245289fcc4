package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/UnknownOlympus/ems/internal/models"
	"github.com/UnknownOlympus/ems/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertEmployeeQuery = `
	INSERT INTO employees (first_name, last_name, email)
	VALUES ($1, $2, $3)
	RETURNING id;
`

const updateEmployeeQuery = `
	UPDATE employees
	SET first_name = $2, last_name = $3, email = $4, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1;
`

const (
	findEmployeeByIDQuery = `SELECT id, first_name, last_name, email FROM employees WHERE id = $1`
	findAllEmployeesQuery = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	deleteEmployeeQuery   = `DELETE FROM employees WHERE id = $1`
)

var employeeColumns = []string{"id", "first_name", "last_name", "email"}

func newRepo(t *testing.T) (pgxmock.PgxPoolIface, repository.EmployeeRepoIface, *metrics.Metrics) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	testMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	return mock, repository.NewEmployeeRepository(mock, testMetrics), testMetrics
}

func TestSave_Insert(t *testing.T) {
	t.Parallel()

	mock, repo, testMetrics := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeQuery)).
		WithArgs("Rama", "Krishna", "rama@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	saved, err := repo.Save(context.Background(), models.Employee{
		FirstName: "Rama", LastName: "Krishna", Email: "rama@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, models.Employee{ID: 7, FirstName: "Rama", LastName: "Krishna", Email: "rama@example.com"}, saved)
	assert.Equal(t, 1, testutil.CollectAndCount(testMetrics.DBQueryDuration))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_InsertQueryError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeQuery)).
		WithArgs("Rama", "Krishna", "rama@example.com").
		WillReturnError(assert.AnError)

	saved, err := repo.Save(context.Background(), models.Employee{
		FirstName: "Rama", LastName: "Krishna", Email: "rama@example.com",
	})

	require.Error(t, err)
	assert.Equal(t, "failed to save employee: "+assert.AnError.Error(), err.Error())
	assert.Equal(t, models.Employee{}, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Update(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)
	employee := models.Employee{ID: 7, FirstName: "Ramesh", LastName: "Krishna", Email: "rama@example.com"}

	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeQuery)).
		WithArgs(employee.ID, employee.FirstName, employee.LastName, employee.Email).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	saved, err := repo.Save(context.Background(), employee)

	require.NoError(t, err)
	assert.Equal(t, employee, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpdateMissingRow(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)
	employee := models.Employee{ID: 8, FirstName: "Ghost", LastName: "Row", Email: "ghost@example.com"}

	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeQuery)).
		WithArgs(employee.ID, employee.FirstName, employee.LastName, employee.Email).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.Save(context.Background(), employee)

	require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpdateQueryError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)
	employee := models.Employee{ID: 7, FirstName: "Ramesh", LastName: "Krishna", Email: "rama@example.com"}

	mock.ExpectExec(regexp.QuoteMeta(updateEmployeeQuery)).
		WithArgs(employee.ID, employee.FirstName, employee.LastName, employee.Email).
		WillReturnError(assert.AnError)

	_, err := repo.Save(context.Background(), employee)

	require.EqualError(t, err, "failed to update employee data: "+assert.AnError.Error())
	require.NotErrorIs(t, err, repository.ErrEmployeeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_Success(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)
	expEmployee := models.Employee{ID: 123, FirstName: "test", LastName: "user", Email: "test@test.com"}

	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeByIDQuery)).
		WithArgs(expEmployee.ID).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(expEmployee.ID, expEmployee.FirstName, expEmployee.LastName, expEmployee.Email))

	actualEmployee, err := repo.FindByID(context.Background(), expEmployee.ID)

	require.NoError(t, err)
	assert.Equal(t, expEmployee, actualEmployee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeByIDQuery)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	actualEmployee, err := repo.FindByID(context.Background(), 404)

	require.ErrorIs(t, err, repository.ErrEmployeeNotFound)
	assert.Equal(t, models.Employee{}, actualEmployee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_QueryError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findEmployeeByIDQuery)).
		WithArgs(int64(123)).
		WillReturnError(assert.AnError)

	_, err := repo.FindByID(context.Background(), 123)

	require.EqualError(t, err, "failed to get employee by id: "+assert.AnError.Error())
	require.NotErrorIs(t, err, repository.ErrEmployeeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_Success(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findAllEmployeesQuery)).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "Rama", "Krishna", "rama@example.com").
			AddRow(int64(2), "Sita", "Devi", "sita@example.com"))

	employees, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.Employee{
		{ID: 1, FirstName: "Rama", LastName: "Krishna", Email: "rama@example.com"},
		{ID: 2, FirstName: "Sita", LastName: "Devi", Email: "sita@example.com"},
	}, employees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_Empty(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findAllEmployeesQuery)).
		WillReturnRows(pgxmock.NewRows(employeeColumns))

	employees, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_QueryError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findAllEmployeesQuery)).
		WillReturnError(assert.AnError)

	employees, err := repo.FindAll(context.Background())

	require.EqualError(t, err, "failed to query employees: "+assert.AnError.Error())
	assert.Nil(t, employees)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_RowError(t *testing.T) {
	t.Parallel()

	mock, repo, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(findAllEmployeesQuery)).
		WillReturnRows(pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "Rama", "Krishna", "rama@example.com").
			RowError(0, assert.AnError))

	_, err := repo.FindAll(context.Background())

	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  pgconnResult
		wantErr bool
	}{
		{name: "deleted", result: pgconnResult{rows: 1}},
		{name: "missing row is not an error", result: pgconnResult{rows: 0}},
		{name: "query error", result: pgconnResult{err: assert.AnError}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, repo, _ := newRepo(t)

			exp := mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeQuery)).WithArgs(int64(5))
			if tt.result.err != nil {
				exp.WillReturnError(tt.result.err)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("DELETE", tt.result.rows))
			}

			err := repo.DeleteByID(context.Background(), 5)

			if tt.wantErr {
				require.EqualError(t, err, "failed to delete employee: "+assert.AnError.Error())
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

type pgconnResult struct {
	rows int64
	err  error
}
