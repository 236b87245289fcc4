package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/UnknownOlympus/ems/internal/models"
	"github.com/UnknownOlympus/ems/internal/repository"
)

const (
	insertEmployeeQuery   = `INSERT INTO employees (first_name, last_name, email) VALUES (?, ?, ?)`
	updateEmployeeQuery   = `UPDATE employees SET first_name = ?, last_name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	findEmployeeByIDQuery = `SELECT id, first_name, last_name, email FROM employees WHERE id = ?`
	findAllEmployeesQuery = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	deleteEmployeeQuery   = `DELETE FROM employees WHERE id = ?`
)

type EmployeeRepo struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewEmployeeRepository(db *sql.DB, metrics *metrics.Metrics) repository.EmployeeRepoIface {
	return &EmployeeRepo{db: db, metrics: metrics}
}

func (r *EmployeeRepo) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

func (r *EmployeeRepo) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == 0 {
		return r.insert(ctx, employee)
	}

	return r.update(ctx, employee)
}

func (r *EmployeeRepo) insert(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("insert_employee", time.Now())

	res, err := r.db.ExecContext(ctx, insertEmployeeQuery, employee.FirstName, employee.LastName, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	employee.ID, err = res.LastInsertId()
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to read inserted employee id: %w", err)
	}

	return employee, nil
}

func (r *EmployeeRepo) update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	res, err := r.db.ExecContext(ctx, updateEmployeeQuery,
		employee.FirstName, employee.LastName, employee.Email, employee.ID)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", employee.ID, repository.ErrEmployeeNotFound)
	}

	return employee, nil
}

func (r *EmployeeRepo) FindByID(ctx context.Context, identifier int64) (models.Employee, error) {
	var result models.Employee

	defer r.observe("find_employee_by_id", time.Now())

	err := r.db.QueryRowContext(ctx, findEmployeeByIDQuery, identifier).
		Scan(&result.ID, &result.FirstName, &result.LastName, &result.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Employee{}, fmt.Errorf(
				"failed to get employee by id %d: %w", identifier, repository.ErrEmployeeNotFound)
		}
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return result, nil
}

func (r *EmployeeRepo) FindAll(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("find_all_employees", time.Now())

	rows, err := r.db.QueryContext(ctx, findAllEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var employee models.Employee
		if err = rows.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee rows: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepo) DeleteByID(ctx context.Context, identifier int64) error {
	defer r.observe("delete_employee", time.Now())

	if _, err := r.db.ExecContext(ctx, deleteEmployeeQuery, identifier); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return nil
}
