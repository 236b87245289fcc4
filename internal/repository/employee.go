package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/ems/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	insertEmployeeQuery = `
		INSERT INTO employees (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	updateEmployeeQuery = `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;
	`
	findEmployeeByIDQuery = `SELECT id, first_name, last_name, email FROM employees WHERE id = $1`
	findAllEmployeesQuery = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	deleteEmployeeQuery   = `DELETE FROM employees WHERE id = $1`
)

// Save inserts a new employee when employee.ID is zero, letting the database assign the identifier.
// Otherwise it overwrites the first name, last name and email of the existing row.
func (r *Repository) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == 0 {
		return r.insert(ctx, employee)
	}

	return r.update(ctx, employee)
}

func (r *Repository) insert(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("insert_employee", time.Now())

	err := r.db.QueryRow(ctx, insertEmployeeQuery, employee.FirstName, employee.LastName, employee.Email).
		Scan(&employee.ID)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	return employee, nil
}

func (r *Repository) update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	tag, err := r.db.Exec(ctx, updateEmployeeQuery, employee.ID, employee.FirstName, employee.LastName, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", err)
	}

	// the row may have been deleted after the caller looked it up
	if tag.RowsAffected() == 0 {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", employee.ID, ErrEmployeeNotFound)
	}

	return employee, nil
}

// FindByID retrieves an employee from the database by their ID.
func (r *Repository) FindByID(ctx context.Context, identifier int64) (models.Employee, error) {
	var result models.Employee

	defer r.observe("find_employee_by_id", time.Now())

	err := r.db.QueryRow(ctx, findEmployeeByIDQuery, identifier).Scan(
		&result.ID, &result.FirstName, &result.LastName, &result.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, fmt.Errorf("failed to get employee by id %d: %w", identifier, ErrEmployeeNotFound)
		}
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return result, nil
}

// FindAll returns every stored employee ordered by identifier.
func (r *Repository) FindAll(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("find_all_employees", time.Now())

	rows, err := r.db.Query(ctx, findAllEmployeesQuery)
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

// DeleteByID removes the employee with the given ID. Deleting a missing employee is not an error.
func (r *Repository) DeleteByID(ctx context.Context, identifier int64) error {
	defer r.observe("delete_employee", time.Now())

	if _, err := r.db.Exec(ctx, deleteEmployeeQuery, identifier); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return nil
}
