package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/ems/internal/lib/logger/sl"
	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/UnknownOlympus/ems/internal/models"
	"github.com/UnknownOlympus/ems/internal/repository"
)

// Operation names used as metric labels.
const (
	opCreate = "create"
	opGet    = "get"
	opList   = "list"
	opUpdate = "update"
	opDelete = "delete"
)

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// CreateEmployee stores a new employee built from record. Any id supplied in record is ignored,
// the returned record carries the identifier assigned by the store.
func (s *Staff) CreateEmployee(ctx context.Context, record models.EmployeeRecord) (models.EmployeeRecord, error) {
	const opn = "Employee.CreateEmployee"
	log := s.initLogger(opn)

	employee := toEntity(record)
	employee.ID = 0

	saved, err := s.repo.Save(ctx, employee)
	if err != nil {
		s.observe(opCreate, err)
		return models.EmployeeRecord{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.observe(opCreate, nil)
	log.InfoContext(ctx, "Employee created", "id", saved.ID)

	return toRecord(saved), nil
}

// GetEmployeeByID returns the employee with the given id or a *NotFoundError.
func (s *Staff) GetEmployeeByID(ctx context.Context, identifier int64) (models.EmployeeRecord, error) {
	const opn = "Employee.GetEmployeeByID"
	log := s.initLogger(opn)

	employee, err := s.findOrFail(ctx, identifier)
	s.observe(opGet, err)
	if err != nil {
		log.DebugContext(ctx, "Employee lookup failed", "id", identifier, sl.Err(err))
		return models.EmployeeRecord{}, err
	}

	return toRecord(employee), nil
}

// GetAllEmployees returns every stored employee. The result is never nil.
func (s *Staff) GetAllEmployees(ctx context.Context) ([]models.EmployeeRecord, error) {
	employees, err := s.repo.FindAll(ctx)
	s.observe(opList, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	records := make([]models.EmployeeRecord, 0, len(employees))
	for _, employee := range employees {
		records = append(records, toRecord(employee))
	}

	return records, nil
}

// UpdateEmployee overwrites the first name, last name and email of an existing employee.
// The id carried by record is ignored in favour of identifier.
func (s *Staff) UpdateEmployee(
	ctx context.Context,
	identifier int64,
	record models.EmployeeRecord,
) (models.EmployeeRecord, error) {
	const opn = "Employee.UpdateEmployee"
	log := s.initLogger(opn)

	employee, err := s.findOrFail(ctx, identifier)
	if err != nil {
		s.observe(opUpdate, err)
		return models.EmployeeRecord{}, err
	}

	employee.FirstName = record.FirstName
	employee.LastName = record.LastName
	employee.Email = record.Email

	// not transactional: the row can disappear between the lookup and this write
	updated, err := s.repo.Save(ctx, employee)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			err = &NotFoundError{ID: identifier}
		} else {
			err = fmt.Errorf("failed to update employee %d: %w", identifier, err)
		}
		s.observe(opUpdate, err)
		return models.EmployeeRecord{}, err
	}

	s.observe(opUpdate, nil)
	log.InfoContext(ctx, "Employee updated", "id", identifier)

	return toRecord(updated), nil
}

// DeleteEmployee removes the employee with the given id or returns a *NotFoundError.
func (s *Staff) DeleteEmployee(ctx context.Context, identifier int64) error {
	const opn = "Employee.DeleteEmployee"
	log := s.initLogger(opn)

	if _, err := s.findOrFail(ctx, identifier); err != nil {
		s.observe(opDelete, err)
		return err
	}

	if err := s.repo.DeleteByID(ctx, identifier); err != nil {
		err = fmt.Errorf("failed to delete employee %d: %w", identifier, err)
		s.observe(opDelete, err)
		return err
	}

	s.observe(opDelete, nil)
	log.InfoContext(ctx, "Employee deleted", "id", identifier)

	return nil
}

func (s *Staff) findOrFail(ctx context.Context, identifier int64) (models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return models.Employee{}, &NotFoundError{ID: identifier}
		}
		return models.Employee{}, fmt.Errorf("failed to find employee %d: %w", identifier, err)
	}

	return employee, nil
}

func (s *Staff) observe(operation string, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveOperation(operation, metrics.ResultSuccess)
	case errors.Is(err, ErrNotFound):
		s.metrics.ObserveOperation(operation, metrics.ResultNotFound)
	default:
		s.metrics.ObserveOperation(operation, metrics.ResultFailure)
	}
}
