package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/ems/internal/metrics"
	"github.com/UnknownOlympus/ems/internal/models"
)

// ErrEmployeeNotFound is returned when no employee row matches the requested id.
var ErrEmployeeNotFound = errors.New("employee not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	// Save inserts the employee when its ID is zero and overwrites the stored row otherwise.
	Save(ctx context.Context, employee models.Employee) (models.Employee, error)
	FindByID(ctx context.Context, identifier int64) (models.Employee, error)
	FindAll(ctx context.Context) ([]models.Employee, error)
	DeleteByID(ctx context.Context, identifier int64) error
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
