// backend-go/internal/repository/production_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// RecordRepository stores production records.
type RecordRepository interface {
	// ListRecords returns the records dated within [start, end]; line narrows
	// to one production line when not empty.
	ListRecords(ctx context.Context, start, end, line string) ([]domain.RawRecord, error)
	ListLines(ctx context.Context) ([]string, error)
	// UpsertRecords replaces every stored record on the days the batch covers.
	UpsertRecords(ctx context.Context, records []domain.RawRecord) (int, error)
}

// PlanRepository stores monthly plans and the work-days calendar.
type PlanRepository interface {
	ListPlans(ctx context.Context, area string) ([]domain.MonthlyPlan, error)
	UpsertPlan(ctx context.Context, plan domain.MonthlyPlan) error
	DeletePlan(ctx context.Context, area, itemCode string) error
	// GetWorkDays returns an empty table when nothing is stored.
	GetWorkDays(ctx context.Context) (domain.WorkDays, error)
	SaveWorkDays(ctx context.Context, workDays domain.WorkDays) error
}

// ErrNotFound is returned when a keyed row does not exist.
var ErrNotFound = errors.New("not found")
