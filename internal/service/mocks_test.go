package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) ListRecords(ctx context.Context, start, end, line string) ([]domain.RawRecord, error) {
	args := m.Called(ctx, start, end, line)
	records, _ := args.Get(0).([]domain.RawRecord)
	return records, args.Error(1)
}

func (m *MockRecordRepository) ListLines(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

func (m *MockRecordRepository) UpsertRecords(ctx context.Context, records []domain.RawRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) ListPlans(ctx context.Context, area string) ([]domain.MonthlyPlan, error) {
	args := m.Called(ctx, area)
	plans, _ := args.Get(0).([]domain.MonthlyPlan)
	return plans, args.Error(1)
}

func (m *MockPlanRepository) UpsertPlan(ctx context.Context, plan domain.MonthlyPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) DeletePlan(ctx context.Context, area, itemCode string) error {
	return m.Called(ctx, area, itemCode).Error(0)
}

func (m *MockPlanRepository) GetWorkDays(ctx context.Context) (domain.WorkDays, error) {
	args := m.Called(ctx)
	wd, _ := args.Get(0).(domain.WorkDays)
	return wd, args.Error(1)
}

func (m *MockPlanRepository) SaveWorkDays(ctx context.Context, workDays domain.WorkDays) error {
	return m.Called(ctx, workDays).Error(0)
}

type MockRecordCache struct {
	mock.Mock
}

func (m *MockRecordCache) GetRecords(ctx context.Context, window cache.RecordWindow) ([]domain.RawRecord, bool, error) {
	args := m.Called(ctx, window)
	records, _ := args.Get(0).([]domain.RawRecord)
	return records, args.Bool(1), args.Error(2)
}

func (m *MockRecordCache) SetRecords(ctx context.Context, window cache.RecordWindow, records []domain.RawRecord) error {
	return m.Called(ctx, window, records).Error(0)
}

func (m *MockRecordCache) InvalidateAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
