package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
)

func newTestDashboardService(records *MockRecordRepository, plans *MockPlanRepository, c cache.RecordCache) *DashboardService {
	svc := NewDashboardService(records, plans, c, config.ProductionConfig{ActualDivisor: 1000})
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	return svc
}

func sewingRecords() []domain.RawRecord {
	return []domain.RawRecord{
		{Area: "313", Line: "L1", Item1: "A1", Item2: "Shirt", Date: "20250601", PlanQty: 100, ActualQty: 120},
		{Area: "313", Line: "L1", Item1: "A1", Item2: "Shirt", Date: "20250602", PlanQty: 100, ActualQty: 90},
	}
}

func TestResolve(t *testing.T) {
	svc := newTestDashboardService(new(MockRecordRepository), new(MockPlanRepository), nil)

	rng, err := svc.Resolve(domain.DashboardFilter{Month: "202506", Week: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.DateRange{Start: "2025-06-08", End: "2025-06-14"}, rng)

	rng, err = svc.Resolve(domain.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, domain.DateRange{Start: "2025-06-01", End: "2025-06-30"}, rng)

	rng, err = svc.Resolve(domain.DashboardFilter{Month: "202506", StartDate: "2025-05-01", EndDate: "2025-05-03"})
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", rng.Start)

	_, err = svc.Resolve(domain.DashboardFilter{StartDate: "2025-05-03", EndDate: "2025-05-01"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Resolve(domain.DashboardFilter{StartDate: "2025-05-03"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Resolve(domain.DashboardFilter{Month: "202506", Week: 9})
	assert.ErrorIs(t, err, production.ErrWeekOutOfRange)
}

func TestComputeRawUsesRepositoryAndCache(t *testing.T) {
	records := new(MockRecordRepository)
	c := new(MockRecordCache)
	window := cache.RecordWindow{Start: "2025-06-01", End: "2025-06-02"}

	c.On("GetRecords", mock.Anything, window).Return(nil, false, nil).Once()
	records.On("ListRecords", mock.Anything, "2025-06-01", "2025-06-02", "").Return(sewingRecords(), nil).Once()
	c.On("SetRecords", mock.Anything, window, sewingRecords()).Return(nil).Once()

	svc := newTestDashboardService(records, new(MockPlanRepository), c)
	d, rng, err := svc.Compute(context.Background(), domain.DashboardFilter{StartDate: "2025-06-01", EndDate: "2025-06-02"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", rng.Start)
	assert.Equal(t, []string{"20250601", "20250602"}, d.Dates)
	require.Len(t, d.Lines("Sewing"), 1)
	assert.Equal(t, 210.0, d.Lines("Sewing")[0].MonthlyAct)

	records.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestComputeCacheHitSkipsRepository(t *testing.T) {
	records := new(MockRecordRepository)
	c := new(MockRecordCache)
	c.On("GetRecords", mock.Anything, mock.Anything).Return(sewingRecords(), true, nil)

	svc := newTestDashboardService(records, new(MockPlanRepository), c)
	d, _, err := svc.Compute(context.Background(), domain.DashboardFilter{Month: "202506"})
	require.NoError(t, err)
	assert.Len(t, d.Dates, 2)
	records.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComputeRecordFailureRendersEmptyDashboard(t *testing.T) {
	records := new(MockRecordRepository)
	records.On("ListRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newTestDashboardService(records, new(MockPlanRepository), nil)
	d, _, err := svc.Compute(context.Background(), domain.DashboardFilter{Month: "202506"})
	require.NoError(t, err)
	assert.Empty(t, d.Dates)
	assert.Len(t, d.Areas, len(domain.DefaultAreas()))
	assert.Empty(t, d.AllLines())
}

func TestComputePlanModeFallsBackToDefaultWorkDays(t *testing.T) {
	records := new(MockRecordRepository)
	plans := new(MockPlanRepository)
	records.On("ListRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sewingRecords(), nil)
	plans.On("ListPlans", mock.Anything, "").Return([]domain.MonthlyPlan{
		{Area: "313", ItemCode: "A1", Plans: map[string]float64{"202506": 2100}},
	}, nil)
	plans.On("GetWorkDays", mock.Anything).Return(nil, errors.New("timeout"))

	svc := newTestDashboardService(records, plans, nil)
	d, _, err := svc.Compute(context.Background(), domain.DashboardFilter{Month: "202506", Mode: domain.ModePlan})
	require.NoError(t, err)

	lines := d.Lines("Sewing")
	require.Len(t, lines, 1)
	assert.Equal(t, "Shirt", lines[0].Name)
	// 2100 over the 21 default working days of June 2025.
	assert.Equal(t, 100.0, lines[0].Data[0].Plan)
	assert.InDelta(t, 0.12, lines[0].Data[0].ActValue(), 1e-9)
	plans.AssertExpectations(t)
}

func TestComputeRejectsUnknownMode(t *testing.T) {
	svc := newTestDashboardService(new(MockRecordRepository), new(MockPlanRepository), nil)
	_, _, err := svc.Compute(context.Background(), domain.DashboardFilter{Month: "202506", Mode: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestViewResolvesAreaCode(t *testing.T) {
	records := new(MockRecordRepository)
	records.On("ListRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sewingRecords(), nil)

	svc := newTestDashboardService(records, new(MockPlanRepository), nil)
	view, err := svc.View(context.Background(), domain.DashboardFilter{StartDate: "20250601", EndDate: "20250602", Area: "313"})
	require.NoError(t, err)
	assert.Equal(t, "Sewing", view.Area)
	assert.Equal(t, domain.ModeRaw, view.Mode)
	require.Len(t, view.Lines, 1)
	require.NotNil(t, view.OverallPercentage)
	assert.Equal(t, 105.0, *view.OverallPercentage)
	assert.Equal(t, []string{"All", "Shirt"}, view.MachineGroups)
}

func TestPeriods(t *testing.T) {
	svc := newTestDashboardService(new(MockRecordRepository), new(MockPlanRepository), nil)

	opts, err := svc.Periods("")
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", opts.FiscalYear)
	assert.Equal(t, "202506", opts.SelectedMonth)
	require.Len(t, opts.Months, 12)
	assert.Equal(t, "2025/06", opts.Months[0].Label)
	// June 2025 starts on a Sunday; the 10th falls in the second Monday week.
	assert.Equal(t, 2, opts.CurrentWeek)
	assert.Equal(t, "All", opts.Weeks[0].Label)
	assert.Equal(t, "2025-06-02", opts.Weeks[1].StartDate)
	assert.Equal(t, domain.DateRange{Start: "2025-06-08", End: "2025-06-14"}, opts.Range)

	opts, err = svc.Periods("202503")
	require.NoError(t, err)
	assert.Equal(t, 0, opts.CurrentWeek)
	assert.Equal(t, domain.DateRange{Start: "2025-03-01", End: "2025-03-31"}, opts.Range)
}
