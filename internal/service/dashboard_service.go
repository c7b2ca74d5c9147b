// backend-go/internal/service/dashboard_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/prodtrack/backend-go/internal/cache"
	"github.com/andresuchdata/prodtrack/backend-go/internal/config"
	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
)

type DashboardService struct {
	records repository.RecordRepository
	plans   repository.PlanRepository
	cache   cache.RecordCache
	cfg     config.ProductionConfig
	catalog *domain.AreaCatalog
	now     func() time.Time
}

func NewDashboardService(records repository.RecordRepository, plans repository.PlanRepository, cacheImpl cache.RecordCache, cfg config.ProductionConfig) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRecordCache()
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = domain.ModeRaw
	}
	return &DashboardService{
		records: records,
		plans:   plans,
		cache:   cacheImpl,
		cfg:     cfg,
		catalog: cfg.Catalog(),
		now:     time.Now,
	}
}

// Catalog exposes the configured areas.
func (s *DashboardService) Catalog() *domain.AreaCatalog {
	return s.catalog
}

// Resolve turns a filter into a date window. Explicit start and end dates
// win over month and week; an empty month means the current one.
func (s *DashboardService) Resolve(filter domain.DashboardFilter) (domain.DateRange, error) {
	if filter.StartDate != "" || filter.EndDate != "" {
		start, okStart := production.NormalizeDate(filter.StartDate)
		end, okEnd := production.NormalizeDate(filter.EndDate)
		if !okStart || !okEnd || start > end {
			return domain.DateRange{}, fmt.Errorf("%w: %q..%q", ErrInvalidDateRange, filter.StartDate, filter.EndDate)
		}
		return domain.DateRange{Start: filter.StartDate, End: filter.EndDate}, nil
	}

	month := filter.Month
	if month == "" {
		month = production.CurrentMonthKey(s.now())
	}
	return production.ResolveDateRange(month, filter.Week)
}

func (s *DashboardService) mode(filter domain.DashboardFilter) (domain.AggregationMode, error) {
	if filter.Mode == "" {
		return s.cfg.DefaultMode, nil
	}
	mode, ok := domain.ParseAggregationMode(string(filter.Mode))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, filter.Mode)
	}
	return mode, nil
}

// Compute fetches the inputs of a filter and runs the aggregation. Fetch
// failures degrade to an empty dashboard or default settings.
func (s *DashboardService) Compute(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, domain.DateRange, error) {
	rng, err := s.Resolve(filter)
	if err != nil {
		return nil, domain.DateRange{}, err
	}
	mode, err := s.mode(filter)
	if err != nil {
		return nil, rng, err
	}

	var (
		records  []domain.RawRecord
		plans    []domain.MonthlyPlan
		workDays domain.WorkDays
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records = s.fetchRecords(gctx, cache.RecordWindow{Start: rng.Start, End: rng.End, Line: filter.Line})
		return nil
	})
	if mode == domain.ModePlan {
		g.Go(func() error {
			plans = s.fetchPlans(gctx)
			return nil
		})
		g.Go(func() error {
			workDays = s.fetchWorkDays(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rng, err
	}

	d := production.Compute(records, production.Query{
		Range:         rng,
		Mode:          mode,
		Catalog:       s.catalog,
		Plans:         plans,
		WorkDays:      workDays,
		ActualDivisor: s.cfg.ActualDivisor,
	})
	return d, rng, nil
}

// View computes the dashboard and narrows it to the filter's area and group.
func (s *DashboardService) View(ctx context.Context, filter domain.DashboardFilter) (*domain.DashboardView, error) {
	d, rng, err := s.Compute(ctx, filter)
	if err != nil {
		return nil, err
	}
	mode, _ := s.mode(filter)

	area := filter.Area
	if area != "" && !strings.EqualFold(area, domain.AllAreas) {
		if a, ok := s.catalog.ByName(area); ok {
			area = a.Name
		} else if a, ok := s.catalog.ByCode(area); ok {
			area = a.Name
		}
	}

	return production.BuildView(d, production.Selection{
		Range: rng,
		Mode:  mode,
		Area:  area,
		Group: filter.Group,
	}), nil
}

// Periods lists the selectable fiscal years, months and weeks. An invalid
// or empty month falls back to the initial selection.
func (s *DashboardService) Periods(month string) (*domain.PeriodOptions, error) {
	now := s.now()
	months := production.MonthOptions(now)

	selected := month
	if _, _, err := production.ParseMonthKey(selected); err != nil {
		selected = production.SelectInitialMonth(months, now)
	}

	weeks, err := production.WeekBoundaries(selected)
	if err != nil {
		return nil, err
	}

	opts := &domain.PeriodOptions{
		FiscalYear:    production.CurrentFiscalYear(now),
		FiscalYears:   production.FiscalYearOptions(now),
		SelectedMonth: selected,
		CurrentWeek:   production.CurrentWeekIndex(selected, now),
	}
	for _, m := range months {
		opts.Months = append(opts.Months, domain.MonthOption{Key: m, Label: production.FormatMonthLabel(m)})
	}
	for _, w := range weeks {
		opts.Weeks = append(opts.Weeks, domain.WeekOption{
			Index:     w.Index,
			Label:     w.Label,
			StartDate: w.Start.Format("2006-01-02"),
			EndDate:   w.End.Format("2006-01-02"),
		})
	}

	rng, err := production.ResolveDateRange(selected, opts.CurrentWeek)
	if err != nil {
		rng, err = production.ResolveDateRange(selected, 0)
		if err != nil {
			return nil, err
		}
	}
	opts.Range = rng
	return opts, nil
}

// Lines lists the known production lines.
func (s *DashboardService) Lines(ctx context.Context) ([]string, error) {
	return s.records.ListLines(ctx)
}

// Records returns the raw records of a window, through the cache.
func (s *DashboardService) Records(ctx context.Context, filter domain.DashboardFilter) ([]domain.RawRecord, domain.DateRange, error) {
	rng, err := s.Resolve(filter)
	if err != nil {
		return nil, rng, err
	}
	records, err := s.loadRecords(ctx, cache.RecordWindow{Start: rng.Start, End: rng.End, Line: filter.Line})
	if err != nil {
		return nil, rng, err
	}
	return records, rng, nil
}

func (s *DashboardService) loadRecords(ctx context.Context, window cache.RecordWindow) ([]domain.RawRecord, error) {
	if records, ok, err := s.cache.GetRecords(ctx, window); err == nil && ok {
		return records, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get records failed")
	}

	records, err := s.records.ListRecords(ctx, window.Start, window.End, window.Line)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetRecords(ctx, window, records); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set records failed")
	}
	return records, nil
}

func (s *DashboardService) fetchRecords(ctx context.Context, window cache.RecordWindow) []domain.RawRecord {
	records, err := s.loadRecords(ctx, window)
	if err != nil {
		log.Error().Err(err).
			Str("start", window.Start).
			Str("end", window.End).
			Msg("dashboard: record fetch failed, rendering empty dashboard")
		return []domain.RawRecord{}
	}
	return records
}

func (s *DashboardService) fetchPlans(ctx context.Context) []domain.MonthlyPlan {
	plans, err := s.plans.ListPlans(ctx, "")
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: plan fetch failed, continuing without plans")
		return nil
	}
	return plans
}

func (s *DashboardService) fetchWorkDays(ctx context.Context) domain.WorkDays {
	workDays, err := s.plans.GetWorkDays(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: work days fetch failed, using defaults")
		return domain.DefaultWorkDays()
	}
	if len(workDays) == 0 {
		return domain.DefaultWorkDays()
	}
	return workDays
}
