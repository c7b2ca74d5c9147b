// backend-go/internal/service/plan_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
)

type PlanService struct {
	repo repository.PlanRepository
}

func NewPlanService(repo repository.PlanRepository) *PlanService {
	return &PlanService{repo: repo}
}

func (s *PlanService) ListPlans(ctx context.Context, area string) ([]domain.MonthlyPlan, error) {
	return s.repo.ListPlans(ctx, strings.TrimSpace(area))
}

func (s *PlanService) SavePlan(ctx context.Context, plan domain.MonthlyPlan) (domain.MonthlyPlan, error) {
	plan, err := normalizePlan(plan)
	if err != nil {
		return plan, err
	}
	if err := s.repo.UpsertPlan(ctx, plan); err != nil {
		return plan, fmt.Errorf("failed to save plan: %w", err)
	}
	return plan, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, area, itemCode string) error {
	area, itemCode = strings.TrimSpace(area), strings.TrimSpace(itemCode)
	if area == "" || itemCode == "" {
		return fmt.Errorf("%w: area and item code are required", ErrInvalidPlan)
	}
	return s.repo.DeletePlan(ctx, area, itemCode)
}

// GetWorkDays returns the stored calendar, or the built-in one when nothing
// has been saved yet.
func (s *PlanService) GetWorkDays(ctx context.Context) (domain.WorkDays, error) {
	workDays, err := s.repo.GetWorkDays(ctx)
	if err != nil {
		return nil, err
	}
	if len(workDays) == 0 {
		return domain.DefaultWorkDays(), nil
	}
	return workDays, nil
}

func (s *PlanService) SaveWorkDays(ctx context.Context, workDays domain.WorkDays) error {
	if err := ValidateWorkDays(workDays); err != nil {
		return err
	}
	return s.repo.SaveWorkDays(ctx, workDays)
}

// Summaries decorates the plans of an area with units and daily averages.
func (s *PlanService) Summaries(ctx context.Context, area string) ([]domain.PlanSummary, error) {
	plans, err := s.ListPlans(ctx, area)
	if err != nil {
		return nil, err
	}
	workDays, err := s.GetWorkDays(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(plans, workDays), nil
}

// Summarize computes the plan summaries against a work-days calendar.
func Summarize(plans []domain.MonthlyPlan, workDays domain.WorkDays) []domain.PlanSummary {
	out := make([]domain.PlanSummary, 0, len(plans))
	for _, p := range plans {
		averages := make(map[string]int, len(p.Plans))
		for month := range p.Plans {
			averages[month] = production.DailyAverage(p, month, workDays)
		}
		out = append(out, domain.PlanSummary{
			MonthlyPlan:         p,
			Unit:                domain.UnitForArea(p.Area),
			Total:               production.TotalPlan(p),
			DailyAverages:       averages,
			OverallDailyAverage: production.OverallDailyAverage(p, workDays),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Area != out[j].Area {
			return out[i].Area < out[j].Area
		}
		return out[i].ItemCode < out[j].ItemCode
	})
	return out
}

func normalizePlan(plan domain.MonthlyPlan) (domain.MonthlyPlan, error) {
	plan.Area = strings.TrimSpace(plan.Area)
	plan.ItemCode = strings.TrimSpace(plan.ItemCode)
	plan.Item1 = strings.TrimSpace(plan.Item1)
	if plan.Area == "" || plan.ItemCode == "" {
		return plan, fmt.Errorf("%w: area and item code are required", ErrInvalidPlan)
	}
	if plan.Plans == nil {
		plan.Plans = map[string]float64{}
	}
	for month, qty := range plan.Plans {
		if _, _, err := production.ParseMonthKey(month); err != nil {
			return plan, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
		}
		if qty < 0 {
			return plan, fmt.Errorf("%w: negative quantity for %s", ErrInvalidPlan, month)
		}
	}
	return plan, nil
}

// ValidateWorkDays checks month keys and that each month has 1..31 days.
func ValidateWorkDays(workDays domain.WorkDays) error {
	if len(workDays) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidWorkDays)
	}
	for month, days := range workDays {
		if _, _, err := production.ParseMonthKey(month); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidWorkDays, err)
		}
		if days < 1 || days > 31 {
			return fmt.Errorf("%w: %s has %d days", ErrInvalidWorkDays, month, days)
		}
	}
	return nil
}
