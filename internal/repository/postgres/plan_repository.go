// backend-go/internal/repository/postgres/plan_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
)

type planRepository struct {
	db *DB
}

func NewPlanRepository(db *DB) repository.PlanRepository {
	return &planRepository{db: db}
}

type planRow struct {
	Area     string `db:"area"`
	ItemCode string `db:"item_code"`
	Item1    string `db:"item1"`
	Plans    []byte `db:"plans"`
}

func (row planRow) toDomain() (domain.MonthlyPlan, error) {
	plan := domain.MonthlyPlan{
		Area:     row.Area,
		ItemCode: row.ItemCode,
		Item1:    row.Item1,
		Plans:    map[string]float64{},
	}
	if len(row.Plans) > 0 {
		if err := json.Unmarshal(row.Plans, &plan.Plans); err != nil {
			return plan, fmt.Errorf("decode plans of %s: %w", plan.Key(), err)
		}
	}
	return plan, nil
}

func (r *planRepository) ListPlans(ctx context.Context, area string) ([]domain.MonthlyPlan, error) {
	query := `
		SELECT area, item_code, item1, plans
		FROM monthly_plans
	`
	var args []interface{}
	if area != "" {
		query += " WHERE area = $1"
		args = append(args, area)
	}
	query += " ORDER BY area, item_code"

	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing monthly plans: %w", err)
	}

	plans := make([]domain.MonthlyPlan, 0, len(rows))
	for _, row := range rows {
		plan, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *planRepository) UpsertPlan(ctx context.Context, plan domain.MonthlyPlan) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return repository.UpsertPlanExec(ctx, tx, plan)
	})
}

func (r *planRepository) DeletePlan(ctx context.Context, area, itemCode string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monthly_plans WHERE area = $1 AND item_code = $2`, area, itemCode)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *planRepository) GetWorkDays(ctx context.Context) (domain.WorkDays, error) {
	var rows []struct {
		MonthKey string `db:"month_key"`
		Days     int    `db:"days"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT month_key, days FROM work_days ORDER BY month_key`); err != nil {
		return nil, fmt.Errorf("error loading work days: %w", err)
	}

	workDays := make(domain.WorkDays, len(rows))
	for _, row := range rows {
		workDays[row.MonthKey] = row.Days
	}
	return workDays, nil
}

func (r *planRepository) SaveWorkDays(ctx context.Context, workDays domain.WorkDays) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for month, days := range workDays {
			if _, err := tx.ExecContext(ctx, repository.UpsertWorkDaysSQL, month, days); err != nil {
				return fmt.Errorf("failed to save work days %s: %w", month, err)
			}
		}
		return nil
	})
}
