package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
)

// ReplaceRecordsTx swaps the stored records of every day present in records.
// Records without a usable date are skipped and not counted.
func ReplaceRecordsTx(ctx context.Context, tx *sql.Tx, records []domain.RawRecord) (int, error) {
	days := make(map[int]struct{})
	for _, rec := range records {
		if day, ok := production.NormalizeDate(rec.DateKey()); ok {
			days[day] = struct{}{}
		}
	}
	for day := range days {
		if _, err := tx.ExecContext(ctx, DeleteRecordsForDaySQL, day); err != nil {
			return 0, fmt.Errorf("failed to clear day %d: %w", day, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, InsertRecordSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		day, ok := production.NormalizeDate(rec.DateKey())
		if !ok {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			rec.Area, rec.Week, rec.Line, rec.ItemCode, rec.Item1, rec.Item2, rec.Item3,
			rec.PlanQty, rec.ActualQty, rec.Unit, rec.Date, rec.Group, rec.Size, rec.QCPass,
			day,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert record: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Execer is satisfied by *sql.DB, *sql.Tx and their sqlx wrappers.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertPlanExec writes one plan row, storing the monthly figures as JSONB.
func UpsertPlanExec(ctx context.Context, db Execer, plan domain.MonthlyPlan) error {
	plans := plan.Plans
	if plans == nil {
		plans = map[string]float64{}
	}
	payload, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("encode plans: %w", err)
	}
	if _, err := db.ExecContext(ctx, UpsertPlanSQL, plan.Area, plan.ItemCode, plan.Item1, payload); err != nil {
		return fmt.Errorf("failed to upsert plan %s: %w", plan.Key(), err)
	}
	return nil
}
