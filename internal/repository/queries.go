package repository

// Statements shared by the server repositories and the bulk ingest path.
const (
	DeleteRecordsForDaySQL = `DELETE FROM production_records WHERE day_key = $1`

	InsertRecordSQL = `
		INSERT INTO production_records (
			area, week, line, item_code, item1, item2, item3,
			plan_qty, actual_qty, unit, comp_day, grp, size, qc_pass, day_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	UpsertPlanSQL = `
		INSERT INTO monthly_plans (area, item_code, item1, plans, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (area, item_code)
		DO UPDATE SET
			item1 = EXCLUDED.item1,
			plans = EXCLUDED.plans,
			updated_at = NOW()
	`

	UpsertWorkDaysSQL = `
		INSERT INTO work_days (month_key, days, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (month_key)
		DO UPDATE SET days = EXCLUDED.days, updated_at = NOW()
	`
)
