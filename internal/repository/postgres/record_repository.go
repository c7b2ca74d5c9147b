// backend-go/internal/repository/postgres/record_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
)

type recordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

const listRecordsBaseQuery = `
	SELECT area, week, line, item_code, item1, item2, item3,
		plan_qty, actual_qty, unit, comp_day, grp, size, qc_pass
	FROM production_records
	WHERE day_key BETWEEN $1 AND $2
`

func (r *recordRepository) ListRecords(ctx context.Context, start, end, line string) ([]domain.RawRecord, error) {
	startKey, ok := production.NormalizeDate(start)
	if !ok {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	endKey, ok := production.NormalizeDate(end)
	if !ok {
		return nil, fmt.Errorf("invalid end date %q", end)
	}

	query := listRecordsBaseQuery
	args := []interface{}{startKey, endKey}
	if line = strings.TrimSpace(line); line != "" {
		query += " AND line = $3"
		args = append(args, line)
	}
	query += " ORDER BY day_key, area, line, id"

	records := []domain.RawRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("error listing production records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) ListLines(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT line
		FROM production_records
		WHERE line <> ''
		ORDER BY line
	`

	lines := []string{}
	if err := r.db.SelectContext(ctx, &lines, query); err != nil {
		return nil, fmt.Errorf("error listing lines: %w", err)
	}
	return lines, nil
}

func (r *recordRepository) UpsertRecords(ctx context.Context, records []domain.RawRecord) (int, error) {
	var inserted int
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := repository.ReplaceRecordsTx(ctx, tx, records)
		inserted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
