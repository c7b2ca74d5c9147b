package drive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
)

// ParsePlanWorkbook reads monthly plans from the first sheet of a workbook.
// The header row names an area column (Area or Line1), ItemCode and Item1,
// followed by one column per YYYYMM month. Blank rows and blank cells are
// skipped; month cells must be numeric.
func ParsePlanWorkbook(r io.Reader) ([]domain.MonthlyPlan, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("plan workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var (
		cols   planColumns
		plans  []domain.MonthlyPlan
		rowNum int
	)
	for rows.Next() {
		rowNum++
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}
		if rowNum == 1 {
			if cols, err = parsePlanHeader(record); err != nil {
				return nil, err
			}
			continue
		}

		plan, ok, err := cols.plan(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if ok {
			plans = append(plans, plan)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", sheet, err)
	}

	return plans, nil
}

type planColumns struct {
	area, itemCode, item1 int
	months                map[int]string
}

func parsePlanHeader(header []string) (planColumns, error) {
	cols := planColumns{area: -1, itemCode: -1, item1: -1, months: make(map[int]string)}
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "area", "line1":
			cols.area = i
		case "itemcode", "item_code", "item code":
			cols.itemCode = i
		case "item1", "item", "description":
			cols.item1 = i
		default:
			key := production.DigitsOnly(name)
			if len(key) == 6 && key == name {
				if _, _, err := production.ParseMonthKey(key); err == nil {
					cols.months[i] = key
				}
			}
		}
	}
	if cols.area < 0 || cols.itemCode < 0 {
		return cols, fmt.Errorf("plan workbook header needs Area and ItemCode columns")
	}
	if len(cols.months) == 0 {
		return cols, fmt.Errorf("plan workbook header has no YYYYMM month columns")
	}
	return cols, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c planColumns) plan(record []string) (domain.MonthlyPlan, bool, error) {
	area, itemCode := cell(record, c.area), cell(record, c.itemCode)
	if area == "" && itemCode == "" {
		return domain.MonthlyPlan{}, false, nil
	}

	plan := domain.MonthlyPlan{
		Area:     area,
		ItemCode: itemCode,
		Item1:    cell(record, c.item1),
		Plans:    make(map[string]float64, len(c.months)),
	}
	for i, month := range c.months {
		raw := strings.ReplaceAll(cell(record, i), ",", "")
		if raw == "" {
			continue
		}
		qty, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return plan, false, fmt.Errorf("month %s: %q is not a number", month, raw)
		}
		plan.Plans[month] = qty
	}
	return plan, true, nil
}
