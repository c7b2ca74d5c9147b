// Package export renders dashboard views as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

const (
	SheetDaily       = "Daily"
	SheetSummary     = "Summary"
	SheetPerformance = "Performance"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName names the workbook of a view.
func FileName(view *domain.DashboardView) string {
	return fmt.Sprintf("production_%s_%s_%s.xlsx", digits(view.Range.Start), digits(view.Range.End), view.Mode)
}

// Write renders view into w.
func Write(w io.Writer, view *domain.DashboardView) error {
	f, err := Build(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build lays the view out over three sheets: per-date plan and actual rows,
// the headline figures and the line ranking.
func Build(view *domain.DashboardView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetDaily); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetSummary, SheetPerformance} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File, *domain.DashboardView) error{
		writeDaily,
		writeSummary,
		writePerformance,
	}
	for _, step := range steps {
		if err := step(f, view); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeDaily(f *excelize.File, view *domain.DashboardView) error {
	header := []interface{}{"Line", "Machine Group", "Unit", "Metric"}
	for _, d := range view.Dates {
		header = append(header, d)
	}
	header = append(header, "Total", "%")
	if err := setRow(f, SheetDaily, 1, header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetDaily, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	row := 2
	for _, line := range view.Lines {
		plan := []interface{}{line.Name, line.MachineGroup, line.Unit, "Plan"}
		act := []interface{}{line.Name, line.MachineGroup, line.Unit, "Act"}
		for _, slot := range line.Data {
			plan = append(plan, slot.Plan)
			if slot.Act == nil {
				act = append(act, nil)
			} else {
				act = append(act, *slot.Act)
			}
		}
		plan = append(plan, line.Total.Plan, nil)
		act = append(act, line.Total.Act, percentCell(line.Percentage))

		if err := setRow(f, SheetDaily, row, plan); err != nil {
			return err
		}
		if err := setRow(f, SheetDaily, row+1, act); err != nil {
			return err
		}
		row += 2
	}

	planTotals := []interface{}{"Total", "", "", "Plan"}
	actTotals := []interface{}{"Total", "", "", "Act"}
	for _, t := range view.DailyTotals {
		planTotals = append(planTotals, t.Plan)
		actTotals = append(actTotals, t.Act)
	}
	planTotals = append(planTotals, view.Overall.Plan, nil)
	actTotals = append(actTotals, view.Overall.Act, percentCell(view.OverallPercentage))
	if err := setRow(f, SheetDaily, row, planTotals); err != nil {
		return err
	}
	if err := setRow(f, SheetDaily, row+1, actTotals); err != nil {
		return err
	}
	return f.SetCellStyle(SheetDaily, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row+1), bold)
}

func writeSummary(f *excelize.File, view *domain.DashboardView) error {
	rows := [][]interface{}{
		{"Start", view.Range.Start},
		{"End", view.Range.End},
		{"Mode", string(view.Mode)},
		{"Area", view.Area},
		{"Machine Group", view.Group},
		{"Lines", len(view.Lines)},
		{"Plan", view.Overall.Plan},
		{"Actual", view.Overall.Act},
		{"Achievement %", percentCell(view.OverallPercentage)},
		{"Monthly Plan", view.MonthlyPlan},
		{"Monthly Actual", view.MonthlyAct},
	}
	for i, r := range rows {
		if err := setRow(f, SheetSummary, i+1, r); err != nil {
			return err
		}
	}

	row := len(rows) + 2
	if err := setRow(f, SheetSummary, row, []interface{}{"Machine Group", "Plan", "Actual"}); err != nil {
		return err
	}
	for _, g := range view.Charts.OutputByGroup {
		row++
		if err := setRow(f, SheetSummary, row, []interface{}{g.Group, g.Plan, g.Act}); err != nil {
			return err
		}
	}
	return nil
}

func writePerformance(f *excelize.File, view *domain.DashboardView) error {
	if err := setRow(f, SheetPerformance, 1, []interface{}{"Rank", "Line", "Performance %", "Band"}); err != nil {
		return err
	}
	for i, p := range view.Charts.LinePerformance {
		if err := setRow(f, SheetPerformance, i+2, []interface{}{i + 1, p.Name, p.Performance, p.Band}); err != nil {
			return err
		}
	}
	return nil
}

func percentCell(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func digits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
