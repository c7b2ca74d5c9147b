package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
)

func sampleView() *domain.DashboardView {
	records := []domain.RawRecord{
		{Area: "313", Line: "L1", Item2: "Shirt", Date: "20250601", PlanQty: 100, ActualQty: 120},
		{Area: "313", Line: "L1", Item2: "Shirt", Date: "20250602", PlanQty: 100, ActualQty: 90},
	}
	rng := domain.DateRange{Start: "2025-06-01", End: "2025-06-02"}
	d := production.Compute(records, production.Query{Range: rng, Mode: domain.ModeRaw})
	return production.BuildView(d, production.Selection{Range: rng, Mode: domain.ModeRaw})
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleView()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDaily, SheetSummary, SheetPerformance}, f.GetSheetList())

	rows, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Line", "Machine Group", "Unit", "Metric", "06/01", "06/02", "Total", "%"}, rows[0])
	assert.Equal(t, []string{"L1", "Shirt", "md", "Act", "120", "90", "210", "105"}, rows[2])
	assert.Equal(t, "Total", rows[3][0])

	achievement, err := f.GetCellValue(SheetSummary, "B9")
	require.NoError(t, err)
	assert.Equal(t, "105", achievement)

	rank, err := f.GetCellValue(SheetPerformance, "B2")
	require.NoError(t, err)
	assert.Equal(t, "L1", rank)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "production_20250601_20250602_raw.xlsx", FileName(sampleView()))
}
