package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

func TestJoinPlanApportionsMonthlyPlan(t *testing.T) {
	records := []domain.RawRecord{
		{Area: "313", Item1: "A1", Item2: "Shirt", Date: "20250602", PlanQty: 999, ActualQty: 5000},
		{Area: "313", Item1: "A1", Item2: "Shirt", Date: "20250603", ActualQty: 1500},
	}
	plans := []domain.MonthlyPlan{{ItemCode: "A1", Area: "313", Plans: map[string]float64{"202506": 2000}}}
	workDays := domain.WorkDays{"202506": 20}

	bucket := JoinPlan(records, BuildAxis(records), plans, workDays, Options{ActualDivisor: DefaultActualDivisor})

	lines := bucket.Lines("313")
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "Shirt", line.Name)
	for _, slot := range line.Data {
		assert.Equal(t, 100.0, slot.Plan)
	}
	assert.Equal(t, 5.0, line.Data[0].ActValue())
	assert.Equal(t, 1.5, line.Data[1].ActValue())
	assert.Equal(t, 2000.0, line.MonthlyPlan)
	assert.Equal(t, 6.5, line.MonthlyAct)
}

func TestJoinPlanLeavesUnmeasuredSlotsNull(t *testing.T) {
	records := []domain.RawRecord{
		{Area: "313", Item1: "X", Item2: "Jacket", Date: "20250602", ActualQty: 1000},
		{Area: "313", Item1: "Y", Item2: "Vest", Date: "20250701", ActualQty: 2000},
	}
	plans := []domain.MonthlyPlan{{ItemCode: "X", Area: "313", Plans: map[string]float64{"202506": 2000}}}
	workDays := domain.WorkDays{"202506": 20}

	bucket := JoinPlan(records, BuildAxis(records), plans, workDays, Options{ActualDivisor: 1000})
	lines := bucket.Lines("313")
	require.Len(t, lines, 2)

	jacket, vest := lines[0], lines[1]
	assert.Equal(t, "Jacket", jacket.Name)
	assert.Equal(t, 100.0, jacket.Data[0].Plan)
	require.NotNil(t, jacket.Data[0].Act)
	assert.Nil(t, jacket.Data[1].Act)
	assert.Equal(t, 0.0, jacket.MonthlyPlan)
	assert.Equal(t, 0.0, jacket.MonthlyAct)

	require.NotNil(t, vest.Data[0].Act)
	assert.Equal(t, 0.0, *vest.Data[0].Act)
	assert.Equal(t, 2.0, vest.Data[1].ActValue())
	assert.Equal(t, 2.0, vest.MonthlyAct)
}

func TestJoinPlanFirstItemCodeOwnsDescription(t *testing.T) {
	records := []domain.RawRecord{
		{Area: "121", Item1: "C1", Item2: "Cord", Date: "20250602"},
		{Area: "121", Item1: "C2", Item2: "Cord", Date: "20250602"},
	}
	plans := []domain.MonthlyPlan{
		{ItemCode: "C1", Area: "121", Plans: map[string]float64{"202506": 210}},
		{ItemCode: "C2", Area: "121", Plans: map[string]float64{"202506": 9999}},
	}
	bucket := JoinPlan(records, BuildAxis(records), plans, domain.WorkDays{"202506": 21}, Options{})
	lines := bucket.Lines("121")
	require.Len(t, lines, 1)
	assert.Equal(t, 10.0, lines[0].Data[0].Plan)
}

func TestJoinPlanSkipsUnknownAreas(t *testing.T) {
	records := []domain.RawRecord{{Area: "999", Item2: "Ghost", Date: "20250602", ActualQty: 1}}
	bucket := JoinPlan(records, BuildAxis(records), nil, domain.DefaultWorkDays(), Options{})
	assert.Empty(t, bucket.Series)
}

func TestPlanAverages(t *testing.T) {
	plan := domain.MonthlyPlan{Plans: map[string]float64{"202506": 2000, "202507": 2200}}
	workDays := domain.WorkDays{"202506": 20, "202507": 22}

	assert.Equal(t, 100, DailyAverage(plan, "202506", workDays))
	assert.Equal(t, 0, DailyAverage(plan, "202508", workDays))
	assert.Equal(t, 4200.0, TotalPlan(plan))
	assert.Equal(t, 100, OverallDailyAverage(plan, workDays))
	assert.Equal(t, 0, OverallDailyAverage(plan, domain.WorkDays{}))
}
