package production

import (
	"math"
	"sort"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// Performance bands used to color line rankings.
const (
	BandGood = "good"
	BandWarn = "warn"
	BandBad  = "bad"
)

// PercentageOrNull returns round(actual/plan*100), or nil when there is no
// actual figure or no plan to compare with.
func PercentageOrNull(actual *float64, plan float64) *float64 {
	if actual == nil || plan == 0 {
		return nil
	}
	pct := math.Round(*actual / plan * 100)
	return &pct
}

// PercentageOrZero returns actual/plan*100 unrounded, and 0 for a zero plan.
func PercentageOrZero(actual, plan float64) float64 {
	if plan == 0 {
		return 0
	}
	return actual / plan * 100
}

// LineTotal sums the slots of a series; nil actuals count as zero.
func LineTotal(series domain.LineSeries) domain.Total {
	var t domain.Total
	for _, slot := range series.Data {
		t.Plan += slot.Plan
		t.Act += slot.ActValue()
	}
	return t
}

// DailyTotal sums slot i across lines, skipping lines shorter than i.
func DailyTotal(lines []domain.LineSeries, i int) domain.Total {
	var t domain.Total
	if i < 0 {
		return t
	}
	for _, line := range lines {
		if i >= len(line.Data) {
			continue
		}
		t.Plan += line.Data[i].Plan
		t.Act += line.Data[i].ActValue()
	}
	return t
}

// DailyTotals returns DailyTotal for every index below n.
func DailyTotals(lines []domain.LineSeries, n int) []domain.Total {
	out := make([]domain.Total, n)
	for i := range out {
		out[i] = DailyTotal(lines, i)
	}
	return out
}

// OverallTotal sums LineTotal over lines.
func OverallTotal(lines []domain.LineSeries) domain.Total {
	var t domain.Total
	for _, line := range lines {
		t = t.Add(LineTotal(line))
	}
	return t
}

func TotalMonthlyPlan(lines []domain.LineSeries) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.MonthlyPlan
	}
	return total
}

func TotalMonthlyAct(lines []domain.LineSeries) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.MonthlyAct
	}
	return total
}

// DailyPerformance is the day-by-day percentage of plan over n axis slots.
func DailyPerformance(lines []domain.LineSeries, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := DailyTotal(lines, i)
		out[i] = PercentageOrZero(t.Act, t.Plan)
	}
	return out
}

// OutputByMachineGroup totals plan and actual per machine group, in order of
// first appearance.
func OutputByMachineGroup(lines []domain.LineSeries) []domain.GroupTotal {
	index := make(map[string]int)
	var out []domain.GroupTotal
	for _, line := range lines {
		i, ok := index[line.MachineGroup]
		if !ok {
			i = len(out)
			index[line.MachineGroup] = i
			out = append(out, domain.GroupTotal{Group: line.MachineGroup})
		}
		t := LineTotal(line)
		out[i].Plan += t.Plan
		out[i].Act += t.Act
	}
	return out
}

// PerformanceBand classifies a percentage of plan.
func PerformanceBand(pct float64) string {
	switch {
	case pct >= 100:
		return BandGood
	case pct >= 90:
		return BandWarn
	default:
		return BandBad
	}
}

// LinePerformance ranks lines by range performance, best first.
func LinePerformance(lines []domain.LineSeries) []domain.LinePerformance {
	out := make([]domain.LinePerformance, len(lines))
	for i, line := range lines {
		t := LineTotal(line)
		pct := PercentageOrZero(t.Act, t.Plan)
		out[i] = domain.LinePerformance{Name: line.Name, Performance: pct, Band: PerformanceBand(pct)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Performance > out[j].Performance
	})
	return out
}

// AreaProportion is the actual output of each area, leaving out idle areas.
func AreaProportion(d *domain.Dashboard) []domain.AreaShare {
	var out []domain.AreaShare
	for _, a := range d.Areas {
		total := OverallTotal(a.Lines).Act
		if total > 0 {
			out = append(out, domain.AreaShare{Area: a.Area.Name, Total: total})
		}
	}
	return out
}
