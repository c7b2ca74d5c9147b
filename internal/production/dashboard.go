package production

import (
	"sort"
	"strings"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// Query is everything Compute needs besides the records.
type Query struct {
	Range    domain.DateRange
	Mode     domain.AggregationMode
	Catalog  *domain.AreaCatalog
	Plans    []domain.MonthlyPlan
	WorkDays domain.WorkDays
	// ActualDivisor applies in plan mode only; 0 means DefaultActualDivisor.
	ActualDivisor float64
}

func (q Query) options() Options {
	opts := Options{Catalog: q.Catalog}
	if q.Mode == domain.ModePlan {
		opts.ActualDivisor = q.ActualDivisor
		if opts.ActualDivisor <= 0 {
			opts.ActualDivisor = DefaultActualDivisor
		}
	}
	return opts
}

// Compute runs filter, axis and aggregation for one query. The result lists
// every catalog area, with empty series for areas without records.
func Compute(records []domain.RawRecord, q Query) *domain.Dashboard {
	filtered := FilterRecords(records, q.Range.Start, q.Range.End)
	axis := BuildAxis(filtered)
	opts := q.options()

	var bucket AreaBucket
	if q.Mode == domain.ModePlan {
		workDays := q.WorkDays
		if workDays == nil {
			workDays = domain.DefaultWorkDays()
		}
		bucket = JoinPlan(filtered, axis, q.Plans, workDays, opts)
	} else {
		bucket = Aggregate(filtered, axis, GroupingFor(q.Mode), opts)
	}

	d := &domain.Dashboard{Dates: axis.Keys()}
	for _, area := range opts.catalog().Areas() {
		lines := bucket.Lines(area.Code)
		if lines == nil {
			lines = []domain.LineSeries{}
		}
		items := bucket.Items[area.Code]
		if items == nil {
			items = []string{}
		}
		d.Areas = append(d.Areas, domain.AreaLines{Area: area, Lines: lines, Items: items})
	}
	return d
}

// SelectLines narrows the dashboard to an area name and machine group. The
// "All" area spans every area; the "All" group applies no group filter.
func SelectLines(d *domain.Dashboard, areaName, group string) []domain.LineSeries {
	var lines []domain.LineSeries
	if areaName == "" || strings.EqualFold(areaName, domain.AllAreas) {
		lines = d.AllLines()
	} else {
		lines = d.Lines(areaName)
	}
	if group == "" || group == domain.AllGroups {
		return lines
	}
	out := make([]domain.LineSeries, 0, len(lines))
	for _, line := range lines {
		if line.MachineGroup == group {
			out = append(out, line)
		}
	}
	return out
}

// MachineGroups lists the group choices of an area, "All" first.
func MachineGroups(d *domain.Dashboard, areaName string) []string {
	seen := make(map[string]struct{})
	var areas []domain.AreaLines
	if areaName == "" || strings.EqualFold(areaName, domain.AllAreas) {
		areas = d.Areas
	} else {
		for _, a := range d.Areas {
			if strings.EqualFold(a.Area.Name, areaName) {
				areas = append(areas, a)
			}
		}
	}
	for _, a := range areas {
		for _, item := range a.Items {
			seen[item] = struct{}{}
		}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return append([]string{domain.AllGroups}, groups...)
}

// Selection is the area/group pick of a dashboard view.
type Selection struct {
	Range domain.DateRange
	Mode  domain.AggregationMode
	Area  string
	Group string
}

// BuildView derives every figure the dashboard page shows for a selection.
func BuildView(d *domain.Dashboard, sel Selection) *domain.DashboardView {
	area := sel.Area
	if area == "" {
		area = domain.AllAreas
	}
	group := sel.Group
	if group == "" {
		group = domain.AllGroups
	}

	lines := SelectLines(d, area, group)
	views := make([]domain.LineView, len(lines))
	for i, line := range lines {
		total := LineTotal(line)
		act := total.Act
		monthlyAct := line.MonthlyAct
		views[i] = domain.LineView{
			LineSeries:        line,
			Unit:              domain.UnitForArea(line.Area),
			Total:             total,
			Percentage:        PercentageOrNull(&act, total.Plan),
			MonthlyPercentage: PercentageOrNull(&monthlyAct, line.MonthlyPlan),
		}
	}

	n := len(d.Dates)
	overall := OverallTotal(lines)
	overallAct := overall.Act
	return &domain.DashboardView{
		Range:             sel.Range,
		Mode:              sel.Mode,
		Area:              area,
		Group:             group,
		Dates:             DisplayDates(d.Dates),
		RawDates:          d.Dates,
		MachineGroups:     MachineGroups(d, area),
		Lines:             views,
		DailyTotals:       DailyTotals(lines, n),
		Overall:           overall,
		OverallPercentage: PercentageOrNull(&overallAct, overall.Plan),
		MonthlyPlan:       TotalMonthlyPlan(lines),
		MonthlyAct:        TotalMonthlyAct(lines),
		Charts: domain.ChartSeries{
			DailyPerformance: DailyPerformance(lines, n),
			OutputByGroup:    OutputByMachineGroup(lines),
			LinePerformance:  LinePerformance(lines),
			AreaProportion:   AreaProportion(d),
		},
	}
}
