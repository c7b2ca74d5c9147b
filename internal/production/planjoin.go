package production

import (
	"math"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// DefaultActualDivisor converts the meters reported by the plan-driven
// report into kilometers.
const DefaultActualDivisor = 1000

// JoinPlan builds one series per item description and area, taking daily
// plans from the monthly plan table apportioned over the month's working
// days. Record plan quantities are ignored. Only areas of the catalog are
// reported.
func JoinPlan(records []domain.RawRecord, axis Axis, plans []domain.MonthlyPlan, workDays domain.WorkDays, opts Options) AreaBucket {
	bucket := newAreaBucket()
	if axis.Len() == 0 {
		return bucket
	}
	catalog := opts.catalog()

	planByKey := make(map[string]domain.MonthlyPlan, len(plans))
	for _, p := range plans {
		planByKey[p.Key()] = p
	}

	// Phase one: the first item code seen for a description owns its plan.
	owners := make(map[string]map[string]string)
	for _, r := range records {
		if _, ok := catalog.ByCode(r.Area); !ok {
			continue
		}
		desc := itemDescription(r)
		byDesc, ok := owners[r.Area]
		if !ok {
			byDesc = make(map[string]string)
			owners[r.Area] = byDesc
		}
		if _, seen := byDesc[desc]; !seen {
			byDesc[desc] = domain.PlanKey(r.Area, r.Item1)
		}
	}

	// Phase two: plan-seeded series.
	lastMonth := axis.LastMonth()
	position := make(map[string]map[string]int, len(owners))
	for area, byDesc := range owners {
		names := sortedKeys(byDesc)
		series := make([]domain.LineSeries, len(names))
		pos := make(map[string]int, len(names))
		for i, name := range names {
			plan, hasPlan := planByKey[byDesc[name]]
			series[i] = domain.LineSeries{
				Name:         name,
				Area:         area,
				MachineGroup: name,
				Data:         planSlots(axis, plan, hasPlan, workDays),
			}
			if hasPlan {
				series[i].MonthlyPlan = plan.Plans[lastMonth]
			}
			pos[name] = i
		}
		bucket.Series[area] = series
		bucket.Items[area] = names
		position[area] = pos
	}

	// Phase three: actuals.
	div := opts.divisor()
	for _, r := range records {
		pos, ok := position[r.Area]
		if !ok {
			continue
		}
		key := recordDayKey(r)
		day, ok := axis.Index(key)
		if !ok {
			continue
		}
		line := &bucket.Series[r.Area][pos[itemDescription(r)]]
		act := r.ActualQty / div
		slot := &line.Data[day]
		current := slot.ActValue()
		sum := current + act
		slot.Act = &sum
		if monthOfKey(key) == lastMonth {
			line.MonthlyAct += act
		}
	}

	return bucket
}

func planSlots(axis Axis, plan domain.MonthlyPlan, hasPlan bool, workDays domain.WorkDays) []domain.DailySlot {
	slots := make([]domain.DailySlot, axis.Len())
	for i := range slots {
		month := axis.MonthOf(i)
		monthly, planned := 0.0, false
		if hasPlan {
			monthly, planned = plan.Plans[month]
		}
		slots[i].Plan = math.Round(monthly / float64(workDays.Divisor(month)))
		if planned || workDays.Has(month) {
			slots[i].Act = new(float64)
		}
	}
	return slots
}

// DailyAverage apportions the plan of one month over its working days.
func DailyAverage(plan domain.MonthlyPlan, month string, workDays domain.WorkDays) int {
	return int(math.Round(plan.Plans[month] / float64(workDays.Divisor(month))))
}

// TotalPlan sums every month of a plan.
func TotalPlan(plan domain.MonthlyPlan) float64 {
	total := 0.0
	for _, v := range plan.Plans {
		total += v
	}
	return total
}

// OverallDailyAverage spreads the whole plan over every working day of the
// calendar; 0 when the calendar is empty.
func OverallDailyAverage(plan domain.MonthlyPlan, workDays domain.WorkDays) int {
	days := workDays.Total()
	if days <= 0 {
		return 0
	}
	return int(math.Round(TotalPlan(plan) / float64(days)))
}
