// backend-go/internal/domain/models.go
package domain

import (
	"encoding/json"
	"strings"
)

// RawRecord is one production event as delivered by the plant data source.
type RawRecord struct {
	Area      string  `json:"area" db:"area"`
	Week      string  `json:"week" db:"week"`
	Line      string  `json:"line" db:"line"`
	ItemCode  string  `json:"itemcode" db:"item_code"`
	Item1     string  `json:"item1" db:"item1"`
	Item2     string  `json:"item2" db:"item2"`
	Item3     string  `json:"item3,omitempty" db:"item3"`
	PlanQty   float64 `json:"planQty" db:"plan_qty"`
	ActualQty float64 `json:"actualQty" db:"actual_qty"`
	Unit      string  `json:"unit" db:"unit"`
	Date      string  `json:"date" db:"comp_day"`
	Group     string  `json:"group" db:"grp"`
	Size      string  `json:"size,omitempty" db:"size"`
	QCPass    string  `json:"qcPass,omitempty" db:"qc_pass"`
}

// DateKey returns the day stamp of the record. The completion day is used when
// present, the week stamp otherwise.
func (r RawRecord) DateKey() string {
	if d := strings.TrimSpace(r.Date); d != "" {
		return d
	}
	return strings.TrimSpace(r.Week)
}

// MonthlyPlan holds the planned quantity of one item per month (YYYYMM).
type MonthlyPlan struct {
	ItemCode string             `json:"itemCode" db:"item_code"`
	Item1    string             `json:"item1" db:"item1"`
	Area     string             `json:"area" db:"area"`
	Plans    map[string]float64 `json:"plans"`
}

// UnmarshalJSON accepts the plan dump format, where the area is named line1.
func (p *MonthlyPlan) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemCode string             `json:"itemCode"`
		Item1    string             `json:"item1"`
		Area     string             `json:"area"`
		Line1    string             `json:"line1"`
		Plans    map[string]float64 `json:"plans"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ItemCode = raw.ItemCode
	p.Item1 = raw.Item1
	p.Area = raw.Area
	if p.Area == "" {
		p.Area = raw.Line1
	}
	p.Plans = raw.Plans
	if p.Plans == nil {
		p.Plans = make(map[string]float64)
	}
	return nil
}

// Key identifies the plan row the same way actual records reference it.
func (p MonthlyPlan) Key() string {
	return PlanKey(p.Area, p.ItemCode)
}

// PlanKey builds the area/item lookup key shared by plans and records.
func PlanKey(area, itemCode string) string {
	return area + "-" + itemCode
}

// WorkDays maps a month key (YYYYMM) to the number of working days.
type WorkDays map[string]int

var defaultWorkDays = WorkDays{
	"202504": 23, "202505": 23, "202506": 21, "202507": 22, "202508": 23, "202509": 22,
	"202510": 23, "202511": 20, "202512": 23, "202601": 22, "202602": 15, "202603": 26,
}

// DefaultWorkDays returns a copy of the fallback work-days calendar.
func DefaultWorkDays() WorkDays {
	out := make(WorkDays, len(defaultWorkDays))
	for k, v := range defaultWorkDays {
		out[k] = v
	}
	return out
}

// Divisor returns the working days of month, or 1 when the month is unknown
// or holds a non-positive value.
func (w WorkDays) Divisor(month string) int {
	if days, ok := w[month]; ok && days > 0 {
		return days
	}
	return 1
}

// Has reports whether the calendar carries an entry for month.
func (w WorkDays) Has(month string) bool {
	_, ok := w[month]
	return ok
}

// Total sums every month of the calendar.
func (w WorkDays) Total() int {
	total := 0
	for _, days := range w {
		total += days
	}
	return total
}
