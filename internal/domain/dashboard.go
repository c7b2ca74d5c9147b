package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AggregationMode selects how records are grouped into line series.
type AggregationMode string

const (
	// ModeRaw groups by production line code.
	ModeRaw AggregationMode = "raw"
	// ModeProcessed groups by item description.
	ModeProcessed AggregationMode = "processed"
	// ModePlan groups by item description and takes daily plans from the
	// monthly plan table.
	ModePlan AggregationMode = "plan"
)

// ParseAggregationMode is case-insensitive; unknown values report false.
func ParseAggregationMode(s string) (AggregationMode, bool) {
	switch AggregationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRaw:
		return ModeRaw, true
	case ModeProcessed:
		return ModeProcessed, true
	case ModePlan:
		return ModePlan, true
	}
	return "", false
}

// DailySlot is one date position of a line series. Act is nil when nothing
// could be measured or planned for that date.
type DailySlot struct {
	Plan float64  `json:"plan"`
	Act  *float64 `json:"act"`
}

// ActValue returns Act with nil read as zero.
func (s DailySlot) ActValue() float64 {
	if s.Act == nil {
		return 0
	}
	return *s.Act
}

// LineSeries is the per-date plan/actual series of one line or item group,
// index-aligned to Dashboard.Dates.
type LineSeries struct {
	Name         string      `json:"name"`
	Area         string      `json:"area"`
	MachineGroup string      `json:"machineGroup"`
	Data         []DailySlot `json:"data"`
	MonthlyPlan  float64     `json:"monthlyPlan"`
	MonthlyAct   float64     `json:"monthlyAct"`
}

// Total is a plan/actual pair.
type Total struct {
	Plan float64 `json:"plan"`
	Act  float64 `json:"act"`
}

// Add returns the element-wise sum.
func (t Total) Add(o Total) Total {
	return Total{Plan: t.Plan + o.Plan, Act: t.Act + o.Act}
}

// AreaLines is the aggregate of one area.
type AreaLines struct {
	Area  Area
	Lines []LineSeries
	Items []string
}

// Dashboard is the aggregate handed to the presentation layer.
type Dashboard struct {
	Dates []string
	Areas []AreaLines
}

// Lines returns the series of the named area (case-insensitive).
func (d *Dashboard) Lines(areaName string) []LineSeries {
	for _, a := range d.Areas {
		if strings.EqualFold(a.Area.Name, areaName) {
			return a.Lines
		}
	}
	return nil
}

// Items returns the classifiers observed in the named area.
func (d *Dashboard) Items(areaName string) []string {
	for _, a := range d.Areas {
		if strings.EqualFold(a.Area.Name, areaName) {
			return a.Items
		}
	}
	return nil
}

// AllLines concatenates the series of every area in catalog order.
func (d *Dashboard) AllLines() []LineSeries {
	var out []LineSeries
	for _, a := range d.Areas {
		out = append(out, a.Lines...)
	}
	return out
}

// MarshalJSON writes one field per area name next to dates and areaItems:
// {"dates": [...], "Weaving": [...], ..., "areaItems": {"Weaving": [...]}}.
func (d Dashboard) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	dates := d.Dates
	if dates == nil {
		dates = []string{}
	}
	if err := writeField(&buf, "dates", dates); err != nil {
		return nil, err
	}

	items := make(map[string][]string, len(d.Areas))
	for _, a := range d.Areas {
		lines := a.Lines
		if lines == nil {
			lines = []LineSeries{}
		}
		buf.WriteByte(',')
		if err := writeField(&buf, a.Area.Name, lines); err != nil {
			return nil, err
		}
		if a.Items == nil {
			items[a.Area.Name] = []string{}
		} else {
			items[a.Area.Name] = a.Items
		}
	}

	buf.WriteByte(',')
	if err := writeField(&buf, "areaItems", items); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name string, value any) error {
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(payload)
	return nil
}

// DateRange is an inclusive date window in YYYY-MM-DD form.
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// DashboardFilter carries the dashboard query parameters.
type DashboardFilter struct {
	Month     string          `json:"month"`
	Week      int             `json:"week"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Mode      AggregationMode `json:"mode"`
	Area      string          `json:"area"`
	Group     string          `json:"group"`
	Line      string          `json:"line"`
}

// LineView decorates a series with its derived metrics.
type LineView struct {
	LineSeries
	Unit              string   `json:"unit"`
	Total             Total    `json:"total"`
	Percentage        *float64 `json:"percentage"`
	MonthlyPercentage *float64 `json:"monthlyPercentage"`
}

// GroupTotal is the plan/actual output of one machine group.
type GroupTotal struct {
	Group string  `json:"group"`
	Plan  float64 `json:"plan"`
	Act   float64 `json:"act"`
}

// LinePerformance ranks a line by its range performance.
type LinePerformance struct {
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
	Band        string  `json:"band"`
}

// AreaShare is one slice of the area proportion chart.
type AreaShare struct {
	Area  string  `json:"area"`
	Total float64 `json:"total"`
}

// ChartSeries holds the data behind the dashboard charts.
type ChartSeries struct {
	DailyPerformance []float64         `json:"dailyPerformance"`
	OutputByGroup    []GroupTotal      `json:"outputByGroup"`
	LinePerformance  []LinePerformance `json:"linePerformance"`
	AreaProportion   []AreaShare       `json:"areaProportion"`
}

// DashboardView is the dashboard narrowed to an area/group selection with
// every derived figure the page displays.
type DashboardView struct {
	Range             DateRange       `json:"range"`
	Mode              AggregationMode `json:"mode"`
	Area              string          `json:"area"`
	Group             string          `json:"group"`
	Dates             []string        `json:"dates"`
	RawDates          []string        `json:"rawDates"`
	MachineGroups     []string        `json:"machineGroups"`
	Lines             []LineView      `json:"lines"`
	DailyTotals       []Total         `json:"dailyTotals"`
	Overall           Total           `json:"overall"`
	OverallPercentage *float64        `json:"overallPercentage"`
	MonthlyPlan       float64         `json:"monthlyPlan"`
	MonthlyAct        float64         `json:"monthlyAct"`
	Charts            ChartSeries     `json:"charts"`
}

// MonthOption is a selectable month.
type MonthOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// WeekOption is a selectable week of a month; index 0 is the whole month.
type WeekOption struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PeriodOptions feeds the period selectors.
type PeriodOptions struct {
	FiscalYear    string        `json:"fiscalYear"`
	FiscalYears   []string      `json:"fiscalYears"`
	Months        []MonthOption `json:"months"`
	SelectedMonth string        `json:"selectedMonth"`
	Weeks         []WeekOption  `json:"weeks"`
	CurrentWeek   int           `json:"currentWeek"`
	Range         DateRange     `json:"range"`
}

// PlanSummary is a monthly plan with its per-month daily averages.
type PlanSummary struct {
	MonthlyPlan
	Unit                string         `json:"unit"`
	Total               float64        `json:"total"`
	DailyAverages       map[string]int `json:"dailyAverages"`
	OverallDailyAverage int            `json:"overallDailyAverage"`
}
