package production

import (
	"sort"
	"strings"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// UnknownItem names series whose records carry no item description.
const UnknownItem = "Unknown"

// Grouping decides which series a record belongs to inside its area.
type Grouping interface {
	// Key is the display identity of the series.
	Key(r domain.RawRecord) string
	// Classifier is the machine group used to filter series.
	Classifier(r domain.RawRecord) string
}

// ByLine groups records by production line code.
type ByLine struct{}

func (ByLine) Key(r domain.RawRecord) string        { return r.Line }
func (ByLine) Classifier(r domain.RawRecord) string { return strings.TrimSpace(r.Item2) }

// ByItem groups records by item description, never by line code.
type ByItem struct{}

func (ByItem) Key(r domain.RawRecord) string        { return itemDescription(r) }
func (ByItem) Classifier(r domain.RawRecord) string { return itemDescription(r) }

func itemDescription(r domain.RawRecord) string {
	if d := strings.TrimSpace(r.Item2); d != "" {
		return d
	}
	return UnknownItem
}

// GroupingFor returns the grouping strategy of an aggregation mode.
func GroupingFor(mode domain.AggregationMode) Grouping {
	if mode == domain.ModeRaw || mode == "" {
		return ByLine{}
	}
	return ByItem{}
}

// Options tunes aggregation.
type Options struct {
	Catalog *domain.AreaCatalog
	// ActualDivisor scales actual quantities before accumulation. Values <= 0
	// mean no scaling.
	ActualDivisor float64
}

func (o Options) divisor() float64 {
	if o.ActualDivisor <= 0 {
		return 1
	}
	return o.ActualDivisor
}

func (o Options) catalog() *domain.AreaCatalog {
	if o.Catalog == nil {
		return domain.NewAreaCatalog(nil)
	}
	return o.Catalog
}

// AreaBucket maps area codes to their series and observed classifiers.
type AreaBucket struct {
	Series map[string][]domain.LineSeries
	Items  map[string][]string
}

func newAreaBucket() AreaBucket {
	return AreaBucket{
		Series: make(map[string][]domain.LineSeries),
		Items:  make(map[string][]string),
	}
}

// Lines returns the series of an area code.
func (b AreaBucket) Lines(area string) []domain.LineSeries {
	return b.Series[area]
}

// areaKeys is the phase-one result for one area: distinct series keys with
// the classifier of their first record, and the distinct classifiers.
type areaKeys struct {
	groups map[string]string
	items  map[string]struct{}
}

func collectKeys(records []domain.RawRecord, grouping Grouping) map[string]*areaKeys {
	areas := make(map[string]*areaKeys)
	for _, r := range records {
		ak, ok := areas[r.Area]
		if !ok {
			ak = &areaKeys{groups: make(map[string]string), items: make(map[string]struct{})}
			areas[r.Area] = ak
		}
		key := grouping.Key(r)
		classifier := grouping.Classifier(r)
		if _, seen := ak.groups[key]; !seen {
			ak.groups[key] = classifier
		}
		if classifier != "" {
			ak.items[classifier] = struct{}{}
		}
	}
	return areas
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func zeroSlots(n int) []domain.DailySlot {
	slots := make([]domain.DailySlot, n)
	for i := range slots {
		slots[i].Act = new(float64)
	}
	return slots
}

// Aggregate buckets records by area and series and accumulates plan and
// actual quantities into the axis slots. Records dated off the axis are
// skipped.
func Aggregate(records []domain.RawRecord, axis Axis, grouping Grouping, opts Options) AreaBucket {
	bucket := newAreaBucket()
	if axis.Len() == 0 {
		return bucket
	}

	// Phase one: distinct keys.
	keys := collectKeys(records, grouping)

	// Phase two: fixed-size allocation, then fill by index.
	position := make(map[string]map[string]int, len(keys))
	for area, ak := range keys {
		names := sortedKeys(ak.groups)
		series := make([]domain.LineSeries, len(names))
		pos := make(map[string]int, len(names))
		for i, name := range names {
			series[i] = domain.LineSeries{
				Name:         name,
				Area:         area,
				MachineGroup: ak.groups[name],
				Data:         zeroSlots(axis.Len()),
			}
			pos[name] = i
		}
		bucket.Series[area] = series
		bucket.Items[area] = sortedKeys(ak.items)
		position[area] = pos
	}

	div := opts.divisor()
	for _, r := range records {
		day, ok := axis.Index(recordDayKey(r))
		if !ok {
			continue
		}
		line := &bucket.Series[r.Area][position[r.Area][grouping.Key(r)]]
		act := r.ActualQty / div
		slot := &line.Data[day]
		slot.Plan += r.PlanQty
		*slot.Act += act
		line.MonthlyPlan += r.PlanQty
		line.MonthlyAct += act
	}

	return bucket
}
