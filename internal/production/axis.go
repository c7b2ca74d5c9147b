package production

import (
	"sort"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// Axis is the sorted set of distinct day keys every series is aligned to.
type Axis struct {
	keys  []string
	index map[string]int
}

// BuildAxis collects the distinct YYYYMMDD keys of records in ascending order.
func BuildAxis(records []domain.RawRecord) Axis {
	seen := make(map[string]struct{}, len(records))
	keys := make([]string, 0)
	for _, r := range records {
		key := recordDayKey(r)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return NewAxis(keys)
}

// NewAxis wraps already sorted, distinct keys.
func NewAxis(keys []string) Axis {
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return Axis{keys: keys, index: index}
}

func recordDayKey(r domain.RawRecord) string {
	return DigitsOnly(r.DateKey())
}

func (a Axis) Len() int { return len(a.keys) }

// Keys returns a copy of the day keys.
func (a Axis) Keys() []string {
	return append([]string{}, a.keys...)
}

// Index locates a day key on the axis.
func (a Axis) Index(key string) (int, bool) {
	i, ok := a.index[key]
	return i, ok
}

// MonthOf returns the YYYYMM of the i-th key.
func (a Axis) MonthOf(i int) string {
	return monthOfKey(a.keys[i])
}

// LastMonth is the month of the latest key, or "" on an empty axis.
func (a Axis) LastMonth() string {
	if len(a.keys) == 0 {
		return ""
	}
	return a.MonthOf(len(a.keys) - 1)
}

// DisplayLabels renders the keys as MM/DD.
func (a Axis) DisplayLabels() []string {
	return DisplayDates(a.keys)
}

// DisplayDates renders YYYYMMDD keys as MM/DD.
func DisplayDates(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if len(k) >= 8 {
			out[i] = k[4:6] + "/" + k[6:8]
		} else {
			out[i] = k
		}
	}
	return out
}

func monthOfKey(key string) string {
	if len(key) < 6 {
		return key
	}
	return key[:6]
}
