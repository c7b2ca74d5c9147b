package production

import (
	"strconv"
	"strings"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

// DigitsOnly drops every separator from a date string ("2025-06-01" -> "20250601").
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDate turns a date string into its YYYYMMDD number.
func NormalizeDate(s string) (int, bool) {
	digits := DigitsOnly(s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterRecords keeps the records dated within [start, end]. Records with
// unparseable dates are left out; unparseable bounds match nothing.
func FilterRecords(records []domain.RawRecord, start, end string) []domain.RawRecord {
	startNum, ok := NormalizeDate(start)
	if !ok {
		return []domain.RawRecord{}
	}
	endNum, ok := NormalizeDate(end)
	if !ok {
		return []domain.RawRecord{}
	}

	out := make([]domain.RawRecord, 0, len(records))
	for _, r := range records {
		n, ok := NormalizeDate(r.DateKey())
		if !ok {
			continue
		}
		if n >= startNum && n <= endNum {
			out = append(out, r)
		}
	}
	return out
}
