package production

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

var (
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrWeekOutOfRange  = errors.New("week index out of range")
)

const (
	monthKeyLayout = "200601"
	dayKeyLayout   = "20060102"
	isoDayLayout   = "2006-01-02"
)

// Week is a selectable slice of a month. Index 0 spans the whole month.
type Week struct {
	Index int
	Start time.Time
	End   time.Time
	Label string
}

// MonthOptions returns the 12 month keys starting at the month of ref, in
// calendar order.
func MonthOptions(ref time.Time) []string {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		months = append(months, first.AddDate(0, i, 0).Format(monthKeyLayout))
	}
	return months
}

// CurrentMonthKey formats now as YYYYMM.
func CurrentMonthKey(now time.Time) string {
	return fmt.Sprintf("%04d%02d", now.Year(), int(now.Month()))
}

// SelectInitialMonth picks the current month when offered, else the last option.
func SelectInitialMonth(options []string, now time.Time) string {
	if len(options) == 0 {
		return ""
	}
	current := CurrentMonthKey(now)
	for _, m := range options {
		if m == current {
			return current
		}
	}
	return options[len(options)-1]
}

// CurrentFiscalYear labels the fiscal year starting in the year of now.
func CurrentFiscalYear(now time.Time) string {
	return fiscalYearLabel(now.Year())
}

// FiscalYearOptions offers the previous, current and next fiscal years.
func FiscalYearOptions(now time.Time) []string {
	y := now.Year()
	return []string{fiscalYearLabel(y - 1), fiscalYearLabel(y), fiscalYearLabel(y + 1)}
}

func fiscalYearLabel(year int) string {
	return fmt.Sprintf("%d-%d", year, year+1)
}

// ParseMonthKey splits a YYYYMM key.
func ParseMonthKey(key string) (int, time.Month, error) {
	if len(key) != 6 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	year, err := strconv.Atoi(key[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	month, err := strconv.Atoi(key[4:])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	return year, time.Month(month), nil
}

// FormatMonthLabel renders YYYYMM as YYYY/MM.
func FormatMonthLabel(key string) string {
	if len(key) != 6 {
		return key
	}
	return key[:4] + "/" + key[4:]
}

func monthBounds(key string) (time.Time, time.Time, error) {
	year, month, err := ParseMonthKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

func firstMonday(first time.Time) time.Time {
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset)
}

// WeekBoundaries lists the weeks of a month. Week 1 starts on the first
// Monday on or after the 1st; days before it only belong to week 0. Every
// following week starts 7 days later and the last one ends on the last day
// of the month.
func WeekBoundaries(monthKey string) ([]Week, error) {
	first, last, err := monthBounds(monthKey)
	if err != nil {
		return nil, err
	}

	weeks := []Week{{Index: 0, Start: first, End: last, Label: "All"}}
	index := 1
	for start := firstMonday(first); !start.After(last); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		if end.After(last) {
			end = last
		}
		weeks = append(weeks, Week{
			Index: index,
			Start: start,
			End:   end,
			Label: fmt.Sprintf("Week %d: %s", index, formatWeekSpan(start, end)),
		})
		index++
	}
	return weeks, nil
}

func formatWeekSpan(start, end time.Time) string {
	return fmt.Sprintf("%02d/%02d - %02d/%02d", start.Day(), int(start.Month()), end.Day(), int(end.Month()))
}

// CurrentWeekIndex returns the Monday-anchored week of monthKey containing
// now, or 0 when now lies before the first Monday or after the month.
func CurrentWeekIndex(monthKey string, now time.Time) int {
	first, last, err := monthBounds(monthKey)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monday := firstMonday(first)
	if today.Before(monday) || today.After(last) {
		return 0
	}
	days := int(today.Sub(monday).Hours() / 24)
	return days/7 + 1
}

// ResolveDateRange maps a month and week index to a date window. Week n
// covers days 1+(n-1)*7 .. min(start+6, lastDay) of the month; this is plain
// day arithmetic and does not follow WeekBoundaries.
func ResolveDateRange(monthKey string, week int) (domain.DateRange, error) {
	first, last, err := monthBounds(monthKey)
	if err != nil {
		return domain.DateRange{}, err
	}
	if week < 0 {
		return domain.DateRange{}, fmt.Errorf("%w: %d", ErrWeekOutOfRange, week)
	}
	if week == 0 {
		return domain.DateRange{Start: first.Format(isoDayLayout), End: last.Format(isoDayLayout)}, nil
	}

	startDay := 1 + (week-1)*7
	if startDay > last.Day() {
		return domain.DateRange{}, fmt.Errorf("%w: week %d of %s", ErrWeekOutOfRange, week, monthKey)
	}
	endDay := startDay + 6
	if endDay > last.Day() {
		endDay = last.Day()
	}
	return domain.DateRange{
		Start: first.AddDate(0, 0, startDay-1).Format(isoDayLayout),
		End:   first.AddDate(0, 0, endDay-1).Format(isoDayLayout),
	}, nil
}
