package production

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBoundariesSaturdayStart(t *testing.T) {
	// 2025-03-01 is a Saturday.
	weeks, err := WeekBoundaries("202503")
	require.NoError(t, err)
	require.Len(t, weeks, 6)

	assert.Equal(t, 0, weeks[0].Index)
	assert.Equal(t, "All", weeks[0].Label)
	assert.Equal(t, 1, weeks[0].Start.Day())
	assert.Equal(t, 31, weeks[0].End.Day())

	assert.Equal(t, 3, weeks[1].Start.Day())
	assert.Equal(t, time.Monday, weeks[1].Start.Weekday())
	assert.Equal(t, 9, weeks[1].End.Day())
	assert.Equal(t, "Week 1: 03/03 - 09/03", weeks[1].Label)

	last := weeks[len(weeks)-1]
	assert.Equal(t, 31, last.Start.Day())
	assert.Equal(t, 31, last.End.Day())
}

func TestWeekBoundariesMondayStart(t *testing.T) {
	// 2025-09-01 is a Monday.
	weeks, err := WeekBoundaries("202509")
	require.NoError(t, err)
	require.Len(t, weeks, 6)
	assert.Equal(t, 1, weeks[1].Start.Day())
	assert.Equal(t, 29, weeks[5].Start.Day())
	assert.Equal(t, 30, weeks[5].End.Day())
}

func TestWeekBoundariesInvalidMonth(t *testing.T) {
	for _, key := range []string{"", "2025", "202513", "2025ab", "202500"} {
		_, err := WeekBoundaries(key)
		assert.ErrorIs(t, err, ErrInvalidMonthKey, key)
	}
}

func TestCurrentWeekIndex(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before first monday", time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), 0},
		{"first monday", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 1},
		{"sunday of week one", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), 1},
		{"second week", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), 2},
		{"last day afternoon", time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC), 5},
		{"next month", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentWeekIndex("202503", tt.now))
		})
	}
	assert.Equal(t, 0, CurrentWeekIndex("bogus", time.Now()))
}

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		month      string
		week       int
		start, end string
	}{
		{"202506", 0, "2025-06-01", "2025-06-30"},
		{"202506", 1, "2025-06-01", "2025-06-07"},
		{"202506", 2, "2025-06-08", "2025-06-14"},
		{"202506", 5, "2025-06-29", "2025-06-30"},
		{"202502", 4, "2025-02-22", "2025-02-28"},
		{"202402", 5, "2024-02-29", "2024-02-29"},
	}
	for _, tt := range tests {
		r, err := ResolveDateRange(tt.month, tt.week)
		require.NoError(t, err)
		assert.Equal(t, tt.start, r.Start, "%s week %d", tt.month, tt.week)
		assert.Equal(t, tt.end, r.End, "%s week %d", tt.month, tt.week)
	}
}

func TestResolveDateRangeErrors(t *testing.T) {
	_, err := ResolveDateRange("202506", 6)
	assert.ErrorIs(t, err, ErrWeekOutOfRange)

	_, err = ResolveDateRange("202506", -1)
	assert.ErrorIs(t, err, ErrWeekOutOfRange)

	_, err = ResolveDateRange("2025-06", 0)
	assert.ErrorIs(t, err, ErrInvalidMonthKey)
}

func TestMonthOptionsAndSelection(t *testing.T) {
	now := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	months := MonthOptions(now)
	require.Len(t, months, 12)
	assert.Equal(t, "202504", months[0])
	assert.Equal(t, "202512", months[8])
	assert.Equal(t, "202603", months[11])

	assert.Equal(t, "202504", SelectInitialMonth(months, now))
	assert.Equal(t, "202603", SelectInitialMonth(months, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", SelectInitialMonth(nil, now))
}

func TestFiscalYears(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-2026", CurrentFiscalYear(now))
	assert.Equal(t, []string{"2024-2025", "2025-2026", "2026-2027"}, FiscalYearOptions(now))
	assert.Equal(t, "2025/06", FormatMonthLabel("202506"))
}
