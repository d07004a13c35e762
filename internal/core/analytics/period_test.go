package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetDateRange(t *testing.T) {
	now := time.Date(2025, 8, 20, 15, 30, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		period string
		start  time.Time
		end    time.Time
	}{
		{PeriodToday, day(2025, 8, 20), day(2025, 8, 20)},
		{PeriodYesterday, day(2025, 8, 19), day(2025, 8, 19)},
		{PeriodThisWeek, day(2025, 8, 18), day(2025, 8, 20)},
		{PeriodLastWeek, day(2025, 8, 11), day(2025, 8, 17)},
		{PeriodThisMonth, day(2025, 8, 1), day(2025, 8, 20)},
		{"", day(2025, 8, 1), day(2025, 8, 20)},
		{PeriodLastMonth, day(2025, 7, 1), day(2025, 7, 31)},
		{PeriodThisYear, day(2025, 1, 1), day(2025, 8, 20)},
		{PeriodLast30Days, day(2025, 7, 22), day(2025, 8, 20)},
		{PeriodLast90Days, day(2025, 5, 23), day(2025, 8, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			r, err := GetDateRange(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, endOfDay(tt.end), r.End)
			assert.Equal(t, "purchase_date", r.Field)
		})
	}
}

func TestGetDateRangeUnknown(t *testing.T) {
	_, err := GetDateRange("fortnight", time.Now())
	assert.Error(t, err)
}

func TestGetDateRangeSundayBelongsToPreviousMonday(t *testing.T) {
	r, err := GetDateRange(PeriodThisWeek, time.Date(2025, 8, 24, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 8, 18), r.Start)
}

func TestGetDateRangeLastMonthInMarch(t *testing.T) {
	r, err := GetDateRange(PeriodLastMonth, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 2, 1), r.Start)
	assert.Equal(t, endOfDay(day(2025, 2, 28)), r.End)
}

func TestPreviousRange(t *testing.T) {
	r := DateRange{Start: day(2025, 8, 1), End: endOfDay(day(2025, 8, 20)), Field: dateField}

	prev := PreviousRange(r)
	assert.Equal(t, day(2025, 7, 12), prev.Start)
	assert.Equal(t, endOfDay(day(2025, 7, 31)), prev.End)
	assert.Equal(t, dateField, prev.Field)
}

func TestGetDailyRanges(t *testing.T) {
	ranges := GetDailyRanges(day(2025, 8, 30), endOfDay(day(2025, 9, 2)))
	require.Len(t, ranges, 4)
	assert.Equal(t, day(2025, 8, 30), ranges[0].Start)
	assert.Equal(t, day(2025, 9, 2), ranges[3].Start)
	assert.Equal(t, endOfDay(day(2025, 9, 2)), ranges[3].End)

	assert.Empty(t, GetDailyRanges(day(2025, 9, 2), day(2025, 9, 1)))
}
