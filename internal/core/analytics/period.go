package analytics

import (
	"fmt"
	"time"
)

// Supported reporting periods
const (
	PeriodToday      = "today"
	PeriodYesterday  = "yesterday"
	PeriodThisWeek   = "this_week"
	PeriodLastWeek   = "last_week"
	PeriodThisMonth  = "this_month"
	PeriodLastMonth  = "last_month"
	PeriodThisYear   = "this_year"
	PeriodLast30Days = "last_30_days"
	PeriodLast90Days = "last_90_days"

	DefaultPeriod = PeriodThisMonth
	dateField     = "purchase_date"
)

// Periods lists every supported period name
var Periods = []string{
	PeriodToday, PeriodYesterday, PeriodThisWeek, PeriodLastWeek,
	PeriodThisMonth, PeriodLastMonth, PeriodThisYear, PeriodLast30Days, PeriodLast90Days,
}

// GetDateRange returns the range a named period covers relative to now.
// An empty period means DefaultPeriod.
func GetDateRange(period string, now time.Time) (DateRange, error) {
	today := startOfDay(now)
	var start, end time.Time

	switch period {
	case PeriodToday:
		start, end = today, endOfDay(today)

	case PeriodYesterday:
		start = today.AddDate(0, 0, -1)
		end = endOfDay(start)

	case PeriodThisWeek:
		start = startOfWeek(today)
		end = endOfDay(today)

	case PeriodLastWeek:
		start = startOfWeek(today).AddDate(0, 0, -7)
		end = endOfDay(start.AddDate(0, 0, 6))

	case PeriodThisMonth, "":
		period = PeriodThisMonth
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(today)

	case PeriodLastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()))

	case PeriodThisYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(today)

	case PeriodLast30Days:
		start = today.AddDate(0, 0, -29)
		end = endOfDay(today)

	case PeriodLast90Days:
		start = today.AddDate(0, 0, -89)
		end = endOfDay(today)

	default:
		return DateRange{}, fmt.Errorf("unknown period %q", period)
	}

	return DateRange{Start: start, End: end, Field: dateField}, nil
}

// PreviousRange returns the window of the same number of days right before r
func PreviousRange(r DateRange) DateRange {
	days := len(GetDailyRanges(r.Start, r.End))
	start := startOfDay(r.Start).AddDate(0, 0, -days)
	return DateRange{
		Start: start,
		End:   endOfDay(start.AddDate(0, 0, days-1)),
		Field: r.Field,
	}
}

// GetDailyRanges returns date ranges for each day in a period
func GetDailyRanges(start, end time.Time) []DateRange {
	ranges := []DateRange{}
	current := startOfDay(start)

	for !current.After(end) {
		dayEnd := endOfDay(current)
		if dayEnd.After(end) {
			dayEnd = end
		}

		ranges = append(ranges, DateRange{
			Start: current,
			End:   dayEnd,
			Field: dateField,
		})

		current = current.AddDate(0, 0, 1)
	}

	return ranges
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// startOfWeek returns the Monday of t's week
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return startOfDay(t).AddDate(0, 0, -weekday+1)
}
