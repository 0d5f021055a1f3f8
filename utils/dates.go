// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// AddCalendarMonths lands on the calendar anniversary, clamping to the last
// day of the month when the source day does not exist (Jan 31 + 1 month is
// Feb 29 in a leap year, not Mar 2).
func AddCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// CalendarMonthsBetween counts whole calendar months from start to end,
// honoring the same month-end clamping as AddCalendarMonths.
func CalendarMonthsBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months > 0 && AddCalendarMonths(start, months).After(end) {
		months--
	}
	return months
}

// WeeksUntil returns the fractional number of weeks from now until later;
// negative when later has passed.
func WeeksUntil(now, later time.Time) float64 {
	return float64(DaysBetween(now, later)) / 7.0
}
