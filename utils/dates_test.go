package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 16, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, -1, DaysBetween(end, start))
}

func TestAddCalendarMonthsClampsToMonthEnd(t *testing.T) {
	// Leap year: Jan 31 + 1 month lands on Feb 29, not Mar 2
	assert.Equal(t, date(2024, time.February, 29), AddCalendarMonths(date(2024, time.January, 31), 1))
	// Non-leap year clamps to Feb 28
	assert.Equal(t, date(2023, time.February, 28), AddCalendarMonths(date(2023, time.January, 31), 1))
	// Ordinary days pass straight through
	assert.Equal(t, date(2024, time.July, 8), AddCalendarMonths(date(2024, time.January, 8), 6))
	assert.Equal(t, date(2025, time.January, 15), AddCalendarMonths(date(2024, time.January, 15), 12))
}

func TestCalendarMonthsBetween(t *testing.T) {
	assert.Equal(t, 0, CalendarMonthsBetween(date(2024, time.January, 15), date(2024, time.February, 14)))
	assert.Equal(t, 1, CalendarMonthsBetween(date(2024, time.January, 15), date(2024, time.February, 15)))
	assert.Equal(t, 1, CalendarMonthsBetween(date(2024, time.January, 31), date(2024, time.February, 29)))
	assert.Equal(t, 6, CalendarMonthsBetween(date(2024, time.January, 8), date(2024, time.July, 20)))
	assert.Equal(t, 0, CalendarMonthsBetween(date(2024, time.February, 1), date(2024, time.January, 1)))
}

func TestWeeksUntil(t *testing.T) {
	assert.InDelta(t, 12.0, WeeksUntil(date(2024, time.June, 9), date(2024, time.September, 1)), 0.001)
	assert.InDelta(t, 3.0/7.0, WeeksUntil(date(2024, time.June, 1), date(2024, time.June, 4)), 0.001)
	assert.InDelta(t, -1.0, WeeksUntil(date(2024, time.June, 8), date(2024, time.June, 1)), 0.001)
}

func TestGenerateRandomString(t *testing.T) {
	ref := GenerateRandomString(5)
	assert.Len(t, ref, 5)
	for _, r := range ref {
		assert.Contains(t, randomAlphabet, string(r))
	}
}
