package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderKeyLadder(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		daysAhead int
		want      string
	}{
		{20, "reminder_2weeks"},
		{14, "reminder_2weeks"},
		{13, "reminder_1week"},
		{7, "reminder_1week"},
		{5, "reminder_3days"},
		{3, "reminder_3days"},
		{2, "reminder_2days"},
		{1, "reminder_1day"},
		{0, "reminder_same_day"},
	}

	for _, tc := range cases {
		apt := Appointment{StartTime: now.AddDate(0, 0, tc.daysAhead)}
		assert.Equal(t, tc.want, apt.ReminderKey(now), "%d days ahead", tc.daysAhead)
	}
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 45, 0, 0, time.UTC)
	apt := Appointment{StartTime: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1, apt.DaysUntil(now))
}
