package services

import (
	"testing"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMilestoneService(t *testing.T) *MilestoneService {
	t.Helper()
	schedule := config.DefaultMilestoneSchedule()
	require.NoError(t, schedule.Validate())
	return NewMilestoneService(schedule)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stateByType(t *testing.T, states []MilestoneState, milestoneType string) MilestoneState {
	t.Helper()
	for _, s := range states {
		if s.Type == milestoneType {
			return s
		}
	}
	t.Fatalf("no state for milestone %q", milestoneType)
	return MilestoneState{}
}

func TestComputeAge(t *testing.T) {
	svc := newMilestoneService(t)

	age, err := svc.ComputeAge(day(2024, time.January, 15), day(2024, time.February, 20))
	require.NoError(t, err)
	assert.Equal(t, 36, age.Days)
	assert.Equal(t, 5, age.Weeks)
	assert.Equal(t, 1, age.Months)

	// Born today means zero everything, not an error
	age, err = svc.ComputeAge(day(2024, time.March, 1), day(2024, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, Age{}, age)
}

func TestComputeAgeRejectsFutureBirthDate(t *testing.T) {
	svc := newMilestoneService(t)

	_, err := svc.ComputeAge(day(2024, time.June, 1), day(2024, time.May, 1))
	require.Error(t, err)

	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 1)
	assert.Equal(t, "birth_date", vErr.Violations[0].Field)
}

func TestEvaluateMilestonesOneStatePerEntry(t *testing.T) {
	svc := newMilestoneService(t)

	states, err := svc.EvaluateMilestones(day(2024, time.January, 15), day(2024, time.February, 20))
	require.NoError(t, err)
	require.Len(t, states, len(svc.Schedule()))

	seen := make(map[string]bool)
	for _, s := range states {
		assert.False(t, seen[s.Type], "duplicate state for %s", s.Type)
		seen[s.Type] = true
	}
}

func TestEvaluateMilestonesFiveWeekOld(t *testing.T) {
	svc := newMilestoneService(t)

	// 36 days old: newborn window closed, three-month mark still ahead
	states, err := svc.EvaluateMilestones(day(2024, time.January, 15), day(2024, time.February, 20))
	require.NoError(t, err)

	assert.Equal(t, MilestoneCompleted, stateByType(t, states, "newborn").Status)
	assert.Equal(t, MilestoneUpcoming, stateByType(t, states, "3month").Status)
	assert.Equal(t, MilestoneUpcoming, stateByType(t, states, "1year").Status)
}

func TestEvaluateMilestonesSixMonthWindow(t *testing.T) {
	svc := newMilestoneService(t)

	// Born Jan 8, evaluated Jul 20: 194 days old. The six-month anniversary
	// is Jul 8 (day 182), so with the 14-day grace the window runs through
	// Jul 22 and the milestone is still open.
	states, err := svc.EvaluateMilestones(day(2024, time.January, 8), day(2024, time.July, 20))
	require.NoError(t, err)

	six := stateByType(t, states, "6month")
	assert.Equal(t, 182, six.TargetAgeDays)
	assert.Equal(t, day(2024, time.July, 8), six.TargetDate)
	assert.Equal(t, MilestoneDueNow, six.Status)

	assert.Equal(t, MilestoneCompleted, stateByType(t, states, "3month").Status)
	assert.Equal(t, MilestoneUpcoming, stateByType(t, states, "9month").Status)
}

func TestMilestoneWindowBoundsAreInclusive(t *testing.T) {
	svc := newMilestoneService(t)
	birth := day(2024, time.January, 8)
	sixMonthMark := day(2024, time.July, 8)
	grace := svc.GraceDays()

	lower := sixMonthMark.AddDate(0, 0, -grace)
	upper := sixMonthMark.AddDate(0, 0, grace)

	for _, asOf := range []time.Time{lower, sixMonthMark, upper} {
		states, err := svc.EvaluateMilestones(birth, asOf)
		require.NoError(t, err)
		assert.Equal(t, MilestoneDueNow, stateByType(t, states, "6month").Status, "asOf %s", asOf)
	}

	states, err := svc.EvaluateMilestones(birth, lower.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, MilestoneUpcoming, stateByType(t, states, "6month").Status)

	states, err = svc.EvaluateMilestones(birth, upper.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, MilestoneCompleted, stateByType(t, states, "6month").Status)
}

func TestEvaluateMilestonesIsIdempotent(t *testing.T) {
	svc := newMilestoneService(t)
	birth := day(2024, time.January, 8)
	asOf := day(2024, time.July, 20)

	first, err := svc.EvaluateMilestones(birth, asOf)
	require.NoError(t, err)
	second, err := svc.EvaluateMilestones(birth, asOf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNextMilestone(t *testing.T) {
	svc := newMilestoneService(t)

	next, err := svc.NextMilestone(day(2024, time.January, 15), day(2024, time.February, 20))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "3month", next.Type)

	// A three-year-old has graduated past the whole schedule
	next, err = svc.NextMilestone(day(2021, time.May, 1), day(2024, time.May, 20))
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestDueNowMilestones(t *testing.T) {
	svc := newMilestoneService(t)

	// Ten days old: the newborn window is open, nothing else
	due, err := svc.DueNowMilestones(day(2024, time.March, 1), day(2024, time.March, 11))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "newborn", due[0].Type)

	due, err = svc.DueNowMilestones(day(2024, time.January, 15), day(2024, time.February, 20))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestGestationalWeek(t *testing.T) {
	svc := newMilestoneService(t)

	// Twelve weeks before the due date puts the pregnancy at week 28
	week := svc.GestationalWeek(day(2024, time.September, 1), day(2024, time.June, 9))
	assert.InDelta(t, 28.0, week, 0.001)

	week = svc.GestationalWeek(day(2024, time.September, 1), day(2024, time.September, 1))
	assert.InDelta(t, 40.0, week, 0.001)
}
