// services/milestone_service.go
package services

import (
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/utils"
)

type MilestoneStatus string

const (
	MilestoneUpcoming  MilestoneStatus = "upcoming"
	MilestoneDueNow    MilestoneStatus = "due_now"
	MilestoneCompleted MilestoneStatus = "completed"
)

// Age is a child's age broken into the units the studio talks in.
type Age struct {
	Days   int `json:"days"`
	Weeks  int `json:"weeks"`
	Months int `json:"months"`
}

// MilestoneState is the derived status of one schedule entry for one child.
// It is computed on demand and never persisted.
type MilestoneState struct {
	Type          string          `json:"type"`
	TargetAgeDays int             `json:"targetAgeDays"`
	TargetDate    time.Time       `json:"targetDate"`
	AgeInDays     int             `json:"ageInDays"`
	Status        MilestoneStatus `json:"status"`
	ChildName     string          `json:"childName,omitempty"`
}

// MilestoneService turns birth dates into age measures and milestone states.
// All methods are pure over the injected schedule; identical inputs always
// produce identical output.
type MilestoneService struct {
	schedule *config.MilestoneSchedule
}

func NewMilestoneService(schedule *config.MilestoneSchedule) *MilestoneService {
	return &MilestoneService{schedule: schedule}
}

// Schedule returns a copy of the configured schedule entries.
func (s *MilestoneService) Schedule() []config.MilestoneEntry {
	entries := make([]config.MilestoneEntry, len(s.schedule.Entries))
	copy(entries, s.schedule.Entries)
	return entries
}

// GraceDays exposes the configured grace window.
func (s *MilestoneService) GraceDays() int {
	return s.schedule.GraceDays
}

// DefaultTopN exposes the configured recommendation count.
func (s *MilestoneService) DefaultTopN() int {
	return s.schedule.DefaultTopN
}

// ComputeAge measures a born child's age at asOf. A birth date after asOf is
// a data-entry error, surfaced as a recoverable validation error.
func (s *MilestoneService) ComputeAge(birthDate, asOf time.Time) (Age, error) {
	days := utils.DaysBetween(birthDate, asOf)
	if days < 0 {
		v := &utils.ValidationError{}
		v.Add("birth_date", "must not be after the reference date", birthDate.Format("2006-01-02"))
		return Age{}, v
	}
	return Age{
		Days:   days,
		Weeks:  days / 7,
		Months: utils.CalendarMonthsBetween(birthDate, asOf),
	}, nil
}

// WeeksUntilDue measures the remaining pregnancy in fractional weeks.
func (s *MilestoneService) WeeksUntilDue(dueDate, asOf time.Time) float64 {
	return utils.WeeksUntil(asOf, dueDate)
}

// GestationalWeek derives the current week of pregnancy from the due date.
func (s *MilestoneService) GestationalWeek(dueDate, asOf time.Time) float64 {
	return float64(s.schedule.GestationWeeks) - s.WeeksUntilDue(dueDate, asOf)
}

// EvaluateMilestones returns exactly one state per schedule entry. The
// due_now window is [target-grace, target+grace], both bounds inclusive;
// completed means strictly past the upper bound. Overlapping windows can
// yield several due_now entries at once; none are suppressed here.
func (s *MilestoneService) EvaluateMilestones(birthDate, asOf time.Time) ([]MilestoneState, error) {
	ageDays := utils.DaysBetween(birthDate, asOf)
	if ageDays < 0 {
		v := &utils.ValidationError{}
		v.Add("birth_date", "must not be after the reference date", birthDate.Format("2006-01-02"))
		return nil, v
	}

	grace := s.schedule.GraceDays
	states := make([]MilestoneState, 0, len(s.schedule.Entries))
	for _, entry := range s.schedule.Entries {
		targetDate := s.targetDate(birthDate, entry)
		targetAge := utils.DaysBetween(birthDate, targetDate)

		status := MilestoneUpcoming
		switch {
		case ageDays > targetAge+grace:
			status = MilestoneCompleted
		case ageDays >= targetAge-grace:
			status = MilestoneDueNow
		}

		states = append(states, MilestoneState{
			Type:          entry.Type,
			TargetAgeDays: targetAge,
			TargetDate:    targetDate,
			AgeInDays:     ageDays,
			Status:        status,
		})
	}
	return states, nil
}

// NextMilestone returns the earliest non-completed entry, or nil when the
// child has graduated past the whole schedule.
func (s *MilestoneService) NextMilestone(birthDate, asOf time.Time) (*MilestoneState, error) {
	states, err := s.EvaluateMilestones(birthDate, asOf)
	if err != nil {
		return nil, err
	}
	for i := range states {
		if states[i].Status != MilestoneCompleted {
			return &states[i], nil
		}
	}
	return nil, nil
}

// DueNowMilestones filters the evaluation down to the currently open
// windows.
func (s *MilestoneService) DueNowMilestones(birthDate, asOf time.Time) ([]MilestoneState, error) {
	states, err := s.EvaluateMilestones(birthDate, asOf)
	if err != nil {
		return nil, err
	}
	var due []MilestoneState
	for _, st := range states {
		if st.Status == MilestoneDueNow {
			due = append(due, st)
		}
	}
	return due, nil
}

// Monthly milestones land on the calendar anniversary; day-offset entries
// (the newborn window) use a plain day count.
func (s *MilestoneService) targetDate(birthDate time.Time, entry config.MilestoneEntry) time.Time {
	if entry.Months > 0 {
		return utils.AddCalendarMonths(birthDate, entry.Months)
	}
	return utils.BeginningOfDay(birthDate).AddDate(0, 0, entry.TargetAgeDays)
}
