package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// MilestoneEntry is one row of the milestone schedule. Months drives the
// calendar-month target date; entries with Months == 0 use TargetAgeDays as
// a plain day offset from the birth date.
type MilestoneEntry struct {
	Type          string `json:"type"`
	Months        int    `json:"months"`
	TargetAgeDays int    `json:"targetAgeDays"`
}

// MilestoneSchedule is business-tunable timing data. It is loaded once at
// startup and injected into the services that need it; nothing below the
// config package reads it from a global.
type MilestoneSchedule struct {
	Entries        []MilestoneEntry `json:"entries"`
	GraceDays      int              `json:"graceDays"`
	DefaultTopN    int              `json:"defaultTopN"`
	GestationWeeks int              `json:"gestationWeeks"`
}

var Milestones *MilestoneSchedule

// DefaultMilestoneSchedule mirrors the studio's standard session timing:
// newborn within the first two weeks, then the 3/6/9/12 month marks.
func DefaultMilestoneSchedule() *MilestoneSchedule {
	return &MilestoneSchedule{
		Entries: []MilestoneEntry{
			{Type: "newborn", Months: 0, TargetAgeDays: 0},
			{Type: "3month", Months: 3, TargetAgeDays: 91},
			{Type: "6month", Months: 6, TargetAgeDays: 182},
			{Type: "9month", Months: 9, TargetAgeDays: 273},
			{Type: "1year", Months: 12, TargetAgeDays: 365},
		},
		GraceDays:      14,
		DefaultTopN:    5,
		GestationWeeks: 40,
	}
}

// LoadMilestoneSchedule reads MILESTONE_CONFIG (a JSON file path) when set,
// otherwise uses the built-in defaults. An invalid schedule is returned as an
// error so the caller can refuse to start.
func LoadMilestoneSchedule() error {
	schedule := DefaultMilestoneSchedule()

	if path := os.Getenv("MILESTONE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, schedule); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("Loaded milestone schedule from %s", path)
	}

	if err := schedule.Validate(); err != nil {
		return err
	}

	Milestones = schedule
	return nil
}

// Validate rejects schedules that would produce silently wrong age
// calculations.
func (s *MilestoneSchedule) Validate() error {
	if len(s.Entries) == 0 {
		return fmt.Errorf("milestone schedule has no entries")
	}
	seen := make(map[string]bool)
	prev := -1
	for _, entry := range s.Entries {
		if entry.Type == "" {
			return fmt.Errorf("milestone entry with empty type")
		}
		if seen[entry.Type] {
			return fmt.Errorf("duplicate milestone type %q", entry.Type)
		}
		seen[entry.Type] = true
		if entry.Months < 0 || entry.TargetAgeDays < 0 {
			return fmt.Errorf("milestone %q has a negative target age", entry.Type)
		}
		if entry.TargetAgeDays <= prev {
			return fmt.Errorf("milestone %q breaks ascending target order", entry.Type)
		}
		prev = entry.TargetAgeDays
	}
	if s.GraceDays < 0 {
		return fmt.Errorf("grace window must not be negative")
	}
	if s.DefaultTopN <= 0 {
		return fmt.Errorf("default recommendation count must be positive")
	}
	if s.GestationWeeks <= 0 {
		return fmt.Errorf("gestation length must be positive")
	}
	return nil
}
