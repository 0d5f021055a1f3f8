package models

import (
	"time"

	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	StudioID uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null"`

	// Optional catalog reference; kept after package deactivation for
	// historical integrity.
	PackageID *uuid.UUID `gorm:"type:uuid;index"`

	BookingRef  string `gorm:"uniqueIndex;not null"`
	ClientName  string `gorm:"not null"`
	ClientEmail string

	StartTime       time.Time `gorm:"index;not null"`
	EndTime         time.Time
	DurationMinutes int    `gorm:"default:60"`
	SessionType     string // newborn, maternity, milestone, birthday, family
	MilestoneType   string // which milestone this session captures, if any

	SessionFee        float64 `gorm:"type:decimal(10,2);default:0.0"`
	AdditionalCharges float64 `gorm:"type:decimal(10,2);default:0.0"`
	Discount          float64 `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount       float64 `gorm:"type:decimal(10,2);default:0.0"`
	PaymentStatus     string  `gorm:"type:varchar(20);default:'unpaid'"` // paid, unpaid, partial

	Status AppointmentStatus `gorm:"type:varchar(20);default:'confirmed'"`
	Notes  string

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.EndTime.IsZero() {
		a.EndTime = a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
	}
	return
}

// DaysUntil counts whole days between now and the session start.
func (a *Appointment) DaysUntil(now time.Time) int {
	return utils.DaysBetween(now, a.StartTime)
}

// ReminderKey buckets the appointment into the studio's reminder ladder.
func (a *Appointment) ReminderKey(now time.Time) string {
	days := a.DaysUntil(now)
	switch {
	case days >= 14:
		return "reminder_2weeks"
	case days >= 7:
		return "reminder_1week"
	case days >= 3:
		return "reminder_3days"
	case days >= 2:
		return "reminder_2days"
	case days >= 1:
		return "reminder_1day"
	default:
		return "reminder_same_day"
	}
}
