package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderTemplate holds the studio's outgoing message text per reminder
// type. Types: session (appointment ladder) and milestone (outreach when a
// child's milestone window opens). Placeholders: [ClientName], [ChildName],
// [SessionType], [Milestone], [Date].
type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	StudioID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type     string    `gorm:"type:varchar(20);not null"` // session, milestone
	Message  string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"default:true"`
	gorm.Model
}
