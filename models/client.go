package models

import (
	"time"

	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyType describes where a client's family is in the baby timeline. It
// drives which package categories the recommendation engine considers.
type FamilyType string

const (
	FamilyExpecting FamilyType = "expecting"
	FamilyNewborn   FamilyType = "newborn"
	FamilyBaby      FamilyType = "baby"
	FamilyToddler   FamilyType = "toddler"
	FamilyMultiple  FamilyType = "multiple_children"
)

// ValidFamilyTypes returns every accepted family type.
func ValidFamilyTypes() []FamilyType {
	return []FamilyType{FamilyExpecting, FamilyNewborn, FamilyBaby, FamilyToddler, FamilyMultiple}
}

// IsValidFamilyType checks a raw string against the accepted family types.
func IsValidFamilyType(s string) bool {
	for _, t := range ValidFamilyTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudioID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"not null;uniqueIndex:idx_studio_phone,priority:2"`
	Email   string
	Address string
	Notes   string

	FamilyType FamilyType `gorm:"type:varchar(20);not null"`
	DueDate    *time.Time
	Children   ChildList  `gorm:"type:jsonb;default:'[]'"`
	Tags       StringList `gorm:"type:jsonb;default:'[]'"`

	ReferralSource    string
	TotalAppointments int     `gorm:"default:0"`
	TotalSpent        float64 `gorm:"type:decimal(10,2);default:0.0"`
	LastAppointment   *time.Time

	// Archive flag. Clients are never hard-deleted while appointments
	// reference them.
	IsActive bool `gorm:"default:true"`

	gorm.Model
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// IsExpecting reports whether the client is still awaiting a birth.
func (c *Client) IsExpecting() bool {
	return c.FamilyType == FamilyExpecting
}

// Validate enforces the family invariants: expecting requires a due date,
// every other family type requires at least one child with a birth date.
// All violations are collected so the caller can fix them in one pass.
func (c *Client) Validate() error {
	v := &utils.ValidationError{}

	if c.Name == "" {
		v.Add("name", "is required", c.Name)
	}
	if !IsValidFamilyType(string(c.FamilyType)) {
		v.Add("family_type", "must be one of expecting, newborn, baby, toddler, multiple_children", string(c.FamilyType))
	}

	switch c.FamilyType {
	case FamilyExpecting:
		if c.DueDate == nil {
			v.Add("due_date", "is required for expecting clients", nil)
		}
	case FamilyNewborn, FamilyBaby, FamilyToddler, FamilyMultiple:
		if len(c.Children) == 0 {
			v.Add("children", "at least one child is required", nil)
		}
		for _, child := range c.Children {
			if child.BirthDate.IsZero() {
				v.Add("children", "every child needs a birth date", child.Name)
			}
		}
	}

	if v.HasViolations() {
		return v
	}
	return nil
}

// RecordBirth transitions an expecting client to newborn: the due date is
// cleared and the child is appended. Non-expecting clients just gain a child.
func (c *Client) RecordBirth(child Child) {
	c.Children = append(c.Children, child)
	if c.FamilyType == FamilyExpecting {
		c.FamilyType = FamilyNewborn
		c.DueDate = nil
	}
}

// ChildrenNames returns the children's names in record order.
func (c *Client) ChildrenNames() []string {
	names := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		names = append(names, child.Name)
	}
	return names
}
