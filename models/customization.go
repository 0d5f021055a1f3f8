package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageCustomization is a per-client overlay on a catalog package. The
// catalog row itself is never mutated; many clients can customize the same
// package independently.
type PackageCustomization struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	StudioID  uuid.UUID `gorm:"type:uuid;index;not null"`
	PackageID uuid.UUID `gorm:"type:uuid;index;not null"`
	ClientID  uuid.UUID `gorm:"type:uuid;index:idx_client_package,priority:1;not null"`

	PriceOverride    *float64 `gorm:"type:decimal(10,2)"`
	DurationOverride *int
	Notes            string `gorm:"type:text"`

	gorm.Model
}

func (pc *PackageCustomization) BeforeCreate(tx *gorm.DB) (err error) {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	return
}

// OverriddenFields lists the package fields this customization touches.
func (pc *PackageCustomization) OverriddenFields() []string {
	var fields []string
	if pc.PriceOverride != nil {
		fields = append(fields, "base_price")
	}
	if pc.DurationOverride != nil {
		fields = append(fields, "duration_minutes")
	}
	if pc.Notes != "" {
		fields = append(fields, "notes")
	}
	return fields
}
