package models

import (
	"fmt"

	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageCategory classifies a bookable session offering.
type PackageCategory string

const (
	CategoryNewborn   PackageCategory = "newborn"
	CategoryMaternity PackageCategory = "maternity"
	CategoryMilestone PackageCategory = "milestone"
	CategoryBirthday  PackageCategory = "birthday"
	CategoryFamily    PackageCategory = "family"
)

// ValidPackageCategories returns every accepted category.
func ValidPackageCategories() []PackageCategory {
	return []PackageCategory{CategoryNewborn, CategoryMaternity, CategoryMilestone, CategoryBirthday, CategoryFamily}
}

// IsValidPackageCategory checks a raw string against the accepted categories.
func IsValidPackageCategory(s string) bool {
	for _, c := range ValidPackageCategories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

type Package struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	StudioID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name            string          `gorm:"not null"`
	Description     string
	Category        PackageCategory `gorm:"type:varchar(20);not null"`
	BasePrice       float64         `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int             `gorm:"not null"`

	IsCustomizable     bool
	Includes           StringList    `gorm:"type:jsonb;default:'[]'"`
	AddOns             AddOnList     `gorm:"type:jsonb;default:'[]'"`
	Requirements       StringList    `gorm:"type:jsonb;default:'[]'"`
	RecommendedAge     string        // free-text range, e.g. "5-14 days"
	RecommendedWeeks   string        // maternity, e.g. "28-36 weeks"
	CustomizableFields StringList    `gorm:"type:jsonb;default:'[]'"`
	PriceRanges        PriceRangeMap `gorm:"type:jsonb;default:'{}'"`

	IsActive     bool `gorm:"default:true"`
	IsFeatured   bool `gorm:"default:false"`
	DisplayOrder int  `gorm:"default:0"`

	// Bumped on every update; concurrent writers lose with a conflict
	// instead of silently overwriting each other.
	Version int `gorm:"default:1"`

	gorm.Model
}

func (p *Package) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Validate checks every catalog invariant and reports all violations at once.
func (p *Package) Validate() error {
	v := &utils.ValidationError{}

	if p.Name == "" {
		v.Add("name", "is required", p.Name)
	}
	if !IsValidPackageCategory(string(p.Category)) {
		v.Add("category", "must be one of newborn, maternity, milestone, birthday, family", string(p.Category))
	}
	if p.BasePrice < 0 {
		v.Add("base_price", "must not be negative", p.BasePrice)
	}
	if p.DurationMinutes <= 0 {
		v.Add("duration_minutes", "must be positive", p.DurationMinutes)
	}

	if !p.IsCustomizable {
		if len(p.CustomizableFields) > 0 {
			v.Add("customizable_fields", "must be empty when the package is not customizable", p.CustomizableFields)
		}
		if len(p.PriceRanges) > 0 {
			v.Add("price_ranges", "must be empty when the package is not customizable", nil)
		}
	}

	for field, r := range p.PriceRanges {
		if !p.CustomizableFields.Contains(field) {
			v.Add("price_ranges", fmt.Sprintf("range declared for %q which is not a customizable field", field), field)
		}
		if r.Min > r.Max {
			v.Add("price_ranges", fmt.Sprintf("min exceeds max for %q", field), r)
		}
	}

	if r, ok := p.PriceRanges["base_price"]; ok && r.Min <= r.Max {
		if p.BasePrice < r.Min || p.BasePrice > r.Max {
			v.Add("base_price", fmt.Sprintf("must fall within its declared range %.2f-%.2f", r.Min, r.Max), p.BasePrice)
		}
	}

	if v.HasViolations() {
		return v
	}
	return nil
}
