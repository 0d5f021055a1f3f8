// services/catalog_service.go
package services

import (
	"errors"
	"sort"

	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageFilter narrows a catalog listing.
type PackageFilter struct {
	Category     *models.PackageCategory
	ActiveOnly   bool
	FeaturedOnly bool
}

// CatalogStore is the persistence boundary for the package catalog. The
// gorm-backed store serves production; the in-memory store serves tests and
// seeding. Stores return (nil, nil) for a missing record; the service turns
// that into a NotFoundError.
type CatalogStore interface {
	Insert(p *models.Package) error
	FindByID(id uuid.UUID) (*models.Package, error)
	FindAll(filter PackageFilter) ([]models.Package, error)
	// Save persists p only when the stored version still equals
	// expectedVersion; returns false on a lost race.
	Save(p *models.Package, expectedVersion int) (bool, error)
	DeleteByID(id uuid.UUID) error
	CountAppointmentRefs(packageID uuid.UUID) (int64, error)
	FindCustomizationsByPackage(packageID uuid.UUID) ([]models.PackageCustomization, error)
	FindCustomization(clientID, packageID uuid.UUID) (*models.PackageCustomization, error)
	SaveCustomization(c *models.PackageCustomization) error
}

// UpdatePackageInput is a partial update; nil fields keep their current
// value.
type UpdatePackageInput struct {
	Name               *string
	Description        *string
	Category           *models.PackageCategory
	BasePrice          *float64
	DurationMinutes    *int
	IsCustomizable     *bool
	Includes           *models.StringList
	AddOns             *models.AddOnList
	Requirements       *models.StringList
	RecommendedAge     *string
	RecommendedWeeks   *string
	CustomizableFields *models.StringList
	PriceRanges        *models.PriceRangeMap
	IsFeatured         *bool
	DisplayOrder       *int
}

// CatalogService owns the package catalog: validation, listing order,
// optimistic updates and the referential delete guard. It is injected where
// needed rather than reached through a global.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Store exposes the underlying store for collaborators that share it.
func (s *CatalogService) Store() CatalogStore {
	return s.store
}

// Add validates the full invariant set and inserts the package.
func (s *CatalogService) Add(p *models.Package) (uuid.UUID, error) {
	if err := p.Validate(); err != nil {
		return uuid.Nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Version = 1
	if err := s.store.Insert(p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// Get fetches a package by id. Deactivated packages stay retrievable so
// historical appointments keep their reference.
func (s *CatalogService) Get(id uuid.UUID) (*models.Package, error) {
	p, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &utils.NotFoundError{Resource: "package", ID: id.String()}
	}
	return p, nil
}

// List returns a snapshot of the catalog ordered by featured first, then
// display order, then name. The returned slice is independent of any later
// catalog mutation.
func (s *CatalogService) List(filter PackageFilter) ([]models.Package, error) {
	packages, err := s.store.FindAll(filter)
	if err != nil {
		return nil, err
	}
	SortPackages(packages)
	return packages, nil
}

// Update merges the partial input, re-validates the merged record, refuses
// to orphan existing customizations, and saves under a version check.
func (s *CatalogService) Update(id uuid.UUID, input UpdatePackageInput) (*models.Package, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	before := p.CustomizableFields

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.BasePrice != nil {
		p.BasePrice = *input.BasePrice
	}
	if input.DurationMinutes != nil {
		p.DurationMinutes = *input.DurationMinutes
	}
	if input.IsCustomizable != nil {
		p.IsCustomizable = *input.IsCustomizable
		if !p.IsCustomizable {
			p.CustomizableFields = models.StringList{}
			p.PriceRanges = models.PriceRangeMap{}
		}
	}
	if input.Includes != nil {
		p.Includes = *input.Includes
	}
	if input.AddOns != nil {
		p.AddOns = *input.AddOns
	}
	if input.Requirements != nil {
		p.Requirements = *input.Requirements
	}
	if input.RecommendedAge != nil {
		p.RecommendedAge = *input.RecommendedAge
	}
	if input.RecommendedWeeks != nil {
		p.RecommendedWeeks = *input.RecommendedWeeks
	}
	if input.CustomizableFields != nil {
		p.CustomizableFields = *input.CustomizableFields
	}
	if input.PriceRanges != nil {
		p.PriceRanges = *input.PriceRanges
	}
	if input.IsFeatured != nil {
		p.IsFeatured = *input.IsFeatured
	}
	if input.DisplayOrder != nil {
		p.DisplayOrder = *input.DisplayOrder
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Narrowing customizable_fields must not orphan live customizations;
	// those have to be resolved by the caller first.
	removed := removedFields(before, p.CustomizableFields)
	if len(removed) > 0 {
		customizations, err := s.store.FindCustomizationsByPackage(id)
		if err != nil {
			return nil, err
		}
		for _, c := range customizations {
			for _, field := range c.OverriddenFields() {
				for _, r := range removed {
					if field == r {
						return nil, &utils.ConflictError{
							Resource: "package",
							Reason:   "existing client customization still overrides field " + field,
						}
					}
				}
			}
		}
	}

	expected := p.Version
	p.Version = expected + 1
	ok, err := s.store.Save(p, expected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.ConflictError{Resource: "package", Reason: "record was modified concurrently, re-read and retry"}
	}
	return p, nil
}

// Deactivate hides the package from active listings without breaking
// existing references.
func (s *CatalogService) Deactivate(id uuid.UUID) error {
	return s.setActive(id, false)
}

// Reactivate puts the package back into active listings.
func (s *CatalogService) Reactivate(id uuid.UUID) error {
	return s.setActive(id, true)
}

func (s *CatalogService) setActive(id uuid.UUID, active bool) error {
	p, err := s.Get(id)
	if err != nil {
		return err
	}
	if p.IsActive == active {
		return nil
	}
	p.IsActive = active
	expected := p.Version
	p.Version = expected + 1
	ok, err := s.store.Save(p, expected)
	if err != nil {
		return err
	}
	if !ok {
		return &utils.ConflictError{Resource: "package", Reason: "record was modified concurrently, re-read and retry"}
	}
	return nil
}

// Delete hard-deletes a package. Anything still referencing it blocks the
// delete; the caller should deactivate instead.
func (s *CatalogService) Delete(id uuid.UUID) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	refs, err := s.store.CountAppointmentRefs(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &utils.ConflictError{Resource: "package", Reason: "appointments reference this package, deactivate instead"}
	}
	customizations, err := s.store.FindCustomizationsByPackage(id)
	if err != nil {
		return err
	}
	if len(customizations) > 0 {
		return &utils.ConflictError{Resource: "package", Reason: "client customizations reference this package, deactivate instead"}
	}
	return s.store.DeleteByID(id)
}

// SortPackages applies the catalog's deterministic listing order:
// is_featured desc, display_order asc, name asc.
func SortPackages(packages []models.Package) {
	sort.SliceStable(packages, func(i, j int) bool {
		if packages[i].IsFeatured != packages[j].IsFeatured {
			return packages[i].IsFeatured
		}
		if packages[i].DisplayOrder != packages[j].DisplayOrder {
			return packages[i].DisplayOrder < packages[j].DisplayOrder
		}
		return packages[i].Name < packages[j].Name
	})
}

func removedFields(before, after models.StringList) []string {
	var removed []string
	for _, f := range before {
		if !after.Contains(f) {
			removed = append(removed, f)
		}
	}
	return removed
}

// GormCatalogStore persists the catalog through the shared gorm connection.
type GormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

func (s *GormCatalogStore) Insert(p *models.Package) error {
	return s.db.Create(p).Error
}

func (s *GormCatalogStore) FindByID(id uuid.UUID) (*models.Package, error) {
	var p models.Package
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormCatalogStore) FindAll(filter PackageFilter) ([]models.Package, error) {
	query := s.db.Model(&models.Package{})
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	var packages []models.Package
	if err := query.Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *GormCatalogStore) Save(p *models.Package, expectedVersion int) (bool, error) {
	result := s.db.Model(&models.Package{}).
		Where("id = ? AND version = ?", p.ID, expectedVersion).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(p)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormCatalogStore) DeleteByID(id uuid.UUID) error {
	// Deactivation is the soft path; delete really deletes.
	return s.db.Unscoped().Delete(&models.Package{}, "id = ?", id).Error
}

func (s *GormCatalogStore) CountAppointmentRefs(packageID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Appointment{}).Where("package_id = ?", packageID).Count(&count).Error
	return count, err
}

func (s *GormCatalogStore) FindCustomizationsByPackage(packageID uuid.UUID) ([]models.PackageCustomization, error) {
	var customizations []models.PackageCustomization
	err := s.db.Where("package_id = ?", packageID).Find(&customizations).Error
	return customizations, err
}

func (s *GormCatalogStore) FindCustomization(clientID, packageID uuid.UUID) (*models.PackageCustomization, error) {
	var c models.PackageCustomization
	if err := s.db.Where("client_id = ? AND package_id = ?", clientID, packageID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *GormCatalogStore) SaveCustomization(c *models.PackageCustomization) error {
	return s.db.Save(c).Error
}
