// services/memory_store.go
package services

import (
	"sync"

	"snapstudio-backend/models"

	"github.com/google/uuid"
)

// MemoryCatalogStore is a complete in-process CatalogStore. It backs the
// test suite and catalog seeding; everything it hands out is a copy, so
// in-flight listings never observe later mutation.
type MemoryCatalogStore struct {
	mu              sync.RWMutex
	packages        map[uuid.UUID]models.Package
	customizations  map[uuid.UUID]models.PackageCustomization
	appointmentRefs map[uuid.UUID]int64
}

func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{
		packages:        make(map[uuid.UUID]models.Package),
		customizations:  make(map[uuid.UUID]models.PackageCustomization),
		appointmentRefs: make(map[uuid.UUID]int64),
	}
}

func (s *MemoryCatalogStore) Insert(p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.packages[p.ID] = *p
	return nil
}

func (s *MemoryCatalogStore) FindByID(id uuid.UUID) (*models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packages[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryCatalogStore) FindAll(filter PackageFilter) ([]models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var packages []models.Package
	for _, p := range s.packages {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		packages = append(packages, p)
	}
	return packages, nil
}

func (s *MemoryCatalogStore) Save(p *models.Package, expectedVersion int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.packages[p.ID]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	s.packages[p.ID] = *p
	return true, nil
}

func (s *MemoryCatalogStore) DeleteByID(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.packages, id)
	return nil
}

func (s *MemoryCatalogStore) CountAppointmentRefs(packageID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointmentRefs[packageID], nil
}

// AddAppointmentRef registers a booking against a package so the delete
// guard sees it.
func (s *MemoryCatalogStore) AddAppointmentRef(packageID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointmentRefs[packageID]++
}

func (s *MemoryCatalogStore) FindCustomizationsByPackage(packageID uuid.UUID) ([]models.PackageCustomization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PackageCustomization
	for _, c := range s.customizations {
		if c.PackageID == packageID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryCatalogStore) FindCustomization(clientID, packageID uuid.UUID) (*models.PackageCustomization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customizations {
		if c.ClientID == clientID && c.PackageID == packageID {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryCatalogStore) SaveCustomization(c *models.PackageCustomization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	// One customization per (client, package); saving again replaces it.
	for id, existing := range s.customizations {
		if existing.ClientID == c.ClientID && existing.PackageID == c.PackageID {
			delete(s.customizations, id)
			break
		}
	}
	s.customizations[c.ID] = *c
	return nil
}
