package services

import (
	"testing"

	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog() (*CatalogService, *MemoryCatalogStore) {
	store := NewMemoryCatalogStore()
	return NewCatalogService(store), store
}

func validPackage(name string) *models.Package {
	return &models.Package{
		StudioID:        uuid.New(),
		Name:            name,
		Category:        models.CategoryNewborn,
		BasePrice:       450,
		DurationMinutes: 120,
		RecommendedAge:  "5-14 days",
		IsActive:        true,
	}
}

func TestAddRejectsInvalidPackageWithAllViolations(t *testing.T) {
	svc, _ := newCatalog()

	bad := &models.Package{
		Name:            "",
		Category:        "portrait",
		BasePrice:       -50,
		DurationMinutes: 0,
	}
	_, err := svc.Add(bad)
	require.Error(t, err)

	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := make(map[string]bool)
	for _, violation := range vErr.Violations {
		fields[violation.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["category"])
	assert.True(t, fields["base_price"])
	assert.True(t, fields["duration_minutes"])
}

func TestAddRejectsCustomizationFieldsOnFixedPackage(t *testing.T) {
	svc, _ := newCatalog()

	p := validPackage("Newborn Mini")
	p.IsCustomizable = false
	p.CustomizableFields = models.StringList{"base_price"}
	p.PriceRanges = models.PriceRangeMap{"base_price": {Min: 100, Max: 200}}

	_, err := svc.Add(p)
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAddRejectsBasePriceOutsideOwnRange(t *testing.T) {
	svc, _ := newCatalog()

	p := validPackage("Newborn Deluxe")
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"base_price"}
	p.PriceRanges = models.PriceRangeMap{"base_price": {Min: 500, Max: 800}}
	p.BasePrice = 450

	_, err := svc.Add(p)
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestGetUnknownPackageReturnsNotFound(t *testing.T) {
	svc, _ := newCatalog()

	_, err := svc.Get(uuid.New())
	var nfErr *utils.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "package", nfErr.Resource)
}

func TestListOrderIsDeterministic(t *testing.T) {
	svc, _ := newCatalog()

	plain := validPackage("Bravo")
	plain.DisplayOrder = 2
	alpha := validPackage("Alpha")
	alpha.DisplayOrder = 2
	featured := validPackage("Zulu")
	featured.IsFeatured = true
	featured.DisplayOrder = 9
	early := validPackage("Mike")
	early.DisplayOrder = 1

	for _, p := range []*models.Package{plain, alpha, featured, early} {
		_, err := svc.Add(p)
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		listed, err := svc.List(PackageFilter{ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, listed, 4)
		// Featured first, then display order, then name
		assert.Equal(t, "Zulu", listed[0].Name)
		assert.Equal(t, "Mike", listed[1].Name)
		assert.Equal(t, "Alpha", listed[2].Name)
		assert.Equal(t, "Bravo", listed[3].Name)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	svc, _ := newCatalog()

	p := validPackage("Newborn Classic")
	id, err := svc.Add(p)
	require.NoError(t, err)

	listed, err := svc.List(PackageFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	newName := "Renamed"
	_, err = svc.Update(id, UpdatePackageInput{Name: &newName})
	require.NoError(t, err)

	// The earlier listing is unaffected by the rename
	assert.Equal(t, "Newborn Classic", listed[0].Name)
}

func TestUpdateBumpsVersionAndMergesPartialInput(t *testing.T) {
	svc, _ := newCatalog()

	p := validPackage("Newborn Classic")
	id, err := svc.Add(p)
	require.NoError(t, err)

	price := 500.0
	updated, err := svc.Update(id, UpdatePackageInput{BasePrice: &price})
	require.NoError(t, err)

	assert.Equal(t, 500.0, updated.BasePrice)
	assert.Equal(t, "Newborn Classic", updated.Name)
	assert.Equal(t, 2, updated.Version)
}

func TestStaleVersionSaveIsRejected(t *testing.T) {
	svc, store := newCatalog()

	p := validPackage("Newborn Classic")
	id, err := svc.Add(p)
	require.NoError(t, err)

	name := "First writer"
	_, err = svc.Update(id, UpdatePackageInput{Name: &name})
	require.NoError(t, err)

	// A writer still holding version 1 loses
	stale := *p
	stale.Name = "Second writer"
	stale.Version = 2
	ok, err := store.Save(&stale, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	current, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "First writer", current.Name)
}

func TestUpdateRefusesToOrphanCustomizations(t *testing.T) {
	svc, store := newCatalog()

	p := validPackage("Newborn Deluxe")
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"base_price", "notes"}
	p.PriceRanges = models.PriceRangeMap{"base_price": {Min: 400, Max: 600}}
	id, err := svc.Add(p)
	require.NoError(t, err)

	override := 550.0
	require.NoError(t, store.SaveCustomization(&models.PackageCustomization{
		StudioID:      p.StudioID,
		PackageID:     id,
		ClientID:      uuid.New(),
		PriceOverride: &override,
	}))

	// Dropping base_price would orphan the stored override
	narrowed := models.StringList{"notes"}
	_, err = svc.Update(id, UpdatePackageInput{
		CustomizableFields: &narrowed,
		PriceRanges:        &models.PriceRangeMap{},
	})
	var cErr *utils.ConflictError
	require.ErrorAs(t, err, &cErr)

	// Dropping only notes is fine; nothing overrides it
	kept := models.StringList{"base_price"}
	_, err = svc.Update(id, UpdatePackageInput{CustomizableFields: &kept})
	require.NoError(t, err)
}

func TestDeleteGuardedByReferences(t *testing.T) {
	svc, store := newCatalog()

	p := validPackage("Newborn Classic")
	id, err := svc.Add(p)
	require.NoError(t, err)

	store.AddAppointmentRef(id)

	err = svc.Delete(id)
	var cErr *utils.ConflictError
	require.ErrorAs(t, err, &cErr)

	// Still retrievable after the refused delete
	_, err = svc.Get(id)
	require.NoError(t, err)
}

func TestDeleteGuardedByCustomizations(t *testing.T) {
	svc, store := newCatalog()

	p := validPackage("Newborn Deluxe")
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"notes"}
	id, err := svc.Add(p)
	require.NoError(t, err)

	require.NoError(t, store.SaveCustomization(&models.PackageCustomization{
		PackageID: id,
		ClientID:  uuid.New(),
		Notes:     "include sibling shots",
	}))

	err = svc.Delete(id)
	var cErr *utils.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestDeleteUnreferencedPackage(t *testing.T) {
	svc, _ := newCatalog()

	id, err := svc.Add(validPackage("Newborn Classic"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(id))

	_, err = svc.Get(id)
	var nfErr *utils.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestDeactivateHidesFromActiveListingOnly(t *testing.T) {
	svc, _ := newCatalog()

	id, err := svc.Add(validPackage("Newborn Classic"))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(id))

	active, err := svc.List(PackageFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(PackageFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Direct fetch keeps working for historical references
	p, err := svc.Get(id)
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	require.NoError(t, svc.Reactivate(id))
	active, err = svc.List(PackageFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
