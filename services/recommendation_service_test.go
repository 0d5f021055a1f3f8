package services

import (
	"testing"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommender(t *testing.T) (*RecommendationService, *CatalogService, *MemoryCatalogStore) {
	t.Helper()
	catalog, store := newCatalog()
	milestones := NewMilestoneService(config.DefaultMilestoneSchedule())
	return NewRecommendationService(catalog, milestones), catalog, store
}

func addPackage(t *testing.T, catalog *CatalogService, p *models.Package) uuid.UUID {
	t.Helper()
	id, err := catalog.Add(p)
	require.NoError(t, err)
	return id
}

func catalogPackage(name string, category models.PackageCategory) *models.Package {
	return &models.Package{
		StudioID:        uuid.New(),
		Name:            name,
		Category:        category,
		BasePrice:       400,
		DurationMinutes: 90,
		IsActive:        true,
	}
}

func newbornClient(birth time.Time) *models.Client {
	return &models.Client{
		ID:         uuid.New(),
		Name:       "Priya Shah",
		Phone:      "+14155550123",
		FamilyType: models.FamilyNewborn,
		Children:   models.ChildList{{Name: "Aarav", BirthDate: birth}},
		IsActive:   true,
	}
}

func TestRecommendNewbornRanksPreciseMatchFirst(t *testing.T) {
	svc, catalog, _ := newRecommender(t)
	asOf := day(2024, time.March, 11)

	precise := catalogPackage("Newborn Classic", models.CategoryNewborn)
	precise.RecommendedAge = "5-14 days"
	addPackage(t, catalog, precise)

	broad := catalogPackage("Newborn Open Studio", models.CategoryNewborn)
	addPackage(t, catalog, broad)

	family := catalogPackage("Family Lifestyle", models.CategoryFamily)
	addPackage(t, catalog, family)

	maternity := catalogPackage("Bump Session", models.CategoryMaternity)
	maternity.RecommendedWeeks = "28-36 weeks"
	addPackage(t, catalog, maternity)

	// Ten-day-old: newborn window open
	client := newbornClient(day(2024, time.March, 1))
	recs, err := svc.Recommend(client, asOf, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "Newborn Classic", recs[0].Package.Name)
	assert.Equal(t, scorePreciseMatch, recs[0].Score)
	assert.Equal(t, "Aarav", recs[0].ChildName)
	assert.NotEmpty(t, recs[0].Rationale)

	assert.Equal(t, "Newborn Open Studio", recs[1].Package.Name)
	assert.Equal(t, scoreCategoryMatch, recs[1].Score)

	assert.Equal(t, "Family Lifestyle", recs[2].Package.Name)
	assert.Equal(t, scoreFamilyDefault, recs[2].Score)
}

func TestRecommendMaternityScoresByGestationalWeek(t *testing.T) {
	svc, catalog, _ := newRecommender(t)

	inWindow := catalogPackage("Golden Hour Bump", models.CategoryMaternity)
	inWindow.RecommendedWeeks = "28-36 weeks"
	addPackage(t, catalog, inWindow)

	earlier := catalogPackage("Early Glow", models.CategoryMaternity)
	earlier.RecommendedWeeks = "20-24 weeks"
	addPackage(t, catalog, earlier)

	family := catalogPackage("Family Lifestyle", models.CategoryFamily)
	addPackage(t, catalog, family)

	newborn := catalogPackage("Newborn Classic", models.CategoryNewborn)
	addPackage(t, catalog, newborn)

	due := day(2024, time.September, 1)
	client := &models.Client{
		ID:         uuid.New(),
		Name:       "Meera Patel",
		Phone:      "+14155550145",
		FamilyType: models.FamilyExpecting,
		DueDate:    &due,
		IsActive:   true,
	}

	// Week 28 of the pregnancy
	recs, err := svc.Recommend(client, day(2024, time.June, 9), 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "Golden Hour Bump", recs[0].Package.Name)
	assert.Equal(t, scorePreciseMatch, recs[0].Score)
	assert.Equal(t, "Early Glow", recs[1].Package.Name)
	assert.Equal(t, scoreCategoryMatch, recs[1].Score)
	assert.Equal(t, "Family Lifestyle", recs[2].Package.Name)
	assert.Equal(t, scoreFamilyDefault, recs[2].Score)
}

func TestRecommendTiebreakIsDeterministic(t *testing.T) {
	svc, catalog, _ := newRecommender(t)
	asOf := day(2024, time.March, 11)

	featured := catalogPackage("Window Light Newborn", models.CategoryNewborn)
	featured.RecommendedAge = "5-14 days"
	featured.IsFeatured = true
	featured.DisplayOrder = 5
	addPackage(t, catalog, featured)

	earlyOrder := catalogPackage("Studio Newborn", models.CategoryNewborn)
	earlyOrder.RecommendedAge = "5-14 days"
	earlyOrder.DisplayOrder = 1
	addPackage(t, catalog, earlyOrder)

	alphabetical := catalogPackage("At-Home Newborn", models.CategoryNewborn)
	alphabetical.RecommendedAge = "5-14 days"
	alphabetical.DisplayOrder = 1
	addPackage(t, catalog, alphabetical)

	client := newbornClient(day(2024, time.March, 1))

	for i := 0; i < 3; i++ {
		recs, err := svc.Recommend(client, asOf, 0)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		// All score 10: featured wins, then display order, then name
		assert.Equal(t, "Window Light Newborn", recs[0].Package.Name)
		assert.Equal(t, "At-Home Newborn", recs[1].Package.Name)
		assert.Equal(t, "Studio Newborn", recs[2].Package.Name)
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	svc, catalog, _ := newRecommender(t)
	asOf := day(2024, time.March, 11)

	for _, name := range []string{"One", "Two", "Three", "Four"} {
		addPackage(t, catalog, catalogPackage(name, models.CategoryNewborn))
	}

	client := newbornClient(day(2024, time.March, 1))

	recs, err := svc.Recommend(client, asOf, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// limit 0 falls back to the configured default of 5
	recs, err = svc.Recommend(client, asOf, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
}

func TestRecommendSkipsInactivePackages(t *testing.T) {
	svc, catalog, _ := newRecommender(t)
	asOf := day(2024, time.March, 11)

	id := addPackage(t, catalog, catalogPackage("Newborn Classic", models.CategoryNewborn))
	require.NoError(t, catalog.Deactivate(id))

	client := newbornClient(day(2024, time.March, 1))
	recs, err := svc.Recommend(client, asOf, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendUnionsChildrenKeepingBestScore(t *testing.T) {
	svc, catalog, _ := newRecommender(t)
	asOf := day(2024, time.March, 11)

	newborn := catalogPackage("Newborn Classic", models.CategoryNewborn)
	newborn.RecommendedAge = "5-14 days"
	addPackage(t, catalog, newborn)

	milestone := catalogPackage("Sitter Session", models.CategoryMilestone)
	milestone.RecommendedAge = "6-9 months"
	addPackage(t, catalog, milestone)

	client := &models.Client{
		ID:         uuid.New(),
		Name:       "Ananya Rao",
		Phone:      "+14155550167",
		FamilyType: models.FamilyMultiple,
		Children: models.ChildList{
			{Name: "Isha", BirthDate: day(2024, time.March, 1)},    // 10 days old
			{Name: "Vihaan", BirthDate: day(2023, time.August, 20)}, // about 6.5 months
		},
		IsActive: true,
	}

	recs, err := svc.Recommend(client, asOf, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byName := make(map[string]Recommendation)
	for _, rec := range recs {
		byName[rec.Package.Name] = rec
	}

	require.Contains(t, byName, "Newborn Classic")
	assert.Equal(t, scorePreciseMatch, byName["Newborn Classic"].Score)
	assert.Equal(t, "Isha", byName["Newborn Classic"].ChildName)

	require.Contains(t, byName, "Sitter Session")
	assert.Equal(t, scorePreciseMatch, byName["Sitter Session"].Score)
	assert.Equal(t, "Vihaan", byName["Sitter Session"].ChildName)
}

func TestRecommendBirthdayJoinsAtOneYearMark(t *testing.T) {
	svc, catalog, _ := newRecommender(t)

	birthday := catalogPackage("Smash Cake", models.CategoryBirthday)
	birthday.RecommendedAge = "11-13 months"
	addPackage(t, catalog, birthday)

	client := &models.Client{
		ID:         uuid.New(),
		Name:       "Priya Shah",
		Phone:      "+14155550123",
		FamilyType: models.FamilyToddler,
		Children:   models.ChildList{{Name: "Aarav", BirthDate: day(2023, time.March, 15)}},
		IsActive:   true,
	}

	// Five days before the first birthday: the 1year window is open
	recs, err := svc.Recommend(client, day(2024, time.March, 10), 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Smash Cake", recs[0].Package.Name)
	assert.Equal(t, scorePreciseMatch, recs[0].Score)
}

func TestCustomizeWithinRange(t *testing.T) {
	svc, catalog, store := newRecommender(t)

	p := catalogPackage("Newborn Deluxe", models.CategoryNewborn)
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"base_price", "duration_minutes", "notes"}
	p.PriceRanges = models.PriceRangeMap{
		"base_price":       {Min: 300, Max: 600},
		"duration_minutes": {Min: 60, Max: 180},
	}
	id := addPackage(t, catalog, p)

	client := newbornClient(day(2024, time.March, 1))
	price := 550.0
	notes := "include sibling shots"
	view, err := svc.Customize(client, id, CustomizeInput{Price: &price, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, 550.0, view.Price)
	assert.Equal(t, 90, view.DurationMinutes)
	assert.Equal(t, "include sibling shots", view.Notes)

	// Catalog row untouched
	stored, err := catalog.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 400.0, stored.BasePrice)

	// Overlay is persisted and readable
	saved, err := store.FindCustomization(client.ID, id)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.PriceOverride)
	assert.Equal(t, 550.0, *saved.PriceOverride)

	again, err := svc.GetCustomized(client.ID, id)
	require.NoError(t, err)
	assert.Equal(t, view, again)
}

func TestCustomizeOutOfRangeLeavesNothingBehind(t *testing.T) {
	svc, catalog, store := newRecommender(t)

	p := catalogPackage("Newborn Deluxe", models.CategoryNewborn)
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"base_price"}
	p.PriceRanges = models.PriceRangeMap{"base_price": {Min: 300, Max: 600}}
	id := addPackage(t, catalog, p)

	client := newbornClient(day(2024, time.March, 1))
	price := 900.0
	_, err := svc.Customize(client, id, CustomizeInput{Price: &price})

	var rangeErr *utils.OutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "base_price", rangeErr.Field)
	assert.Equal(t, 600.0, rangeErr.Max)

	// Nothing was stored for the failed attempt
	saved, err := store.FindCustomization(client.ID, id)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCustomizeRejectsUndeclaredFields(t *testing.T) {
	svc, catalog, _ := newRecommender(t)

	p := catalogPackage("Newborn Deluxe", models.CategoryNewborn)
	p.IsCustomizable = true
	p.CustomizableFields = models.StringList{"notes"}
	id := addPackage(t, catalog, p)

	client := newbornClient(day(2024, time.March, 1))
	price := 500.0
	_, err := svc.Customize(client, id, CustomizeInput{Price: &price})

	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestCustomizeRejectsFixedPackage(t *testing.T) {
	svc, catalog, _ := newRecommender(t)

	id := addPackage(t, catalog, catalogPackage("Newborn Mini", models.CategoryNewborn))

	client := newbornClient(day(2024, time.March, 1))
	price := 500.0
	_, err := svc.Customize(client, id, CustomizeInput{Price: &price})

	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestGetCustomizedWithoutOverlayIsNotFound(t *testing.T) {
	svc, catalog, _ := newRecommender(t)

	id := addPackage(t, catalog, catalogPackage("Newborn Mini", models.CategoryNewborn))

	_, err := svc.GetCustomized(uuid.New(), id)
	var nfErr *utils.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
