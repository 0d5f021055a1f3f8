// services/recommendation_service.go
package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/google/uuid"
)

// Match scores. A precise age/week match outranks a broad category match,
// which outranks the universal family fallback.
const (
	scorePreciseMatch  = 10
	scoreCategoryMatch = 5
	scoreFamilyDefault = 1
)

// Recommendation pairs a client with an eligible package and the reason it
// matched. Derived, never persisted.
type Recommendation struct {
	PackageID uuid.UUID      `json:"packageId"`
	ClientID  uuid.UUID      `json:"clientId"`
	Package   models.Package `json:"package"`
	Score     int            `json:"score"`
	Rationale string         `json:"rationale"`
	ChildName string         `json:"childName,omitempty"`
}

// CustomizedPackage is the per-client view of a package with overrides
// applied. The catalog row is left untouched.
type CustomizedPackage struct {
	PackageID       uuid.UUID              `json:"packageId"`
	ClientID        uuid.UUID              `json:"clientId"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Category        models.PackageCategory `json:"category"`
	Price           float64                `json:"price"`
	DurationMinutes int                    `json:"durationMinutes"`
	Includes        models.StringList      `json:"includes"`
	Notes           string                 `json:"notes,omitempty"`
}

// CustomizeInput carries the requested overrides.
type CustomizeInput struct {
	Price           *float64 `json:"price"`
	DurationMinutes *int     `json:"durationMinutes"`
	Notes           *string  `json:"notes"`
}

// RecommendationService ranks catalog packages for a client based on family
// type and milestone state, and manages per-client customizations.
type RecommendationService struct {
	catalog    *CatalogService
	milestones *MilestoneService
}

func NewRecommendationService(catalog *CatalogService, milestones *MilestoneService) *RecommendationService {
	return &RecommendationService{catalog: catalog, milestones: milestones}
}

// Recommend produces the ranked top-N packages for the client as of the
// given date. limit <= 0 falls back to the configured default. Ordering is
// fully deterministic: score desc, featured first, display order, name.
func (s *RecommendationService) Recommend(client *models.Client, asOf time.Time, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = s.milestones.DefaultTopN()
	}

	candidates, err := s.catalog.List(PackageFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	var recs []Recommendation
	if client.IsExpecting() {
		recs = s.scoreMaternity(client, candidates, asOf)
	} else {
		recs, err = s.scoreChildren(client, candidates, asOf)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		if recs[i].Package.IsFeatured != recs[j].Package.IsFeatured {
			return recs[i].Package.IsFeatured
		}
		if recs[i].Package.DisplayOrder != recs[j].Package.DisplayOrder {
			return recs[i].Package.DisplayOrder < recs[j].Package.DisplayOrder
		}
		return recs[i].Package.Name < recs[j].Package.Name
	})

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *RecommendationService) scoreMaternity(client *models.Client, candidates []models.Package, asOf time.Time) []Recommendation {
	gestWeek := s.milestones.GestationalWeek(*client.DueDate, asOf)

	var recs []Recommendation
	for _, p := range candidates {
		switch p.Category {
		case models.CategoryMaternity:
			if min, max, ok := parseWeekRange(p.RecommendedWeeks); ok && gestWeek >= float64(min) && gestWeek <= float64(max) {
				recs = append(recs, Recommendation{
					PackageID: p.ID, ClientID: client.ID, Package: p,
					Score:     scorePreciseMatch,
					Rationale: fmt.Sprintf("week %.0f of pregnancy falls in the recommended %s window", gestWeek, p.RecommendedWeeks),
				})
			} else {
				recs = append(recs, Recommendation{
					PackageID: p.ID, ClientID: client.ID, Package: p,
					Score:     scoreCategoryMatch,
					Rationale: "maternity session for an expecting client",
				})
			}
		case models.CategoryFamily:
			recs = append(recs, Recommendation{
				PackageID: p.ID, ClientID: client.ID, Package: p,
				Score:     scoreFamilyDefault,
				Rationale: "family sessions apply at any stage",
			})
		}
	}
	return recs
}

func (s *RecommendationService) scoreChildren(client *models.Client, candidates []models.Package, asOf time.Time) ([]Recommendation, error) {
	// Each child is evaluated independently; results are unioned with the
	// best-scoring child tagged on the recommendation.
	best := make(map[uuid.UUID]Recommendation)

	for _, child := range client.Children {
		relevant, ageDays, err := s.relevantMilestones(child.BirthDate, asOf)
		if err != nil {
			return nil, err
		}
		eligible := eligibleCategories(client.FamilyType, relevant)

		for _, p := range candidates {
			score, rationale, ok := scorePackage(p, eligible, relevant, ageDays)
			if !ok {
				continue
			}
			rec := Recommendation{
				PackageID: p.ID, ClientID: client.ID, Package: p,
				Score: score, Rationale: rationale, ChildName: child.Name,
			}
			if existing, seen := best[p.ID]; !seen || rec.Score > existing.Score {
				best[p.ID] = rec
			}
		}
	}

	recs := make([]Recommendation, 0, len(best))
	for _, rec := range best {
		recs = append(recs, rec)
	}
	return recs, nil
}

// relevantMilestones picks every due_now milestone, or the next upcoming one
// when no window is open.
func (s *RecommendationService) relevantMilestones(birthDate time.Time, asOf time.Time) ([]MilestoneState, int, error) {
	age, err := s.milestones.ComputeAge(birthDate, asOf)
	if err != nil {
		return nil, 0, err
	}
	due, err := s.milestones.DueNowMilestones(birthDate, asOf)
	if err != nil {
		return nil, 0, err
	}
	if len(due) > 0 {
		return due, age.Days, nil
	}
	next, err := s.milestones.NextMilestone(birthDate, asOf)
	if err != nil {
		return nil, 0, err
	}
	if next != nil {
		return []MilestoneState{*next}, age.Days, nil
	}
	return nil, age.Days, nil
}

// eligibleCategories maps the family stage onto catalog categories. The
// birthday category joins when the one-year mark is in play (smash-cake
// sessions); family is handled separately as the universal fallback.
func eligibleCategories(familyType models.FamilyType, relevant []MilestoneState) map[models.PackageCategory]bool {
	eligible := make(map[models.PackageCategory]bool)
	switch familyType {
	case models.FamilyNewborn:
		eligible[models.CategoryNewborn] = true
	case models.FamilyBaby, models.FamilyToddler:
		eligible[models.CategoryMilestone] = true
	case models.FamilyMultiple:
		// Stage is per child: a newborn window means newborn sessions,
		// anything later means milestone sessions.
		for _, m := range relevant {
			if m.Type == "newborn" && m.Status != MilestoneCompleted {
				eligible[models.CategoryNewborn] = true
			} else {
				eligible[models.CategoryMilestone] = true
			}
		}
	}
	for _, m := range relevant {
		if m.Type == "1year" {
			eligible[models.CategoryBirthday] = true
		}
	}
	return eligible
}

func scorePackage(p models.Package, eligible map[models.PackageCategory]bool, relevant []MilestoneState, ageDays int) (int, string, bool) {
	if p.Category == models.CategoryFamily {
		return scoreFamilyDefault, "family sessions apply at any stage", true
	}
	if !eligible[p.Category] {
		return 0, "", false
	}

	if min, max, ok := parseAgeRangeDays(p.RecommendedAge); ok {
		for _, m := range relevant {
			if withinRange(m.TargetAgeDays, min, max) || withinRange(ageDays, min, max) {
				return scorePreciseMatch, fmt.Sprintf("matches the %s milestone window (recommended age %s)", m.Type, p.RecommendedAge), true
			}
		}
	}
	for _, m := range relevant {
		if milestoneKeywordMatch(p.RecommendedAge, m.Type) {
			return scorePreciseMatch, fmt.Sprintf("recommended age mentions the %s milestone", m.Type), true
		}
	}
	return scoreCategoryMatch, fmt.Sprintf("%s session for the family's current stage", p.Category), true
}

func withinRange(v, min, max int) bool {
	return v >= min && v <= max
}

func milestoneKeywordMatch(recommendedAge, milestoneType string) bool {
	if recommendedAge == "" {
		return false
	}
	return strings.Contains(strings.ToLower(recommendedAge), strings.TrimSuffix(strings.ToLower(milestoneType), "month")+" month") ||
		(milestoneType == "newborn" && strings.Contains(strings.ToLower(recommendedAge), "newborn"))
}

var rangePattern = regexp.MustCompile(`(\d+)\s*(?:-\s*(\d+)|\+)`)

// parseAgeRangeDays reads free-text descriptors like "5-14 days",
// "6-8 months" or "1+ years" into a day range. Unparseable text (including
// "All ages") reports ok=false and falls back to broad category scoring.
func parseAgeRangeDays(s string) (int, int, bool) {
	if s == "" {
		return 0, 0, false
	}
	lower := strings.ToLower(s)
	m := rangePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, 0, false
	}

	unit := 1
	switch {
	case strings.Contains(lower, "week"):
		unit = 7
	case strings.Contains(lower, "month"):
		unit = 30
	case strings.Contains(lower, "year"):
		unit = 365
	}

	lo, _ := strconv.Atoi(m[1])
	if m[2] == "" {
		// Open-ended, e.g. "1+ years"
		return lo * unit, 1 << 30, true
	}
	hi, _ := strconv.Atoi(m[2])
	if hi < lo {
		return 0, 0, false
	}
	return lo * unit, hi * unit, true
}

// parseWeekRange reads maternity descriptors like "28-36 weeks".
func parseWeekRange(s string) (int, int, bool) {
	if s == "" {
		return 0, 0, false
	}
	m := rangePattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil || m[2] == "" {
		return 0, 0, false
	}
	lo, _ := strconv.Atoi(m[1])
	hi, _ := strconv.Atoi(m[2])
	if hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// Customize validates the requested overrides against the package's
// customizable fields and price ranges, persists the per-client overlay and
// returns the effective view. The shared catalog entry is never mutated.
func (s *RecommendationService) Customize(client *models.Client, packageID uuid.UUID, input CustomizeInput) (*CustomizedPackage, error) {
	p, err := s.catalog.Get(packageID)
	if err != nil {
		return nil, err
	}

	v := &utils.ValidationError{}
	if !p.IsCustomizable {
		v.Add("package", "is not customizable", p.Name)
	} else {
		if input.Price != nil && !p.CustomizableFields.Contains("base_price") {
			v.Add("base_price", "is not customizable for this package", *input.Price)
		}
		if input.DurationMinutes != nil && !p.CustomizableFields.Contains("duration_minutes") {
			v.Add("duration_minutes", "is not customizable for this package", *input.DurationMinutes)
		}
		if input.Notes != nil && !p.CustomizableFields.Contains("notes") {
			v.Add("notes", "is not customizable for this package", nil)
		}
	}
	if input.Price == nil && input.DurationMinutes == nil && input.Notes == nil {
		v.Add("overrides", "at least one override is required", nil)
	}
	if v.HasViolations() {
		return nil, v
	}

	// No silent clamping; the violated bound goes back to the caller.
	if input.Price != nil {
		if r, ok := p.PriceRanges["base_price"]; ok {
			if *input.Price < r.Min || *input.Price > r.Max {
				return nil, &utils.OutOfRangeError{Field: "base_price", Value: *input.Price, Min: r.Min, Max: r.Max}
			}
		}
	}
	if input.DurationMinutes != nil {
		if r, ok := p.PriceRanges["duration_minutes"]; ok {
			d := float64(*input.DurationMinutes)
			if d < r.Min || d > r.Max {
				return nil, &utils.OutOfRangeError{Field: "duration_minutes", Value: d, Min: r.Min, Max: r.Max}
			}
		}
	}

	customization := &models.PackageCustomization{
		StudioID:         p.StudioID,
		PackageID:        p.ID,
		ClientID:         client.ID,
		PriceOverride:    input.Price,
		DurationOverride: input.DurationMinutes,
	}
	if input.Notes != nil {
		customization.Notes = *input.Notes
	}
	if err := s.catalog.Store().SaveCustomization(customization); err != nil {
		return nil, err
	}

	return overlay(p, customization), nil
}

// GetCustomized reads back a client's customization of a package.
func (s *RecommendationService) GetCustomized(clientID, packageID uuid.UUID) (*CustomizedPackage, error) {
	p, err := s.catalog.Get(packageID)
	if err != nil {
		return nil, err
	}
	c, err := s.catalog.Store().FindCustomization(clientID, packageID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &utils.NotFoundError{Resource: "customization", ID: packageID.String()}
	}
	return overlay(p, c), nil
}

func overlay(p *models.Package, c *models.PackageCustomization) *CustomizedPackage {
	view := &CustomizedPackage{
		PackageID:       p.ID,
		ClientID:        c.ClientID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Price:           p.BasePrice,
		DurationMinutes: p.DurationMinutes,
		Includes:        p.Includes,
		Notes:           c.Notes,
	}
	if c.PriceOverride != nil {
		view.Price = *c.PriceOverride
	}
	if c.DurationOverride != nil {
		view.DurationMinutes = *c.DurationOverride
	}
	return view
}
