// controllers/package.go
package controllers

import (
	"net/http"
	"snapstudio-backend/models"
	"snapstudio-backend/services"
	"snapstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreatePackageInput defines the expected JSON structure for creating a package
type CreatePackageInput struct {
	Name               string               `json:"name" binding:"required"`
	Description        string               `json:"description"`
	Category           string               `json:"category" binding:"required"`
	BasePrice          float64              `json:"basePrice"`
	DurationMinutes    int                  `json:"durationMinutes" binding:"required"`
	IsCustomizable     bool                 `json:"isCustomizable"`
	Includes           models.StringList    `json:"includes"`
	AddOns             models.AddOnList     `json:"addOns"`
	Requirements       models.StringList    `json:"requirements"`
	RecommendedAge     string               `json:"recommendedAge"`
	RecommendedWeeks   string               `json:"recommendedWeeks"`
	CustomizableFields models.StringList    `json:"customizableFields"`
	PriceRanges        models.PriceRangeMap `json:"priceRanges"`
	IsFeatured         bool                 `json:"isFeatured"`
	DisplayOrder       int                  `json:"displayOrder"`
}

// UpdatePackageInput defines the expected JSON structure for updating a package
type UpdatePackageInput struct {
	Name               *string               `json:"name"`
	Description        *string               `json:"description"`
	Category           *string               `json:"category"`
	BasePrice          *float64              `json:"basePrice"`
	DurationMinutes    *int                  `json:"durationMinutes"`
	IsCustomizable     *bool                 `json:"isCustomizable"`
	Includes           *models.StringList    `json:"includes"`
	AddOns             *models.AddOnList     `json:"addOns"`
	Requirements       *models.StringList    `json:"requirements"`
	RecommendedAge     *string               `json:"recommendedAge"`
	RecommendedWeeks   *string               `json:"recommendedWeeks"`
	CustomizableFields *models.StringList    `json:"customizableFields"`
	PriceRanges        *models.PriceRangeMap `json:"priceRanges"`
	IsFeatured         *bool                 `json:"isFeatured"`
	DisplayOrder       *int                  `json:"displayOrder"`
}

// CreatePackage adds a new package to the studio's catalog
func CreatePackage(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	studioUUID, err := uuid.Parse(studioID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid studio ID format")
		return
	}

	var input CreatePackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pkg := models.Package{
		StudioID:           studioUUID,
		Name:               input.Name,
		Description:        input.Description,
		Category:           models.PackageCategory(input.Category),
		BasePrice:          input.BasePrice,
		DurationMinutes:    input.DurationMinutes,
		IsCustomizable:     input.IsCustomizable,
		Includes:           input.Includes,
		AddOns:             input.AddOns,
		Requirements:       input.Requirements,
		RecommendedAge:     input.RecommendedAge,
		RecommendedWeeks:   input.RecommendedWeeks,
		CustomizableFields: input.CustomizableFields,
		PriceRanges:        input.PriceRanges,
		IsActive:           true,
		IsFeatured:         input.IsFeatured,
		DisplayOrder:       input.DisplayOrder,
	}

	if _, err := catalogService().Add(&pkg); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// GetPackages lists the catalog, optionally filtered by category and flags
func GetPackages(c *gin.Context) {
	if _, exists := c.Get("studioId"); !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	filter := services.PackageFilter{
		ActiveOnly:   c.DefaultQuery("active", "true") == "true",
		FeaturedOnly: c.Query("featured") == "true",
	}
	if category := c.Query("category"); category != "" {
		if !models.IsValidPackageCategory(category) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown category: "+category)
			return
		}
		cat := models.PackageCategory(category)
		filter.Category = &cat
	}

	packages, err := catalogService().List(filter)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// GetPackage retrieves a specific package by ID
func GetPackage(c *gin.Context) {
	if _, exists := c.Get("studioId"); !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	packageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	pkg, err := catalogService().Get(packageUUID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// UpdatePackage applies a partial update under the catalog's invariants
func UpdatePackage(c *gin.Context) {
	if _, exists := c.Get("studioId"); !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	packageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	var input UpdatePackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	update := services.UpdatePackageInput{
		Name:               input.Name,
		Description:        input.Description,
		BasePrice:          input.BasePrice,
		DurationMinutes:    input.DurationMinutes,
		IsCustomizable:     input.IsCustomizable,
		Includes:           input.Includes,
		AddOns:             input.AddOns,
		Requirements:       input.Requirements,
		RecommendedAge:     input.RecommendedAge,
		RecommendedWeeks:   input.RecommendedWeeks,
		CustomizableFields: input.CustomizableFields,
		PriceRanges:        input.PriceRanges,
		IsFeatured:         input.IsFeatured,
		DisplayOrder:       input.DisplayOrder,
	}
	if input.Category != nil {
		cat := models.PackageCategory(*input.Category)
		update.Category = &cat
	}

	pkg, err := catalogService().Update(packageUUID, update)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// DeactivatePackage hides a package from active listings
func DeactivatePackage(c *gin.Context) {
	togglePackageActive(c, false)
}

// ReactivatePackage returns a package to active listings
func ReactivatePackage(c *gin.Context) {
	togglePackageActive(c, true)
}

func togglePackageActive(c *gin.Context, active bool) {
	if _, exists := c.Get("studioId"); !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	packageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	svc := catalogService()
	if active {
		err = svc.Reactivate(packageUUID)
	} else {
		err = svc.Deactivate(packageUUID)
	}
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	if active {
		c.JSON(http.StatusOK, gin.H{"message": "Package reactivated"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Package deactivated"})
	}
}

// DeletePackage hard-deletes an unreferenced package
func DeletePackage(c *gin.Context) {
	if _, exists := c.Get("studioId"); !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	packageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	if err := catalogService().Delete(packageUUID); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Package deleted successfully"})
}
