// controllers/recommendation.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/services"
	"snapstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRecommendations ranks the catalog for one client. The optional limit and
// asOf query parameters override the configured defaults.
func GetRecommendations(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "asOf must be formatted YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	recs, err := recommendationService().Recommend(&client, asOf, limit)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientId":        client.ID,
		"asOf":            asOf.Format("2006-01-02"),
		"recommendations": recs,
	})
}

// CustomizePackage stores per-client overrides for a package and returns the
// effective view. The shared catalog entry is never modified.
func CustomizePackage(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	packageUUID, err := uuid.Parse(c.Param("packageId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	var input services.CustomizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customized, err := recommendationService().Customize(&client, packageUUID, input)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, customized)
}

// GetCustomizedPackage reads back a client's customized view of a package
func GetCustomizedPackage(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	packageUUID, err := uuid.Parse(c.Param("packageId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	customized, err := recommendationService().GetCustomized(client.ID, packageUUID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, customized)
}

// GetClientPacket assembles the printable packet: studio header, milestone
// timeline per child and the ranked recommendations.
func GetClientPacket(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	var studio models.User
	if err := config.DB.First(&studio, "id = ?", studioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Studio not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "asOf must be formatted YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	packet, err := packetService().BuildPacket(&studio, &client, asOf, 0)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, packet)
}
