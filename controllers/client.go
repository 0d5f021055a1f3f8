// controllers/client.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name           string            `json:"name" binding:"required"`
	Phone          string            `json:"phone" binding:"required"`
	Email          string            `json:"email"`
	Address        string            `json:"address"`
	Notes          string            `json:"notes"`
	FamilyType     string            `json:"familyType" binding:"required"`
	DueDate        *time.Time        `json:"dueDate"`
	Children       models.ChildList  `json:"children"`
	Tags           models.StringList `json:"tags"`
	ReferralSource string            `json:"referralSource"`
}

// UpdateClientInput allows partial updates; nil fields are left untouched
type UpdateClientInput struct {
	Name           *string            `json:"name"`
	Phone          *string            `json:"phone"`
	Email          *string            `json:"email"`
	Address        *string            `json:"address"`
	Notes          *string            `json:"notes"`
	FamilyType     *string            `json:"familyType"`
	DueDate        *time.Time         `json:"dueDate"`
	Children       *models.ChildList  `json:"children"`
	Tags           *models.StringList `json:"tags"`
	ReferralSource *string            `json:"referralSource"`
}

// RecordBirthInput captures a birth announcement for an expecting client
type RecordBirthInput struct {
	Name      string    `json:"name" binding:"required"`
	BirthDate time.Time `json:"birthDate" binding:"required"`
	Notes     string    `json:"notes"`
}

// CreateClient registers a new client for the studio
func CreateClient(c *gin.Context) {
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

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		StudioID:        studioUUID,
		CreatedByUserID: studioUUID,
		Name:            input.Name,
		Phone:           input.Phone,
		Email:           input.Email,
		Address:         input.Address,
		Notes:           input.Notes,
		FamilyType:      models.FamilyType(input.FamilyType),
		DueDate:         input.DueDate,
		Children:        input.Children,
		Tags:            input.Tags,
		ReferralSource:  input.ReferralSource,
		IsActive:        true,
	}
	if client.Children == nil {
		client.Children = models.ChildList{}
	}
	if client.Tags == nil {
		client.Tags = models.StringList{}
	}

	if err := client.Validate(); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	// Phone must be unique within the studio
	var existing models.Client
	result := config.DB.Where("studio_id = ? AND phone = ?", studioUUID, input.Phone).First(&existing)
	if result.Error == nil {
		utils.RespondWithAppError(c, &utils.ConflictError{
			Resource: "client",
			Reason:   "a client with this phone number already exists",
		})
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients lists the studio's clients, newest first
func GetClients(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	query := config.DB.Where("studio_id = ?", studioID)

	if c.DefaultQuery("active", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if familyType := c.Query("familyType"); familyType != "" {
		if !models.IsValidFamilyType(familyType) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown family type: "+familyType)
			return
		}
		query = query.Where("family_type = ?", familyType)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var clients []models.Client
	if err := query.Order("created_at DESC").Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a single client by ID
func GetClient(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient applies a partial update and revalidates the family invariants
func UpdateClient(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}
	if input.FamilyType != nil {
		client.FamilyType = models.FamilyType(*input.FamilyType)
	}
	if input.DueDate != nil {
		client.DueDate = input.DueDate
	}
	if input.Children != nil {
		client.Children = *input.Children
	}
	if input.Tags != nil {
		client.Tags = *input.Tags
	}
	if input.ReferralSource != nil {
		client.ReferralSource = *input.ReferralSource
	}

	if err := client.Validate(); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// ArchiveClient hides a client from listings without deleting history
func ArchiveClient(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	client.IsActive = false
	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to archive client")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client archived"})
}

// RecordBirth moves an expecting client to newborn and adds the child.
// Non-expecting families simply gain another child.
func RecordBirth(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
		return
	}

	var input RecordBirthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.BirthDate.After(time.Now()) {
		utils.RespondWithError(c, http.StatusBadRequest, "Birth date cannot be in the future")
		return
	}

	client.RecordBirth(models.Child{
		Name:      input.Name,
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
	})

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record birth")
		return
	}

	c.JSON(http.StatusOK, client)
}

// GetClientMilestones evaluates the milestone timeline for every child
func GetClientMilestones(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	client, ok := findClient(c, studioID)
	if !ok {
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

	svc := milestoneService()

	if client.IsExpecting() {
		week := svc.GestationalWeek(*client.DueDate, asOf)
		c.JSON(http.StatusOK, gin.H{
			"familyType":      client.FamilyType,
			"dueDate":         client.DueDate,
			"gestationalWeek": week,
		})
		return
	}

	children := make([]gin.H, 0, len(client.Children))
	for _, child := range client.Children {
		states, err := svc.EvaluateMilestones(child.BirthDate, asOf)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		age, err := svc.ComputeAge(child.BirthDate, asOf)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		children = append(children, gin.H{
			"name":       child.Name,
			"birthDate":  child.BirthDate,
			"age":        age,
			"milestones": states,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"familyType": client.FamilyType,
		"children":   children,
	})
}

// findClient loads the path-param client scoped to the studio, writing the
// error response itself when the lookup fails.
func findClient(c *gin.Context, studioID interface{}) (models.Client, bool) {
	var client models.Client

	clientUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return client, false
	}

	if err := config.DB.Where("id = ? AND studio_id = ?", clientUUID, studioID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, &utils.NotFoundError{Resource: "client", ID: clientUUID.String()})
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return client, false
	}

	return client, true
}
