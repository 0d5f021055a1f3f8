package controllers

import (
	"net/http"
	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	StudioName    string `json:"studioName"`
	StudioAddress string `json:"studioAddress"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"studioName":        user.StudioName,
		"studioAddress":     user.StudioAddress,
		"phone":             user.Phone,
		"email":             user.Email,
		"workingHours":      user.WorkingHours,
		"sessionReminders":  user.SessionReminders,
		"milestoneOutreach": user.MilestoneOutreach,
		"whatsAppReminders": user.WhatsAppReminders,
		"smsReminders":      user.SMSReminders,
	})
}

func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	// Update fields
	user.StudioName = input.StudioName
	user.StudioAddress = input.StudioAddress
	user.Phone = input.Phone
	user.Email = input.Email

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func UpdateWorkingHours(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input struct {
		WorkingHours models.JSONB `json:"workingHours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("working_hours", input.WorkingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update working hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Working hours updated"})
}

func UpdateNotifications(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input struct {
		SessionReminders  *bool `json:"sessionReminders"`
		MilestoneOutreach *bool `json:"milestoneOutreach"`
		WhatsAppReminders *bool `json:"whatsAppReminders"`
		SMSReminders      *bool `json:"smsReminders"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.SessionReminders != nil {
		user.SessionReminders = *input.SessionReminders
	}
	if input.MilestoneOutreach != nil {
		user.MilestoneOutreach = *input.MilestoneOutreach
	}
	if input.WhatsAppReminders != nil {
		user.WhatsAppReminders = *input.WhatsAppReminders
	}
	if input.SMSReminders != nil {
		user.SMSReminders = *input.SMSReminders
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}
