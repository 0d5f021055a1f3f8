// controllers/appointment.go
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

// CreateAppointmentInput defines the expected JSON structure for booking a session
type CreateAppointmentInput struct {
	ClientID          string    `json:"clientId" binding:"required"`
	PackageID         *string   `json:"packageId"`
	StartTime         time.Time `json:"startTime" binding:"required"`
	DurationMinutes   int       `json:"durationMinutes"`
	SessionType       string    `json:"sessionType" binding:"required"`
	MilestoneType     string    `json:"milestoneType"`
	SessionFee        float64   `json:"sessionFee"`
	AdditionalCharges float64   `json:"additionalCharges"`
	Discount          float64   `json:"discount"`
	PaymentStatus     string    `json:"paymentStatus"`
	Notes             string    `json:"notes"`
}

// UpdateAppointmentInput allows partial updates; nil fields are left untouched
type UpdateAppointmentInput struct {
	StartTime         *time.Time `json:"startTime"`
	DurationMinutes   *int       `json:"durationMinutes"`
	SessionType       *string    `json:"sessionType"`
	MilestoneType     *string    `json:"milestoneType"`
	SessionFee        *float64   `json:"sessionFee"`
	AdditionalCharges *float64   `json:"additionalCharges"`
	Discount          *float64   `json:"discount"`
	PaymentStatus     *string    `json:"paymentStatus"`
	Status            *string    `json:"status"`
	Notes             *string    `json:"notes"`
}

// CreateAppointment books a session and updates the client's lifetime metrics
// in the same transaction.
func CreateAppointment(c *gin.Context) {
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

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	clientUUID, err := uuid.Parse(input.ClientID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var client models.Client
	if err := tx.Where("id = ? AND studio_id = ?", clientUUID, studioUUID).First(&client).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, &utils.NotFoundError{Resource: "client", ID: clientUUID.String()})
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	appointment := models.Appointment{
		StudioID:          studioUUID,
		ClientID:          client.ID,
		BookingRef:        generateBookingRef(input.StartTime),
		ClientName:        client.Name,
		ClientEmail:       client.Email,
		StartTime:         input.StartTime,
		DurationMinutes:   input.DurationMinutes,
		SessionType:       input.SessionType,
		MilestoneType:     input.MilestoneType,
		SessionFee:        input.SessionFee,
		AdditionalCharges: input.AdditionalCharges,
		Discount:          input.Discount,
		PaymentStatus:     input.PaymentStatus,
		Status:            models.AppointmentConfirmed,
		Notes:             input.Notes,
	}
	if appointment.DurationMinutes <= 0 {
		appointment.DurationMinutes = 60
	}
	if appointment.PaymentStatus == "" {
		appointment.PaymentStatus = "unpaid"
	}
	appointment.TotalAmount = appointment.SessionFee + appointment.AdditionalCharges - appointment.Discount
	if appointment.TotalAmount < 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusBadRequest, "Discount exceeds the session total")
		return
	}

	// Resolve the optional package against the studio's catalog; the fee
	// defaults to the catalog price when the caller leaves it at zero.
	if input.PackageID != nil && *input.PackageID != "" {
		packageUUID, err := uuid.Parse(*input.PackageID)
		if err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid package ID format")
			return
		}
		var pkg models.Package
		if err := tx.First(&pkg, "id = ?", packageUUID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithAppError(c, &utils.NotFoundError{Resource: "package", ID: packageUUID.String()})
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		appointment.PackageID = &pkg.ID
		if appointment.SessionFee == 0 {
			appointment.SessionFee = pkg.BasePrice
			appointment.TotalAmount = appointment.SessionFee + appointment.AdditionalCharges - appointment.Discount
		}
		if appointment.DurationMinutes == 60 && pkg.DurationMinutes > 0 {
			appointment.DurationMinutes = pkg.DurationMinutes
		}
	}

	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// Keep the client's lifetime metrics in step with the booking
	now := time.Now()
	client.TotalAppointments++
	client.TotalSpent += appointment.TotalAmount
	client.LastAppointment = &now
	if err := tx.Save(&client).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client metrics")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists the studio's appointments, optionally windowed
func GetAppointments(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	query := config.DB.Where("studio_id = ?", studioID)

	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
			return
		}
		query = query.Where("start_time >= ?", parsed)
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "to must be formatted YYYY-MM-DD")
			return
		}
		query = query.Where("start_time < ?", parsed.AddDate(0, 0, 1))
	}

	var appointments []models.Appointment
	if err := query.Order("start_time ASC").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a single appointment by ID
func GetAppointment(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	appointment, ok := findAppointment(c, studioID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment applies a partial update; fee changes flow through to the
// client's lifetime totals.
func UpdateAppointment(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	appointment, ok := findAppointment(c, studioID)
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	previousTotal := appointment.TotalAmount

	if input.StartTime != nil {
		appointment.StartTime = *input.StartTime
	}
	if input.DurationMinutes != nil {
		appointment.DurationMinutes = *input.DurationMinutes
	}
	if input.StartTime != nil || input.DurationMinutes != nil {
		appointment.EndTime = appointment.StartTime.Add(time.Duration(appointment.DurationMinutes) * time.Minute)
	}
	if input.SessionType != nil {
		appointment.SessionType = *input.SessionType
	}
	if input.MilestoneType != nil {
		appointment.MilestoneType = *input.MilestoneType
	}
	if input.SessionFee != nil {
		appointment.SessionFee = *input.SessionFee
	}
	if input.AdditionalCharges != nil {
		appointment.AdditionalCharges = *input.AdditionalCharges
	}
	if input.Discount != nil {
		appointment.Discount = *input.Discount
	}
	if input.PaymentStatus != nil {
		appointment.PaymentStatus = *input.PaymentStatus
	}
	if input.Status != nil {
		appointment.Status = models.AppointmentStatus(*input.Status)
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	appointment.TotalAmount = appointment.SessionFee + appointment.AdditionalCharges - appointment.Discount
	if appointment.TotalAmount < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount exceeds the session total")
		return
	}

	tx := config.DB.Begin()
	if err := tx.Save(&appointment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}
	if delta := appointment.TotalAmount - previousTotal; delta != 0 {
		if err := tx.Model(&models.Client{}).Where("id = ?", appointment.ClientID).
			Update("total_spent", gorm.Expr("total_spent + ?", delta)).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client metrics")
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit appointment update")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// CancelAppointment marks a session cancelled and rolls its value out of the
// client's lifetime totals.
func CancelAppointment(c *gin.Context) {
	studioID, exists := c.Get("studioId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Studio ID not found in context")
		return
	}

	appointment, ok := findAppointment(c, studioID)
	if !ok {
		return
	}

	if appointment.Status == models.AppointmentCancelled {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment is already cancelled")
		return
	}

	tx := config.DB.Begin()
	appointment.Status = models.AppointmentCancelled
	if err := tx.Save(&appointment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}
	if err := tx.Model(&models.Client{}).Where("id = ?", appointment.ClientID).
		Updates(map[string]interface{}{
			"total_appointments": gorm.Expr("total_appointments - 1"),
			"total_spent":        gorm.Expr("total_spent - ?", appointment.TotalAmount),
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client metrics")
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to commit cancellation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

func findAppointment(c *gin.Context, studioID interface{}) (models.Appointment, bool) {
	var appointment models.Appointment

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return appointment, false
	}

	if err := config.DB.Where("id = ? AND studio_id = ?", appointmentUUID, studioID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithAppError(c, &utils.NotFoundError{Resource: "appointment", ID: appointmentUUID.String()})
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return appointment, false
	}

	return appointment, true
}

func generateBookingRef(startTime time.Time) string {
	return "BK-" + startTime.Format("20060102") + "-" + utils.GenerateRandomString(5)
}
