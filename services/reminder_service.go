// services/reminder_service.go
package services

import (
	"log"
	"os"
	"strings"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db         *gorm.DB
	client     *twilio.RestClient
	milestones *MilestoneService
}

func NewReminderService(db *gorm.DB, schedule *config.MilestoneSchedule) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db:         db,
		milestones: NewMilestoneService(schedule),
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyReminders)

	c.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	// Get all active studios
	var studios []models.User
	if err := s.db.Find(&studios, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch studios: %v", err)
		return
	}

	for _, studio := range studios {
		s.ProcessStudioReminders(studio)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) ProcessStudioReminders(studio models.User) {
	now := time.Now()

	if studio.SessionReminders {
		s.processSessionReminders(studio, now)
	}
	if studio.MilestoneOutreach {
		s.processMilestoneOutreach(studio, now)
	}
}

// processSessionReminders walks the confirmed sessions of the next two weeks
// and sends at most one message per appointment per ladder step
// (2 weeks, 1 week, 3 days, 2 days, 1 day, same day).
func (s *ReminderService) processSessionReminders(studio models.User, now time.Time) {
	horizon := now.AddDate(0, 0, 14)

	var appointments []models.Appointment
	if err := s.db.Where("studio_id = ? AND status = ? AND start_time BETWEEN ? AND ?",
		studio.ID, models.AppointmentConfirmed, now, horizon).Find(&appointments).Error; err != nil {
		log.Printf("Studio %s: failed to fetch upcoming appointments: %v", studio.ID, err)
		return
	}

	template, ok := s.activeTemplate(studio.ID, "session")
	if !ok {
		return
	}

	for _, apt := range appointments {
		key := apt.ReminderKey(now)

		// Skip if this ladder step already went out
		var sent int64
		s.db.Model(&models.ReminderLog{}).
			Where("appointment_id = ? AND type = ? AND status = ?", apt.ID, key, "sent").
			Count(&sent)
		if sent > 0 {
			continue
		}

		var client models.Client
		if err := s.db.First(&client, "id = ?", apt.ClientID).Error; err != nil {
			log.Printf("Studio %s: client %s missing for appointment %s", studio.ID, apt.ClientID, apt.ID)
			continue
		}

		message := strings.ReplaceAll(template.Message, "[ClientName]", client.Name)
		message = strings.ReplaceAll(message, "[SessionType]", apt.SessionType)
		message = strings.ReplaceAll(message, "[Date]", apt.StartTime.Format("Monday, January 2 at 3:04 PM"))

		aptID := apt.ID
		s.deliver(studio, client, template, key, message, &aptID)
	}
}

// processMilestoneOutreach messages clients whose children just entered a
// milestone window, suggesting they book the matching session.
func (s *ReminderService) processMilestoneOutreach(studio models.User, now time.Time) {
	template, ok := s.activeTemplate(studio.ID, "milestone")
	if !ok {
		return
	}

	var clients []models.Client
	if err := s.db.Where("studio_id = ? AND is_active = ?", studio.ID, true).Find(&clients).Error; err != nil {
		log.Printf("Studio %s: failed to fetch clients: %v", studio.ID, err)
		return
	}

	for _, client := range clients {
		for _, child := range client.Children {
			due, err := s.milestones.DueNowMilestones(child.BirthDate, now)
			if err != nil {
				continue
			}
			for _, m := range due {
				// One outreach per client, child and milestone
				var sent int64
				s.db.Model(&models.ReminderLog{}).
					Where("client_id = ? AND type = ? AND message LIKE ? AND status = ?",
						client.ID, "milestone", "%"+m.Type+"%", "sent").
					Count(&sent)
				if sent > 0 {
					continue
				}

				message := strings.ReplaceAll(template.Message, "[ClientName]", client.Name)
				message = strings.ReplaceAll(message, "[ChildName]", child.Name)
				message = strings.ReplaceAll(message, "[Milestone]", m.Type)

				s.deliver(studio, client, template, "milestone", message, nil)
			}
		}
	}
}

func (s *ReminderService) activeTemplate(studioID uuid.UUID, templateType string) (models.ReminderTemplate, bool) {
	var template models.ReminderTemplate
	if err := s.db.Where("studio_id = ? AND type = ? AND is_active = true", studioID, templateType).
		First(&template).Error; err != nil {
		log.Printf("Studio %s: no active template for %s: %v", studioID, templateType, err)
		return template, false
	}
	return template, true
}

func (s *ReminderService) deliver(studio models.User, client models.Client, template models.ReminderTemplate, reminderType, message string, appointmentID *uuid.UUID) {
	if !utils.ValidatePhone(client.Phone) {
		log.Printf("Studio %s: client %s has no usable phone number", studio.ID, client.ID)
		return
	}

	// Determine channel (WhatsApp if enabled and number is E.164, else SMS)
	channel := "sms"
	to := client.Phone
	if studio.WhatsAppReminders && strings.HasPrefix(client.Phone, "+") {
		to = "whatsapp:" + client.Phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send message to %s: %v", client.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", client.Phone, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", client.Phone)
	}

	reminderLog := models.ReminderLog{
		StudioID:      studio.ID,
		ClientID:      client.ID,
		AppointmentID: appointmentID,
		TemplateID:    template.ID,
		Type:          reminderType,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for client %s: %v", client.ID, err)
	}
}
