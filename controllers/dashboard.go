package controllers

import (
	"fmt"
	"net/http"
	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/services"
	"snapstudio-backend/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpcomingMilestone struct {
	ClientName string `json:"clientName"`
	ChildName  string `json:"childName"`
	Milestone  string `json:"milestone"`
	Date       string `json:"date"` // e.g. "Today", "Tomorrow", "12 days"
}

type RecentSession struct {
	ClientName  string `json:"clientName"`
	SessionType string `json:"sessionType"`
	SessionDate string `json:"sessionDate"` // e.g. "Today", "Yesterday"
}

type ReferralSourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

func GetDashboardOverview(c *gin.Context) {
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

	// Total Clients
	var totalClients int64
	config.DB.Model(&models.Client{}).
		Where("studio_id = ? AND is_active = ? AND deleted_at IS NULL", studioUUID, true).
		Count(&totalClients)

	// This Month's Revenue (booked value of non-cancelled sessions)
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	config.DB.Model(&models.Appointment{}).
		Where("studio_id = ? AND start_time >= ? AND status <> ? AND deleted_at IS NULL",
			studioUUID, firstOfMonth, models.AppointmentCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&monthlyRevenue)

	// Upcoming sessions in the next 7 days
	var upcomingSessions int64
	config.DB.Model(&models.Appointment{}).
		Where("studio_id = ? AND status = ? AND start_time BETWEEN ? AND ? AND deleted_at IS NULL",
			studioUUID, models.AppointmentConfirmed, now, now.AddDate(0, 0, 7)).
		Count(&upcomingSessions)

	// Milestones entering their window in the next 30 days. Children live in
	// a JSONB column, so the walk happens in Go over the active clients.
	var clients []models.Client
	config.DB.Where("studio_id = ? AND is_active = ?", studioUUID, true).Find(&clients)

	milestones := milestoneService()
	var upcomingMilestones []UpcomingMilestone
	horizon := now.AddDate(0, 0, 30)
	for _, client := range clients {
		for _, child := range client.Children {
			states, err := milestones.EvaluateMilestones(child.BirthDate, now)
			if err != nil {
				continue
			}
			for _, m := range states {
				if m.Status == services.MilestoneCompleted {
					continue
				}
				windowOpens := m.TargetDate.AddDate(0, 0, -milestones.GraceDays())
				if windowOpens.After(horizon) {
					continue
				}
				daysUntil := utils.DaysBetween(now, windowOpens)
				var label string
				switch {
				case daysUntil <= 0:
					label = "Open now"
				case daysUntil == 1:
					label = "Tomorrow"
				default:
					label = fmt.Sprintf("%d days", daysUntil)
				}
				upcomingMilestones = append(upcomingMilestones, UpcomingMilestone{
					ClientName: client.Name,
					ChildName:  child.Name,
					Milestone:  m.Type,
					Date:       label,
				})
			}
		}
		if len(upcomingMilestones) >= 7 {
			upcomingMilestones = upcomingMilestones[:7]
			break
		}
	}

	// Recent sessions (last 3 distinct clients)
	var recentSessions []RecentSession
	var recent []models.Appointment
	config.DB.Where("studio_id = ? AND start_time <= ? AND status <> ?",
		studioUUID, now, models.AppointmentCancelled).
		Order("start_time DESC").Limit(20).Find(&recent)
	seen := make(map[uuid.UUID]bool)
	for _, apt := range recent {
		if seen[apt.ClientID] {
			continue
		}
		daysAgo := int(now.Sub(apt.StartTime).Hours() / 24)
		var label string
		switch daysAgo {
		case 0:
			label = "Today"
		case 1:
			label = "Yesterday"
		default:
			label = fmt.Sprintf("%d days ago", daysAgo)
		}
		recentSessions = append(recentSessions, RecentSession{
			ClientName:  apt.ClientName,
			SessionType: apt.SessionType,
			SessionDate: label,
		})
		seen[apt.ClientID] = true
		if len(recentSessions) >= 3 {
			break
		}
	}

	// Top referral sources
	var referralSources []ReferralSourceCount
	config.DB.Model(&models.Client{}).
		Where("studio_id = ? AND referral_source <> '' AND deleted_at IS NULL", studioUUID).
		Select("referral_source as source, COUNT(*) as count").
		Group("referral_source").
		Order("count DESC").
		Limit(5).
		Scan(&referralSources)

	c.JSON(http.StatusOK, gin.H{
		"totalClients":       totalClients,
		"monthlyRevenue":     monthlyRevenue,
		"upcomingSessions":   upcomingSessions,
		"upcomingMilestones": upcomingMilestones,
		"recentSessions":     recentSessions,
		"topReferralSources": referralSources,
	})
}
