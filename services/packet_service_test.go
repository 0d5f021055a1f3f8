package services

import (
	"testing"
	"time"

	"snapstudio-backend/config"
	"snapstudio-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPacket(t *testing.T) {
	catalog, _ := newCatalog()
	milestones := NewMilestoneService(config.DefaultMilestoneSchedule())
	recommender := NewRecommendationService(catalog, milestones)
	svc := NewPacketService(recommender, milestones)

	newborn := catalogPackage("Newborn Classic", models.CategoryNewborn)
	newborn.RecommendedAge = "5-14 days"
	newborn.Description = "Studio newborn session"
	addPackage(t, catalog, newborn)

	family := catalogPackage("Family Lifestyle", models.CategoryFamily)
	addPackage(t, catalog, family)

	studio := &models.User{
		StudioName:    "Little Light Studio",
		StudioAddress: "12 Gallery Lane",
		Phone:         "+14155550100",
		Email:         "hello@littlelight.example",
	}
	client := newbornClient(day(2024, time.March, 1))

	asOf := day(2024, time.March, 11)
	packet, err := svc.BuildPacket(studio, client, asOf, 0)
	require.NoError(t, err)

	assert.Equal(t, asOf, packet.GeneratedAt)
	assert.Equal(t, "Little Light Studio", packet.Studio.Name)
	assert.Equal(t, client.Name, packet.Client.Name)
	assert.Equal(t, "newborn", packet.Client.FamilyType)

	require.Len(t, packet.Children, 1)
	assert.Equal(t, "Aarav", packet.Children[0].ChildName)
	assert.Equal(t, 10, packet.Children[0].AgeInDays)
	assert.Len(t, packet.Children[0].Milestones, 5)

	require.Len(t, packet.Recommendations, 2)
	assert.Equal(t, "Newborn Classic", packet.Recommendations[0].Name)
	assert.NotEmpty(t, packet.Recommendations[0].Rationale)
	assert.Equal(t, "Family Lifestyle", packet.Recommendations[1].Name)

	// Same inputs, same packet
	again, err := svc.BuildPacket(studio, client, asOf, 0)
	require.NoError(t, err)
	assert.Equal(t, packet, again)
}

func TestBuildPacketForExpectingClient(t *testing.T) {
	catalog, _ := newCatalog()
	milestones := NewMilestoneService(config.DefaultMilestoneSchedule())
	recommender := NewRecommendationService(catalog, milestones)
	svc := NewPacketService(recommender, milestones)

	maternity := catalogPackage("Golden Hour Bump", models.CategoryMaternity)
	maternity.RecommendedWeeks = "28-36 weeks"
	addPackage(t, catalog, maternity)

	due := day(2024, time.September, 1)
	client := &models.Client{
		ID:         uuid.New(),
		Name:       "Meera Patel",
		Phone:      "+14155550145",
		FamilyType: models.FamilyExpecting,
		DueDate:    &due,
		IsActive:   true,
	}

	packet, err := svc.BuildPacket(&models.User{StudioName: "Little Light Studio"}, client, day(2024, time.June, 9), 0)
	require.NoError(t, err)

	assert.Empty(t, packet.Children)
	require.NotNil(t, packet.Client.DueDate)
	require.Len(t, packet.Recommendations, 1)
	assert.Equal(t, "Golden Hour Bump", packet.Recommendations[0].Name)
}
