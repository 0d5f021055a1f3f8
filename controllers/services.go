// controllers/services.go
package controllers

import (
	"snapstudio-backend/config"
	"snapstudio-backend/services"
)

// Service constructors are cheap; each handler wires the chain it needs on
// top of the shared DB handle and the startup-validated milestone schedule.

func catalogService() *services.CatalogService {
	return services.NewCatalogService(services.NewGormCatalogStore(config.DB))
}

func milestoneService() *services.MilestoneService {
	return services.NewMilestoneService(config.Milestones)
}

func recommendationService() *services.RecommendationService {
	return services.NewRecommendationService(catalogService(), milestoneService())
}

func packetService() *services.PacketService {
	return services.NewPacketService(recommendationService(), milestoneService())
}
