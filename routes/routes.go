package routes

import (
	"snapstudio-backend/config"
	"snapstudio-backend/controllers"
	"snapstudio-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.snapstudio.photos",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "https://app.snapstudio.photos" ||
				origin == "http://localhost:3000"
		},
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.ArchiveClient)

			clients.POST("/:id/children", controllers.RecordBirth)
			clients.GET("/:id/milestones", controllers.GetClientMilestones)

			clients.GET("/:id/recommendations", controllers.GetRecommendations)
			clients.POST("/:id/customizations/:packageId", controllers.CustomizePackage)
			clients.GET("/:id/customizations/:packageId", controllers.GetCustomizedPackage)
			clients.GET("/:id/packet", controllers.GetClientPacket)
		}

		// Package catalog routes
		packages := api.Group("/packages")
		{
			packages.POST("", controllers.CreatePackage)
			packages.GET("", controllers.GetPackages)
			packages.GET("/:id", controllers.GetPackage)
			packages.PUT("/:id", controllers.UpdatePackage)
			packages.DELETE("/:id", controllers.DeletePackage)
			packages.POST("/:id/deactivate", controllers.DeactivatePackage)
			packages.POST("/:id/reactivate", controllers.ReactivatePackage)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.POST("/:id/cancel", controllers.CancelAppointment)
		}

		// Reminder template routes
		templates := api.Group("/reminder-templates")
		{
			templates.POST("", controllers.CreateReminderTemplate)
			templates.GET("", controllers.GetReminderTemplates)
			templates.GET("/:id", controllers.GetReminderTemplate)
			templates.PUT("/:id", controllers.UpdateReminderTemplate)
			templates.DELETE("/:id", controllers.DeleteReminderTemplate)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-studio", controllers.UpdateProfile)
			profile.PUT("/update-hours", controllers.UpdateWorkingHours)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	return r
}
