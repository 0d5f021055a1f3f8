package main

import (
	"fmt"
	"log"
	"os"
	"snapstudio-backend/config"
	"snapstudio-backend/models"
	"snapstudio-backend/routes"
	"snapstudio-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// A broken schedule must never serve age calculations
	if err := config.LoadMilestoneSchedule(); err != nil {
		log.Fatalf("Invalid milestone configuration: %v", err)
	}

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Package{},
		&models.PackageCustomization{},
		&models.Appointment{},
		&models.ReminderTemplate{},
		&models.ReminderLog{},
	)
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	reminderService := services.NewReminderService(config.DB, config.Milestones)
	reminderService.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
