package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"laundrypro-backend/config"
	"laundrypro-backend/controllers"
	"laundrypro-backend/models"
	"laundrypro-backend/routes"
	"laundrypro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Address{},
		&models.Rider{},
		&models.Category{},
		&models.Subcategory{},
		&models.Service{},
		&models.Order{},
		&models.ServiceRequest{},
		&models.Setting{},
	)

	seedDefaultSettings(config.DB)
}

func main() {
	notifier := services.NewNotificationService(config.DB)
	notifier.StartScheduler()
	controllers.Notifier = notifier

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func seedDefaultSettings(db *gorm.DB) {
	db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Setting{
		Key:   models.SettingRiderLinkExpiryHours,
		Value: strconv.Itoa(models.DefaultRiderLinkExpiryHours),
	})
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
