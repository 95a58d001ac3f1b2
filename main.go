package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/cache"
	"github.com/homeplate/homeplate-app/config"
	"github.com/homeplate/homeplate-app/database"
	"github.com/homeplate/homeplate-app/events"
	"github.com/homeplate/homeplate-app/middlewares"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/router"
	"github.com/homeplate/homeplate-app/services"
	"github.com/homeplate/homeplate-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	redisClient := config.InitRedis()
	cartStore := cache.NewCartStore(redisClient, 24*time.Hour)

	publisher := events.NewOrderPublisher(config.InitKafkaWriter())
	if publisher.Writer == nil {
		utils.InfoLogger.Println("KAFKA_BROKERS not set, order event stream disabled")
	}

	// Re-broadcast writes that bypass this process (other instances,
	// manual SQL) so live subscribers converge.
	monitor := services.NewChangeMonitor(db)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	go func() {
		for range time.Tick(1 * time.Hour) {
			utils.CleanupBlacklist()
		}
	}()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, cartStore, publisher)
	r.Use(rateLimiter.RateLimit())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.CookVerification{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
