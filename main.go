package main

import (
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"fiich/config"
	"fiich/middleware"
	"fiich/routes"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "FIICH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry when a DSN is configured
	if config.AppConfig.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize Sentry: %v", err)
		}
	}

	// Initialize database connection
	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(app, db)

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
