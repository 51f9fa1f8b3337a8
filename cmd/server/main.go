package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/adapters/http/routes"
	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/config"
	"vgt-backoffice/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "vgt-backoffice/docs" // Swagger docs
)

// @title VGT Back Office API
// @version 1.0
// @description Consignment booking, lorry challans and master data for the VGT transport back office

// @contact.name API Support
// @contact.email it@vgt.in

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	if err := logger.Setup(cfg.IsDev(), cfg.LogFile); err != nil {
		logger.Fatal("Failed to set up logging", err)
	}

	// Business dates (booking day, challan period) are in the office timezone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", err)
	}
	time.Local = loc

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			logger.Error("Failed to close database", err)
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to auto migrate", err)
	}
	logger.Success("Database migration completed")

	svc := routes.NewServices(db, cfg)

	config.NewSeeder(db, svc.User, cfg.SeedAdmin).Run(context.Background())

	// Nightly token and session housekeeping
	if err := svc.Cron.Start(); err != nil {
		logger.Fatal("Failed to start cleanup job", err)
	}
	defer svc.Cron.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "VGT Back Office API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	routes.Setup(app, db, cfg, svc)

	// Graceful shutdown
	go gracefulShutdown(app)

	logger.Infof("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("Server stopped with error", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during shutdown", err)
	}
	logger.Success("Server stopped gracefully")
}
