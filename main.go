package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize logger for bootstrapping
	bootLogger, err := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Format: logger.FormatJSON, Output: "stdout"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.NewConfigService(bootLogger).Load(".")
	if err != nil {
		bootLogger.LogFatal(err, "Failed to load configuration")
	}

	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		bootLogger.LogFatal(err, "Failed to initialize logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.LogFatal(err, "Failed to initialize application")
	}

	if err := app.Run(); err != nil {
		appLogger.LogFatal(err, "Failed to start application")
	}

	<-ctx.Done()
	appLogger.LogInfo("Received shutdown signal", nil)

	if err := app.Shutdown(); err != nil {
		appLogger.LogError(err, "Error during shutdown")
		logger.Close(appLogger)
		os.Exit(1)
	}
	logger.Close(appLogger)
}
