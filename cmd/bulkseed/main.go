package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"VentureScanner/internal/app"
	"VentureScanner/internal/config"
	"VentureScanner/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Search.APIKey == "" {
		logger.Error("archive seeding needs a search api key")
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Seed(ctx); err != nil {
		logger.Error("seeding stopped", "error", err)
		os.Exit(1)
	}
}
