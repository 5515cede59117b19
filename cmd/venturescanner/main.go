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

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("pipeline stopped", "error", err)
		os.Exit(1)
	}
}
