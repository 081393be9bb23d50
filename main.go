package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"freightbill/cmd"
	"freightbill/internal/config"
	"freightbill/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration, using defaults: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().
		Str("store_driver", cfg.StoreDriver).
		Str("store_path", cfg.StorePath).
		Msg("Starting freightbill")

	cmd.Execute(cfg)
}
