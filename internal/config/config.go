package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"freightbill/internal/logger"
)

// Supported state backends.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

type Config struct {
	// Persisted state
	StoreDriver string
	StorePath   string

	// Invoice defaults
	Currency  string
	DueDays   int
	OutputDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		StoreDriver:   strings.ToLower(getEnv("FREIGHTBILL_STORE_DRIVER", DriverJSON)),
		StorePath:     getEnv("FREIGHTBILL_STORE_PATH", ""),
		Currency:      strings.ToUpper(getEnv("FREIGHTBILL_CURRENCY", "USD")),
		DueDays:       getEnvAsInt("FREIGHTBILL_DUE_DAYS", 30),
		OutputDir:     getEnv("FREIGHTBILL_OUTPUT_DIR", "."),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if config.StorePath == "" {
		config.StorePath = defaultStorePath(config.StoreDriver)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment is unusable.
func Default() *Config {
	return &Config{
		StoreDriver:   DriverJSON,
		StorePath:     defaultStorePath(DriverJSON),
		Currency:      "USD",
		DueDays:       30,
		OutputDir:     ".",
		LogLevel:      "info",
		LogFormat:     "console",
		LogTimeFormat: "2006-01-02T15:04:05Z07:00",
		LogOutput:     "stderr",
	}
}

func (c *Config) validate() error {
	if c.StoreDriver != DriverJSON && c.StoreDriver != DriverSQLite {
		return fmt.Errorf("FREIGHTBILL_STORE_DRIVER must be %q or %q, got %q", DriverJSON, DriverSQLite, c.StoreDriver)
	}
	if c.DueDays < 0 {
		return fmt.Errorf("FREIGHTBILL_DUE_DAYS must not be negative")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("FREIGHTBILL_CURRENCY must be a 3-letter code, got %q", c.Currency)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultStorePath(driver string) string {
	if driver == DriverSQLite {
		return "freightbill.db"
	}
	return "freightbill.json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
