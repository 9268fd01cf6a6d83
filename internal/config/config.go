package config

import (
	"os"

	"task_manager/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	LogLevel    string
	LogJSON     bool
}

// Load reads configuration from the environment, after loading .env
// if one is present.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return &Config{
		DatabaseURL: dbURL,
		LogLevel:    level,
		LogJSON:     os.Getenv("LOG_JSON") == "true",
	}
}
