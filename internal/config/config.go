package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	WebRoot        string // Directory with the static front-end
	StatsSchedule  string // Cron expression for the stats reporter
	AllowedOrigins []string
	LogLevel       string
}

// Load loads configuration from the environment (and a .env file, when
// present) or sets defaults.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments use plain env vars.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./catalogo.db"),
		WebRoot:        getEnv("WEB_ROOT", "./web"),
		StatsSchedule:  getEnv("STATS_SCHEDULE", "@every 5m"),
		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
