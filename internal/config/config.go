package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	AllowedOrigins []string
	SeedAPIKey     string
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./drivelog.db"),
		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		SeedAPIKey:     os.Getenv("SEED_API_KEY"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
