package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	JWTSecret     string
	SessionSecret string // key for legacy signed-cookie credentials
	CORSOrigin    string
	AdminUsername string
	AdminPassword string
	IsProd        bool
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	jwtSecret := getEnv("JWT_SECRET", "dev-insecure-jwt-secret-change-me")

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./astreus.db"),
		JWTSecret:     jwtSecret,
		SessionSecret: getEnv("SESSION_SECRET", jwtSecret),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		IsProd:        os.Getenv("APP_ENV") == "production",
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
