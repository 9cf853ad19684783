package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Driver selects the persistence backend the store runs against.
type Driver string

const (
	DriverLocal    Driver = "local"
	DriverPostgres Driver = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Driver       Driver
	DatabaseURL  string
	SQLitePath   string
	ServerPort   int
	JWTSecretKey string
	OwnerID      string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	driver := Driver(getEnvOrDefault("STORAGE_DRIVER", string(DriverLocal)))
	switch driver {
	case DriverLocal, DriverPostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverLocal, DriverPostgres, driver)
	}

	cfg := &Config{
		Driver:       driver,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   getEnvOrDefault("SQLITE_PATH", "esport-calc.db"),
		JWTSecretKey: os.Getenv("JWT_SECRET_KEY"),
		OwnerID:      os.Getenv("OWNER_ID"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if driver == DriverPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("OWNER_ID environment variable is not set")
	}

	portStr := getEnvOrDefault("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	return cfg, nil
}

// R2Configured reports whether the logo uploader can be enabled.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
