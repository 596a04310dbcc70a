package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the application.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Cloudflare R2, optional. Logo endpoints are disabled when unset.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// FRC stats API, optional. The periodic catalog sync is skipped when
	// unset.
	FRCAPIBaseURL   string
	FRCAPIKey       string
	TeamSyncEnabled bool
	TeamSync        time.Duration

	SeasonWeeks int
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	seasonWeeks, err := intEnv("SEASON_WEEKS", 10)
	if err != nil {
		return nil, err
	}
	if seasonWeeks < 1 {
		return nil, fmt.Errorf("SEASON_WEEKS must be positive, got %d", seasonWeeks)
	}

	syncMinutes, err := intEnv("TEAM_SYNC_INTERVAL_MINUTES", 360)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		FRCAPIBaseURL: os.Getenv("FRC_API_BASE_URL"),
		FRCAPIKey:     os.Getenv("FRC_API_KEY"),
		TeamSync:      time.Duration(syncMinutes) * time.Minute,

		SeasonWeeks: seasonWeeks,
	}
	cfg.TeamSyncEnabled = cfg.FRCAPIBaseURL != "" && cfg.FRCAPIKey != ""

	return cfg, nil
}

// R2Configured reports whether all object storage settings are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return value, nil
}
