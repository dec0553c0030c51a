package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string
	BaseURL     string

	DatabaseDriver string // sqlite, postgres or mysql
	DatabaseDSN    string

	JWTSecret     string
	JWTTTL        time.Duration
	JWTRefreshTTL time.Duration

	LogLevel  string
	LogFormat string // json or console

	SeedBadges bool
}

// Load reads configuration from the environment (and a .env file when present)
// with sensible defaults. Values that fail to parse fall back to their default
// and are reported in the returned warnings.
func Load() (*Config, []string) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	var warnings []string

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BaseURL:        getEnv("WEPLANET_BASE_URL", "http://localhost:8080"),
		DatabaseDriver: getEnv("WEPLANET_DB_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("WEPLANET_DB_DSN", "weplanet.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	ttl, err := getDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	cfg.JWTTTL = ttl

	refreshTTL, err := getDuration("JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	cfg.JWTRefreshTTL = refreshTTL

	seed, err := getBool("WEPLANET_SEED_BADGES", true)
	if err != nil {
		warnings = append(warnings, err.Error())
	}
	cfg.SeedBadges = seed

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres", "mysql":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown WEPLANET_DB_DRIVER %q, using sqlite", cfg.DatabaseDriver))
		cfg.DatabaseDriver = "sqlite"
	}

	return cfg, warnings
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue, fmt.Errorf("invalid %s %q, using %s", key, raw, defaultValue)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q, using %t", key, raw, defaultValue)
	}
	return b, nil
}
