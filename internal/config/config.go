package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins string
	// PollInterval is the single polling interval dashboard clients should
	// use, surfaced through the dashboard summary endpoint.
	PollInterval   time.Duration
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:           fallback(os.Getenv("PORT"), "4000"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		AdminEmail:     strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminFirstName: fallback(os.Getenv("ADMIN_FIRST_NAME"), "Farm"),
		AdminLastName:  fallback(os.Getenv("ADMIN_LAST_NAME"), "Admin"),
	}

	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "24")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 24 * time.Hour
	}

	seconds := fallback(os.Getenv("POLL_INTERVAL_SECONDS"), "25")
	if pollSeconds, err := strconv.Atoi(seconds); err == nil && pollSeconds > 0 {
		cfg.PollInterval = time.Duration(pollSeconds) * time.Second
	} else {
		cfg.PollInterval = 25 * time.Second
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
