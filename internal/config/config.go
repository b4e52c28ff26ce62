// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend selectors.
const (
	BackendSQLite = "sqlite"
	BackendCache  = "cache"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string

	// StoreBackend selects the progress store implementation:
	// BackendSQLite (relational) or BackendCache (in-process).
	StoreBackend string
	DBPath       string
	// CacheLatency delays cache-backend operations to mimic a remote
	// store. Zero disables the delay.
	CacheLatency time.Duration

	GeminiAPIKey string
	GeminiModel  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3001"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DBPath:       getEnv("DB_PATH", "./data/pytutor.db"),
		CacheLatency: time.Duration(getEnvInt("CACHE_LATENCY_MS", 0)) * time.Millisecond,
		GeminiAPIKey: getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty with the sqlite backend")
		}
	case BackendCache:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendCache, c.StoreBackend)
	}
	if c.CacheLatency < 0 {
		return fmt.Errorf("CACHE_LATENCY_MS cannot be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
