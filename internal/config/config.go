package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application-wide configuration. It is read once from the
// environment at startup and treated as immutable afterwards.
type Config struct {
	// Server
	ServerAddr string
	BaseURL    string

	// Google OAuth (user sign-in and CLI token bootstrap)
	GoogleClientID     string
	GoogleClientSecret string

	// Rate limiting for the /api endpoints, per client
	RateLimitPerMinute int
	RateLimitBurst     int

	// Shutdown
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Metrics server
	MetricsEnabled bool
	MetricsAddr    string
}

// Load reads the configuration from environment variables, applying
// defaults for everything optional. The service-account key for sheet reads
// is intentionally not required here: the load-sheet endpoint reports its
// absence per request so the rest of the service still runs.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:         getEnvString("SERVER_ADDR", ":3000"),
		BaseURL:            getEnvString("BASE_URL", "http://localhost:3000"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		LogLevel:           getEnvString("LOG_LEVEL", "info"),
		LogFormat:          getEnvString("LOG_FORMAT", "text"),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		MetricsAddr:        getEnvString("METRICS_ADDR", ":9090"),
	}

	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", cfg.RateLimitBurst)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
