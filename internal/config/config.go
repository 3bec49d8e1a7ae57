// Package config loads application settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultSecretKey is used when SECRET_KEY is unset. It is only safe for local development.
const DefaultSecretKey = "dev"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	HTTPAddr string

	// DatabaseURL selects the driver by scheme (postgres://, mysql://, sqlite://).
	// When empty, DatabaseFile is opened with SQLite.
	DatabaseURL  string
	DatabaseFile string

	SecretKey    string
	SessionTTL   time.Duration
	CookieSecure bool

	// Redis is optional; it is enabled when RedisHost is set.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	// LoginRateLimit is the number of POST /login attempts allowed per minute per client IP.
	// Zero disables the limiter.
	LoginRateLimit int

	LogLevel  string
	LogFormat string
}

// RedisEnabled reports whether a Redis host was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port for the Redis client.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// UsesDefaultSecret reports whether the development signing key is in use.
func (c Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Load reads the configuration from the environment and applies defaults.
// It returns an error when a value is present but malformed.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		DatabaseFile:  getenv("DATABASE_FILE", "data.db"),
		SecretKey:     getenv("SECRET_KEY", DefaultSecretKey),
		RedisHost:     getenv("REDIS_HOST", ""),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit, err = intEnv("LOGIN_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.LoginRateLimit < 0 {
		return Config{}, fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
