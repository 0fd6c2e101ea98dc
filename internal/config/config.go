// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// HTTP server
	BindAddr string

	// Database
	SQLiteDBPath string

	// Session tokens
	JWTSecret     string
	TokenDuration time.Duration

	// Balance cache
	CacheBackend  string // "memory" or "redis"
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Store access
	SaveRetries  int
	StoreTimeout time.Duration
}

// Load reads configuration from environment variables, loading .env
// first when present.
func Load() (*Config, error) {
	// Non-fatal if missing
	_ = godotenv.Load()

	cfg := &Config{
		BindAddr:      getEnv("BIND_ADDR", ":8080"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/splitsmart.db"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-change-me"),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Second),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		SaveRetries:   getEnvInt("SAVE_RETRIES", 3),
		StoreTimeout:  getEnvDuration("STORE_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		return fmt.Errorf("invalid CACHE_BACKEND %q: must be \"memory\" or \"redis\"", c.CacheBackend)
	}
	if c.SaveRetries < 0 {
		return fmt.Errorf("invalid SAVE_RETRIES %d: must not be negative", c.SaveRetries)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("invalid STORE_TIMEOUT %s: must be positive", c.StoreTimeout)
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("invalid TOKEN_DURATION %s: must be positive", c.TokenDuration)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
