// Package config loads the server's settings from the environment into a
// plain struct that main injects into every component, so nothing below the
// entrypoint reads os.Getenv directly.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Env distinguishes development (API only, SPA dev server proxies)
	// from production (prebuilt static assets served from StaticDir).
	Env       string
	StaticDir string

	// DatabaseDriver is "sqlite" or "mysql"; DatabaseDSN is a file path or
	// a go-sql-driver DSN respectively.
	DatabaseDriver string
	DatabaseDSN    string

	// AdminToken is the shared admin secret. Empty disables the check.
	AdminToken string

	// RedisAddr enables the product read cache when set.
	RedisAddr string

	// OTLPEndpoint enables trace export when set (host:port of a collector).
	OTLPEndpoint string

	LogLevel slog.Level

	// Store initialization retry policy.
	InitAttempts int
	InitDelay    time.Duration
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("APP_ENV", EnvDevelopment),
		StaticDir:      getEnv("STATIC_DIR", "dist"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "osouk.db"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
		InitAttempts:   getEnvInt("DB_INIT_ATTEMPTS", 8),
		InitDelay:      time.Duration(getEnvInt("DB_INIT_DELAY_SECONDS", 3)) * time.Second,
	}
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
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

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
