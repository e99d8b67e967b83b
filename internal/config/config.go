// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth provider names accepted in AUTH_PROVIDER.
const (
	AuthProviderLocal    = "local"
	AuthProviderSupabase = "supabase"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Empty host disables caching.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Identity provider used by the admin bearer-token gate.
	AuthProvider    string // "local" or "supabase"
	SupabaseURL     string
	SupabaseAnonKey string
	JWTSecret       string
	JWTIssuer       string
	TokenTTL        time.Duration
	AuthCacheTTL    time.Duration

	// S3-compatible object storage for cover images (optional).
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Per-IP limits on the public comment and like endpoints.
	PublicRateLimit float64 // requests per second
	PublicRateBurst int
	// Proxies allowed to set X-Forwarded-For. Empty means use the peer address.
	TrustedProxies []netip.Prefix

	// Development seed credentials for the local identity provider.
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first if present; real environment variables always win.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	env := envOrDefault("APP_ENV", "development")
	defaultLevel := "info"
	if env == "development" {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      env,
		LogLevel: envOrDefault("LOG_LEVEL", defaultLevel),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "blogpress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "blogpress"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AuthProvider:    strings.ToLower(envOrDefault("AUTH_PROVIDER", AuthProviderLocal)),
		SupabaseURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer:       envOrDefault("AUTH_JWT_ISSUER", "blogpress"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "cover-image"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		AdminEmail:    envOrDefault("ADMIN_EMAIL", "admin@blogpress.local"),
		AdminPassword: envOrDefault("ADMIN_PASSWORD", "admin"),
	}

	var err error
	if cfg.TokenTTL, err = durationOrDefault("AUTH_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.AuthCacheTTL, err = durationOrDefault("AUTH_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PublicRateLimit, err = floatOrDefault("PUBLIC_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.PublicRateBurst, err = intOrDefault("PUBLIC_RATE_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixList("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	switch cfg.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set when AUTH_PROVIDER=supabase")
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AuthProvider == AuthProviderLocal && cfg.JWTSecret == "" {
			return nil, fmt.Errorf("AUTH_JWT_SECRET must be set in production when AUTH_PROVIDER=local")
		}
	}

	// Development falls back to a fixed signing key so tokens survive restarts.
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "blogpress-development-secret"
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host was configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}

// StorageEnabled reports whether object storage credentials were configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatOrDefault(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// prefixList parses a comma-separated list of CIDRs or bare addresses.
func prefixList(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, p.Masked())
	}
	return out, nil
}
