// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the blogpress API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"blogpress/internal/cache"
	"blogpress/internal/config"
	"blogpress/internal/database"
	"blogpress/internal/handlers"
	"blogpress/internal/identity"
	"blogpress/internal/middleware"
	"blogpress/internal/router"
	"blogpress/internal/sanitize"
	"blogpress/internal/storage"
	"blogpress/internal/store"
	"blogpress/internal/visitor"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"auth_provider", cfg.AuthProvider,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (optional; caches responses and verified tokens).
	var valkeyClient *redis.Client
	if cfg.CacheEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		slog.Info("valkey connected", "host", cfg.ValkeyHost)
	} else {
		slog.Warn("valkey not configured, caching disabled")
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	commentStore := store.NewCommentStore(db)
	likeStore := store.NewLikeStore(db)
	adminStore := store.NewAdminStore(db)

	// Identity provider behind the admin bearer gate.
	var provider identity.Provider
	switch cfg.AuthProvider {
	case config.AuthProviderSupabase:
		provider = identity.NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseAnonKey, &http.Client{Timeout: 10 * time.Second})
	default:
		provider = identity.NewLocalProvider(identity.LocalConfig{
			Secret: cfg.JWTSecret,
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.TokenTTL,
		}, adminStore)
	}
	if valkeyClient != nil {
		provider = identity.NewCachedProvider(provider, valkeyClient, cfg.AuthCacheTTL)
	}

	// Connect to S3-compatible object storage (optional; uploads are
	// disabled without it).
	var covers handlers.CoverStorage
	storageClient, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		covers = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, cover uploads disabled")
	}

	// A nil client yields a cache that stores nothing.
	var responseCache *cache.ResponseCache
	if valkeyClient != nil {
		responseCache = cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)
		// Bodies cached by a previous build may predate the migrations above.
		responseCache.InvalidateAll(context.Background())
	}

	deps := handlers.Deps{
		Posts:      postStore,
		Categories: categoryStore,
		Comments:   commentStore,
		Likes:      likeStore,
		Visitors:   visitor.NewProvider(!cfg.IsDev()),
		Storage:    covers,
		Cache:      responseCache,
		Sanitizer:  sanitize.New(),
		Validator:  handlers.NewValidator(),
	}

	limiter := middleware.NewRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst)
	defer limiter.Stop()
	limiter.TrustProxies(cfg.TrustedProxies...)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Handlers{
		Public: handlers.NewPublic(deps),
		Admin:  handlers.NewAdmin(deps),
		Auth:   handlers.NewAuth(provider, deps.Validator),
	}, provider, limiter)

	// Create the HTTP server with sensible timeouts. Cover uploads of up
	// to 10 MB need a longer read window than JSON requests.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
