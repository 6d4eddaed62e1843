// Copyright (c) 2026 ProComm Media SRL <hello@procomm.media>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the ProComm backend server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procomm/internal/cache"
	"procomm/internal/config"
	"procomm/internal/database"
	"procomm/internal/handlers"
	"procomm/internal/mailer"
	"procomm/internal/middleware"
	"procomm/internal/router"
	"procomm/internal/session"
	"procomm/internal/storage"
	"procomm/internal/store"
)

func main() {
	// Structured logger — JSON in production, text in development.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
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
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. Outside development, session
	// cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	galleryStore := store.NewGalleryStore(db)
	contactStore := store.NewContactStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// Content cache and its invalidator, with an audit trail in Postgres.
	contentCache := cache.NewContentCache(valkeyClient, cache.DefaultContentTTL)
	invalidator := cache.NewInvalidator(contentCache, cacheLogStore)

	// S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize s3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — gallery uploads disabled")
	}

	// Outbound mail (optional — contact mail is skipped without it).
	var mail *mailer.Mailer
	if cfg.SMTPConfigured() {
		mail, err = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ContactEmail)
		if err != nil {
			slog.Error("failed to initialize mailer", "error", err)
			os.Exit(1)
		}
		slog.Info("smtp mailer configured", "host", cfg.SMTPHost)
	} else {
		slog.Warn("smtp not configured — contact mail disabled")
	}

	// Rate limiter for the public contact form.
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer contactLimiter.Stop()

	// Handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(postStore, galleryStore, contactStore, contentCache, mail)
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	adminHandlers := handlers.NewAdmin(postStore, galleryStore, contactStore, userStore, cacheLogStore, invalidator, storageClient, mail)

	// Chi router with all middleware and routes.
	r := router.New(sessionStore, publicHandlers, authHandlers, adminHandlers, router.Options{
		Secure:         secureCookies,
		ContactLimiter: contactLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
