package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/murmurhq/murmur-api/internal/api"
	"github.com/murmurhq/murmur-api/internal/config"
	"github.com/murmurhq/murmur-api/internal/platform/postgres"
	"github.com/murmurhq/murmur-api/internal/platform/redis"
	"github.com/murmurhq/murmur-api/internal/service/auth"
	"github.com/murmurhq/murmur-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	messageStore store.MessageStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	// Optional feed cache; nil when no Redis address is configured
	feedCache *redis.FeedCache
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hashing
	app.passwordHasher = auth.NewBcryptHasher()
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.messageStore = postgres.NewPostgresMessageStore(db, logger)

	// Initialize the optional feed cache
	if cfg.Cache.RedisAddr != "" {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		app.feedCache, err = redis.Connect(ctx, cfg.Cache.RedisAddr, ttl, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Feed cache initialized",
			"redis_addr", cfg.Cache.RedisAddr,
			"ttl_seconds", cfg.Cache.TTLSeconds)
	} else {
		logger.Info("Feed cache disabled, reads go straight to the database")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// messageFeedCache adapts the nil-ability of the concrete cache to the
// handler's interface. A typed nil inside a non-nil interface would defeat
// the handler's nil check.
func (app *application) messageFeedCache() api.FeedCache {
	if app.feedCache == nil {
		return nil
	}
	return app.feedCache
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.feedCache != nil {
		if err := app.feedCache.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
