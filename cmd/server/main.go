package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/murmurhq/murmur-api/internal/config"
	"github.com/murmurhq/murmur-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

// run wires the application together and starts it. Separated from main so
// failures flow back as errors instead of os.Exit scattering.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupAppDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
