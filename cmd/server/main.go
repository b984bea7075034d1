// Package main is the entry point of the TutorWay account API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/tutorway/tutorway-api/internal/config"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
	"github.com/tutorway/tutorway-api/internal/platform/postgres"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory searched for config.yaml")
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	flag.Parse()

	if err := run(context.Background(), *configDir, *migrateOnly); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and serves until a
// shutdown signal arrives. With migrateOnly it applies migrations and returns.
func run(ctx context.Context, configDir string, migrateOnly bool) error {
	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("mail_enabled", cfg.Mail.Enabled()))

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateOnly || cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return err
		}
		if migrateOnly {
			return db.Close()
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
