package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tutorway/tutorway-api/internal/config"
	"github.com/tutorway/tutorway-api/internal/notify"
	"github.com/tutorway/tutorway-api/internal/platform/mail"
	"github.com/tutorway/tutorway-api/internal/platform/postgres"
	"github.com/tutorway/tutorway-api/internal/redact"
	"github.com/tutorway/tutorway-api/internal/service"
	"github.com/tutorway/tutorway-api/internal/service/auth"
	"github.com/tutorway/tutorway-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountStore   store.AccountStore
	hasher         auth.PasswordHasher
	dispatcher     *notify.Dispatcher
	accountService service.AccountService
}

// newApplication wires every dependency on top of an open database.
// The notification dispatcher is started before it returns.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	sender, err := newSender(cfg.Mail, logger)
	if err != nil {
		return nil, err
	}

	app.dispatcher, err = notify.NewDispatcher(sender, notify.Config{
		QueueSize:   cfg.Notify.QueueSize,
		WorkerCount: cfg.Notify.WorkerCount,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification dispatcher: %w", err)
	}

	app.accountService, err = service.NewAccountService(
		app.accountStore,
		app.hasher,
		app.dispatcher,
		logger,
		service.AccountServiceOptions{AppName: cfg.Mail.AppName},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.dispatcher.Start()

	logger.Info("application initialized",
		slog.Int("notify_workers", cfg.Notify.WorkerCount),
		slog.Int("notify_queue_size", cfg.Notify.QueueSize))
	return app, nil
}

// newSender picks SMTP delivery when mail is configured and log-only delivery otherwise.
func newSender(cfg config.MailConfig, logger *slog.Logger) (notify.Sender, error) {
	if !cfg.Enabled() {
		logger.Warn("mail host not configured, notifications will only be logged")
		return notify.NewLogSender(logger), nil
	}

	sender, err := mail.NewSMTPSender(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP sender: %w", err)
	}
	logger.Info("SMTP delivery enabled",
		slog.String("host", cfg.Host),
		slog.Int("port", cfg.Port))
	return sender, nil
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains the notification queue and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Warn("notification queue not drained before shutdown",
				slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", redact.Error(err)))
		}
	}
}
