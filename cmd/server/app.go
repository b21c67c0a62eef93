package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/citasmx/citas-api/internal/api"
	"github.com/citasmx/citas-api/internal/api/middleware"
	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/events"
	"github.com/citasmx/citas-api/internal/platform/mailer"
	"github.com/citasmx/citas-api/internal/platform/metrics"
	"github.com/citasmx/citas-api/internal/platform/postgres"
	"github.com/citasmx/citas-api/internal/service/auth"
	"github.com/citasmx/citas-api/internal/service/availability"
	"github.com/citasmx/citas-api/internal/service/notification"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/citasmx/citas-api/internal/task"
)

// authService authenticates requests and issues tokens.
type authService interface {
	middleware.Authenticator
	api.TokenIssuer
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	// Stores behind the read-only resource endpoints
	resources api.Resources
	taskStore *postgres.PostgresTaskStore

	// Services
	auth         authService
	availability api.AvailabilityService
	resender     api.Resender
	tasks        task.Reader

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newPostgresResources creates one postgres store per resource on db.
func newPostgresResources(db *sql.DB, logger *slog.Logger) api.Resources {
	return api.Resources{
		Districts:     postgres.NewPostgresDistrictStore(db, logger),
		Offices:       postgres.NewPostgresOfficeStore(db, logger),
		Services:      postgres.NewPostgresServiceStore(db, logger),
		Schedules:     postgres.NewPostgresScheduleStore(db, logger),
		Holidays:      postgres.NewPostgresHolidayStore(db, logger),
		Clients:       postgres.NewPostgresClientStore(db, logger),
		Appointments:  postgres.NewPostgresAppointmentStore(db, logger),
		Surveys:       postgres.NewPostgresSurveyStore(db, logger),
		Payments:      postgres.NewPostgresPaymentStore(db, logger),
		Permissions:   postgres.NewPostgresPermissionStore(db, logger),
		Roles:         postgres.NewPostgresRoleStore(db, logger),
		Users:         postgres.NewPostgresUserStore(db, logger),
		Registrations: postgres.NewPostgresPendingStore(db, domain.PendingRegistration, logger),
		Recoveries:    postgres.NewPostgresPendingStore(db, domain.PendingRecovery, logger),
	}
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		metrics:   metrics.New(),
		resources: newPostgresResources(db, logger),
		taskStore: postgres.NewPostgresTaskStore(db, logger),
	}
	app.tasks = app.taskStore

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.auth, err = auth.NewService(
		cfg.Auth,
		jwtService,
		auth.NewBcryptVerifier(),
		app.resources.Users,
		app.resources.Roles,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	availabilityService, err := availability.NewService(cfg.Citas, availability.Stores{
		Offices:      app.resources.Offices,
		Services:     app.resources.Services,
		Schedules:    app.resources.Schedules,
		Holidays:     app.resources.Holidays,
		Appointments: app.resources.Appointments,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability service: %w", err)
	}
	app.availability = availabilityService

	if err := app.setupNotifications(ctx, availabilityService); err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupNotifications wires the mailer, the notification task factory, the
// task runner and the event emitter that connects the resend loop to them.
func (app *application) setupNotifications(ctx context.Context, avail *availability.Service) error {
	sender, err := mailer.NewSender(app.config.Mail, app.logger, mailer.WithObserver(app.metrics))
	if err != nil {
		return fmt.Errorf("failed to create mail sender: %w", err)
	}
	if !app.config.Mail.Enabled() {
		app.logger.Warn("mail provider not configured, notifications are logged only")
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to load mail templates: %w", err)
	}

	pending := []store.PendingStore{app.resources.Registrations, app.resources.Recoveries}
	factory, err := task.NewNotificationTaskFactory(task.NotificationDeps{
		Pending:   pending,
		Renderer:  renderer,
		Sender:    sender,
		PortalURL: app.config.Mail.PortalURL,
		Location:  avail.Location(),
		Logger:    app.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create notification task factory: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(app.taskStore, factory, task.ConfigFromSettings(app.config.Task), app.logger)
	app.taskRunner.SetObserver(app.metrics)
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(
		task.TaskTypeNotificationEmail,
		task.NewTaskFactoryEventHandler(factory, app.taskRunner, app.logger),
	)

	resender, err := notification.NewService(pending, app.eventEmitter, app.logger)
	if err != nil {
		app.taskRunner.Stop()
		return fmt.Errorf("failed to create notification service: %w", err)
	}
	app.resender = resender

	app.logger.InfoContext(ctx, "Notification pipeline initialized",
		"workers", app.config.Task.WorkerCount,
		"queue_size", app.config.Task.QueueSize)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		app.cleanup()
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
