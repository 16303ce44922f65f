package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/config"
	"github.com/phrazzld/choreclock/internal/events"
	"github.com/phrazzld/choreclock/internal/jobs"
	"github.com/phrazzld/choreclock/internal/lifecycle"
	"github.com/phrazzld/choreclock/internal/notify"
	"github.com/phrazzld/choreclock/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  clock.Clock
	db     *sql.DB

	store      store.SnapshotStore
	emitter    *events.InMemoryEventEmitter
	recorder   *events.Recorder
	controller *lifecycle.Controller
	scheduler  *notify.Scheduler

	notificationJob *jobs.NotificationJob
	runner          *jobs.Runner
}

// newApplication creates the application with every dependency initialized
// and the task state loaded.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	loc, err := clock.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		clock:  clock.RealClock{Location: loc},
	}

	app.store, app.db, err = setupStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.recorder = events.NewRecorder(events.DefaultRecorderCapacity)
	app.emitter.RegisterHandler(app.recorder)

	app.controller = lifecycle.NewController(app.store, app.clock, app.emitter, logger, cfg.Scheduler.HistoryLimit)
	result, err := app.controller.Load(ctx)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load task state: %w", err)
	}
	logger.Info("task state ready",
		slog.Int("completed", result.Checked),
		slog.Int("reset_on_load", len(result.Reset)))

	app.scheduler = notify.NewScheduler(logger)

	runnerJobs := []jobs.Job{jobs.NewResetSweepJob(app.controller, logger)}
	if cfg.Notifications.Enabled {
		deliverer := notify.MultiDeliverer{
			notify.LogDeliverer{Logger: logger},
			notify.EmitterDeliverer{Emitter: app.emitter, Clock: app.clock},
		}
		dispatcher := notify.NewDispatcher(deliverer, cfg.Notifications.SuppressTTL, logger)
		app.notificationJob = jobs.NewNotificationJob(
			app.controller,
			app.scheduler,
			dispatcher,
			app.clock,
			notify.PermissionDefault,
			logger,
		)
		runnerJobs = append(runnerJobs, app.notificationJob)
	}
	app.runner = jobs.NewRunner(jobs.RunnerConfig{Interval: cfg.Scheduler.PollInterval}, logger, runnerJobs...)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the background jobs and the HTTP server and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start job runner: %w", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
