package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/choreclock/internal/config"
	"github.com/phrazzld/choreclock/internal/platform/filestore"
	"github.com/phrazzld/choreclock/internal/platform/postgres"
	"github.com/phrazzld/choreclock/internal/store"
)

// setupStore builds the snapshot store selected by store.driver. For the
// postgres driver it also returns the open database, which the caller closes.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.SnapshotStore, *sql.DB, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, state is lost on restart")
		return store.NewMemoryStore(nil), nil, nil

	case config.DriverFile:
		logger.Info("using file store", slog.String("path", cfg.Store.FilePath))
		return filestore.New(cfg.Store.FilePath, logger), nil, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database connection established", slog.String("snapshot_key", cfg.Store.Key))
		return postgres.NewSnapshotStore(db, cfg.Store.Key), db, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
