// Package filestore persists the household snapshot as a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/store"
)

// Store reads and writes a snapshot file. Writes go to a temporary file in
// the same directory which is then renamed over the target, so readers never
// see a partially written file.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ store.SnapshotStore = (*Store)(nil)

// New returns a store for the file at path. The file need not exist yet.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With("component", "file_store", "path", path),
	}
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("snapshot file not found, starting empty")
		return &domain.Snapshot{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("snapshot", "load", "failed to read file", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, store.NewStoreError("snapshot", "load", "file is not a valid snapshot",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	return &snap, nil
}

// Save writes the snapshot atomically.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return store.NewStoreError("snapshot", "save", "snapshot is nil", store.ErrInvalidEntity)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return store.NewStoreError("snapshot", "save", "failed to encode snapshot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.NewStoreError("snapshot", "save", "failed to create directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return store.NewStoreError("snapshot", "save", "failed to create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return store.NewStoreError("snapshot", "save", "failed to write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return store.NewStoreError("snapshot", "save", "failed to sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return store.NewStoreError("snapshot", "save", "failed to close temp file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return store.NewStoreError("snapshot", "save", "failed to replace snapshot file", err)
	}

	s.logger.Debug("snapshot saved", "tasks", len(snap.Tasks), "bytes", len(data))
	return nil
}
