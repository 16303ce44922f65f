package store

import (
	"context"
	"sync"

	"github.com/phrazzld/choreclock/internal/domain"
)

// SnapshotStore loads and saves the household snapshot.
//
// Load returns an empty snapshot, not an error, when nothing has been saved
// yet. Implementations must not retain the snapshot passed to Save.
type SnapshotStore interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snap  *domain.Snapshot
	saves int
}

// NewMemoryStore returns a store seeded with a copy of initial, which may be nil.
func NewMemoryStore(initial *domain.Snapshot) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		s.snap = initial.Clone()
	}
	return s
}

// Load returns a deep copy of the stored snapshot.
func (s *MemoryStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// Save replaces the stored snapshot with a deep copy of snap.
func (s *MemoryStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return NewStoreError("snapshot", "save", "snapshot is nil", ErrInvalidEntity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save has succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
