package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/platform/logger"
	"github.com/phrazzld/choreclock/internal/store"
)

// SnapshotStore implements store.SnapshotStore on PostgreSQL.
type SnapshotStore struct {
	db  *sql.DB
	key string
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore returns a store for the snapshot saved under key.
func NewSnapshotStore(db *sql.DB, key string) *SnapshotStore {
	return &SnapshotStore{db: db, key: key}
}

// Load reads the snapshot. A key with no row yields an empty snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	log := logger.FromContext(ctx)

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = $1`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no snapshot stored yet, starting empty", "key", s.key)
		return &domain.Snapshot{}, nil
	}
	if err != nil {
		log.Error("failed to load snapshot", "key", s.key, "error", err)
		return nil, store.NewStoreError("snapshot", "load", "query failed", MapError(err))
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, store.NewStoreError("snapshot", "load", "stored document is not a valid snapshot",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	return &snap, nil
}

// Save upserts the snapshot and records its history in task_history within
// one transaction. History rows already present are left untouched.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return store.NewStoreError("snapshot", "save", "snapshot is nil", store.ErrInvalidEntity)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return store.NewStoreError("snapshot", "save", "failed to encode snapshot", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (key, data, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		`, s.key, data); err != nil {
			return MapError(err)
		}
		return s.appendHistory(ctx, tx, snap.History)
	})
	if err != nil {
		return store.NewStoreError("snapshot", "save", "transaction failed", err)
	}
	return nil
}

// historyBatchSize bounds the rows per INSERT so a statement stays well under
// the PostgreSQL limit of 65535 bind parameters.
const historyBatchSize = 500

const historyColumns = 7

// appendHistory writes records with one multi-row INSERT per batch. Rows that
// already exist are skipped by the primary key.
func (s *SnapshotStore) appendHistory(ctx context.Context, db store.DBTX, records []domain.HistoryRecord) error {
	for len(records) > 0 {
		n := min(len(records), historyBatchSize)
		if err := s.insertHistoryBatch(ctx, db, records[:n]); err != nil {
			return err
		}
		records = records[n:]
	}
	return nil
}

func (s *SnapshotStore) insertHistoryBatch(ctx context.Context, db store.DBTX, records []domain.HistoryRecord) error {
	var query strings.Builder
	query.WriteString(`INSERT INTO task_history (id, snapshot_key, task_id, action, profile_id, prior, occurred_at) VALUES `)

	args := make([]any, 0, len(records)*historyColumns)
	for i, rec := range records {
		prior, err := json.Marshal(rec.Prior)
		if err != nil {
			return fmt.Errorf("failed to encode prior state of %s: %w", rec.ID, err)
		}
		if i > 0 {
			query.WriteString(", ")
		}
		p := i * historyColumns
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", p+1, p+2, p+3, p+4, p+5, p+6, p+7)
		args = append(args, rec.ID, s.key, rec.TaskID, string(rec.Action), rec.ProfileID, prior, rec.At)
	}
	query.WriteString(` ON CONFLICT (id) DO NOTHING`)

	if _, err := db.ExecContext(ctx, query.String(), args...); err != nil {
		return MapError(err)
	}
	return nil
}

// HistoryCount returns how many history rows are stored for the key.
func (s *SnapshotStore) HistoryCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_history WHERE snapshot_key = $1`, s.key).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
