// Package postgres stores the household snapshot in PostgreSQL.
//
// The snapshot is kept as one JSONB document per key. Every history record is
// also copied into the append-only task_history table, written in the same
// transaction as the snapshot. The schema is managed by goose migrations
// embedded in the binary.
package postgres
