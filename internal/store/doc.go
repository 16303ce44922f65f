// Package store defines how the household snapshot is persisted.
//
// The scheduling engine only needs to load and save the whole collection of
// tasks, groups, profiles and history, so SnapshotStore is a simple key-value
// style interface. MemoryStore lives here; file and Postgres backends live
// under internal/platform.
package store
