// Package api exposes the household task state over HTTP: listing tasks with
// their next occurrence, completing, unchecking, resetting and restoring
// tasks, triggering a reset sweep, previewing notifications and reading the
// recent activity feed. Handlers translate HTTP concerns to lifecycle
// operations and map domain errors to status codes.
package api
