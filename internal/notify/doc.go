// Package notify decides which reminders are due at a polling tick and hands
// them to a Deliverer.
//
// Scheduler.Evaluate is pure: it looks at a snapshot and an instant and
// returns requests with stable deduplication tags. Eligibility windows are
// half-open ranges of period progress, so a 30 minute poll hits each window
// about once. Dispatcher adds a per-tag suppress set on top and tracks the
// notification permission as an explicit PermissionState value.
package notify
