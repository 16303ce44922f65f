package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/notify"
)

// SnapshotSource supplies a consistent copy of the household state.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// NotificationJob evaluates notifications and hands them to the dispatcher.
// The permission state returned by one dispatch is carried into the next.
type NotificationJob struct {
	source     SnapshotSource
	scheduler  *notify.Scheduler
	dispatcher *notify.Dispatcher
	clock      clock.Clock
	logger     *slog.Logger

	mu         sync.Mutex
	permission notify.PermissionState
	last       notify.DispatchResult
}

var _ Job = (*NotificationJob)(nil)

// NewNotificationJob creates the notification job starting from permission.
func NewNotificationJob(
	source SnapshotSource,
	scheduler *notify.Scheduler,
	dispatcher *notify.Dispatcher,
	clk clock.Clock,
	permission notify.PermissionState,
	logger *slog.Logger,
) *NotificationJob {
	if logger == nil {
		logger = slog.Default()
	}
	if permission == "" {
		permission = notify.PermissionDefault
	}
	return &NotificationJob{
		source:     source,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger.With("component", "notification_job"),
		permission: permission,
		last:       notify.DispatchResult{Permission: permission},
	}
}

// Name implements Job.
func (j *NotificationJob) Name() string { return "notifications" }

// Run implements Job.
func (j *NotificationJob) Run(ctx context.Context) error {
	snap, err := j.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	now := j.clock.Now()
	requests := j.scheduler.Evaluate(snap, now)

	j.mu.Lock()
	defer j.mu.Unlock()

	result, err := j.dispatcher.Dispatch(ctx, j.permission, requests, now)
	j.permission = result.Permission
	j.last = result
	if err != nil {
		return fmt.Errorf("failed to dispatch notifications: %w", err)
	}

	if len(requests) > 0 {
		j.logger.Info("notifications dispatched",
			"requests", len(requests),
			"permission", string(result.Permission),
			"delivered", result.Delivered,
			"suppressed", result.Suppressed,
			"dropped", result.Dropped,
			"failed", result.Failed)
	}
	return nil
}

// Permission returns the permission state carried between runs.
func (j *NotificationJob) Permission() notify.PermissionState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.permission
}

// LastResult returns the outcome of the most recent run.
func (j *NotificationJob) LastResult() notify.DispatchResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
