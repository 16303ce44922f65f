package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/choreclock/internal/api/shared"
	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/notify"
	"github.com/phrazzld/choreclock/internal/platform/logger"
)

// SnapshotSource supplies a copy of the household state.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// DispatchStatus reports the state of background notification delivery.
type DispatchStatus interface {
	Permission() notify.PermissionState
	LastResult() notify.DispatchResult
}

// NotificationHandler previews the notifications due right now. It evaluates
// without delivering, so clients can poll instead of receiving pushes.
type NotificationHandler struct {
	source    SnapshotSource
	scheduler *notify.Scheduler
	clock     clock.Clock
	status    DispatchStatus
	logger    *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler. status may be nil
// when background delivery is disabled.
func NewNotificationHandler(
	source SnapshotSource,
	scheduler *notify.Scheduler,
	clk clock.Clock,
	status DispatchStatus,
	logger *slog.Logger,
) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		source:    source,
		scheduler: scheduler,
		clock:     clk,
		status:    status,
		logger:    logger.With(slog.String("component", "notification_handler")),
	}
}

// ListNotifications handles GET /api/notifications requests
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	snap, err := h.source.Snapshot(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to evaluate notifications")
		return
	}

	now := h.clock.Now()
	requests := h.scheduler.Evaluate(snap, now)
	if requests == nil {
		requests = []notify.Request{}
	}

	resp := NotificationsResponse{
		EvaluatedAt: now,
		Requests:    requests,
	}
	if h.status != nil {
		last := h.status.LastResult()
		resp.Permission = h.status.Permission()
		resp.LastDispatch = &last
	}

	log.Debug("evaluated notifications", slog.Int("count", len(requests)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
