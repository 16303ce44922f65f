package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/events"
)

// Deliverer shows notifications to the user.
type Deliverer interface {
	// RequestPermission asks the user whether notifications may be shown.
	RequestPermission(ctx context.Context) (PermissionState, error)
	// Deliver shows one notification.
	Deliver(ctx context.Context, req Request) error
}

// LogDeliverer writes notifications to the log. It never needs permission.
type LogDeliverer struct {
	Logger *slog.Logger
}

// RequestPermission always grants.
func (d LogDeliverer) RequestPermission(context.Context) (PermissionState, error) {
	return PermissionGranted, nil
}

// Deliver logs the notification at info level.
func (d LogDeliverer) Deliver(ctx context.Context, req Request) error {
	d.Logger.InfoContext(ctx, "notification",
		"task_id", req.TaskID,
		"kind", req.Kind,
		"title", req.Title,
		"body", req.Body,
		"tag", req.DedupeTag)
	return nil
}

// EmitterDeliverer publishes each notification as a notification.delivered event.
type EmitterDeliverer struct {
	Emitter events.EventEmitter
	Clock   clock.Clock
}

// RequestPermission always grants.
func (d EmitterDeliverer) RequestPermission(context.Context) (PermissionState, error) {
	return PermissionGranted, nil
}

// Deliver emits a notification.delivered event carrying req.
func (d EmitterDeliverer) Deliver(ctx context.Context, req Request) error {
	event, err := events.NewEvent(events.NotificationDelivered, req, d.Clock.Now())
	if err != nil {
		return err
	}
	return d.Emitter.EmitEvent(ctx, event)
}

// PartialDeliveryError reports that at least one wrapped deliverer showed the
// notification while others failed.
type PartialDeliveryError struct {
	Errs []error
}

// Error implements the error interface.
func (e *PartialDeliveryError) Error() string {
	return "notification partially delivered: " + errors.Join(e.Errs...).Error()
}

// Unwrap returns the individual delivery errors.
func (e *PartialDeliveryError) Unwrap() []error {
	return e.Errs
}

// MultiDeliverer delivers to every wrapped deliverer. Permission is granted
// only when all of them grant it.
type MultiDeliverer []Deliverer

// RequestPermission asks every deliverer; a denial wins over an undecided answer.
func (m MultiDeliverer) RequestPermission(ctx context.Context) (PermissionState, error) {
	state := PermissionGranted
	for _, d := range m {
		s, err := d.RequestPermission(ctx)
		if err != nil {
			return PermissionDefault, err
		}
		switch s {
		case PermissionDenied:
			return PermissionDenied, nil
		case PermissionDefault:
			state = PermissionDefault
		}
	}
	return state, nil
}

// Deliver hands req to every deliverer. When some but not all of them fail it
// returns a *PartialDeliveryError; when all fail it returns the joined errors.
func (m MultiDeliverer) Deliver(ctx context.Context, req Request) error {
	var errs []error
	for _, d := range m {
		if err := d.Deliver(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) < len(m) {
		return &PartialDeliveryError{Errs: errs}
	}
	return errors.Join(errs...)
}
