package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PermissionState is the user's answer to the notification permission prompt.
type PermissionState string

// Permission states. Default means the user has not been asked yet.
const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// ParsePermissionState parses a permission name; "" is PermissionDefault.
func ParsePermissionState(s string) (PermissionState, error) {
	switch PermissionState(s) {
	case "", PermissionDefault:
		return PermissionDefault, nil
	case PermissionGranted, PermissionDenied:
		return PermissionState(s), nil
	default:
		return "", fmt.Errorf("unknown permission state %q", s)
	}
}

// DefaultSuppressTTL is how long a delivered tag stays suppressed.
const DefaultSuppressTTL = 24 * time.Hour

// DispatchResult reports what a Dispatch call did.
type DispatchResult struct {
	Permission PermissionState `json:"permission"`
	Delivered  int             `json:"delivered"`
	Suppressed int             `json:"suppressed"`
	Dropped    int             `json:"dropped"`
	Failed     int             `json:"failed"`
}

// Dispatcher delivers notification requests, suppressing tags that were
// already shown within the TTL.
type Dispatcher struct {
	deliverer Deliverer
	ttl       time.Duration
	logger    *slog.Logger

	mu         sync.Mutex
	suppressed map[string]time.Time
}

// NewDispatcher creates a dispatcher. A non-positive ttl uses DefaultSuppressTTL.
func NewDispatcher(deliverer Deliverer, ttl time.Duration, logger *slog.Logger) *Dispatcher {
	if ttl <= 0 {
		ttl = DefaultSuppressTTL
	}
	return &Dispatcher{
		deliverer:  deliverer,
		ttl:        ttl,
		logger:     logger.With("component", "notification_dispatcher"),
		suppressed: make(map[string]time.Time),
	}
}

// Dispatch delivers reqs according to perm and returns the permission state to
// use on the next call.
//
// With PermissionDefault the deliverer is asked for permission first. With
// PermissionDenied nothing is delivered. Individual delivery failures are
// logged and counted; only a failed permission request returns an error. A
// partial delivery counts as delivered and suppresses its tag.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	perm PermissionState,
	reqs []Request,
	now time.Time,
) (DispatchResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune(now)

	result := DispatchResult{Permission: perm}
	if len(reqs) == 0 {
		return result, nil
	}

	if perm == PermissionDefault || perm == "" {
		granted, err := d.deliverer.RequestPermission(ctx)
		if err != nil {
			result.Permission = PermissionDefault
			result.Dropped = len(reqs)
			return result, fmt.Errorf("notification permission request failed: %w", err)
		}
		d.logger.Info("notification permission resolved", "permission", granted)
		result.Permission = granted
	}

	if result.Permission != PermissionGranted {
		result.Dropped = len(reqs)
		return result, nil
	}

	for _, req := range reqs {
		if until, ok := d.suppressed[req.DedupeTag]; ok && now.Before(until) {
			result.Suppressed++
			continue
		}
		err := d.deliverer.Deliver(ctx, req)
		var partial *PartialDeliveryError
		switch {
		case errors.As(err, &partial):
			d.logger.Warn("notification delivered with errors",
				"task_id", req.TaskID,
				"tag", req.DedupeTag,
				"error", err)
		case err != nil:
			d.logger.Warn("notification delivery failed",
				"task_id", req.TaskID,
				"tag", req.DedupeTag,
				"error", err)
			result.Failed++
			continue
		}
		d.suppressed[req.DedupeTag] = now.Add(d.ttl)
		result.Delivered++
	}

	return result, nil
}

// Suppressed reports whether tag is currently suppressed at now.
func (d *Dispatcher) Suppressed(tag string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.suppressed[tag]
	return ok && now.Before(until)
}

func (d *Dispatcher) prune(now time.Time) {
	for tag, until := range d.suppressed {
		if !now.Before(until) {
			delete(d.suppressed, tag)
		}
	}
}
