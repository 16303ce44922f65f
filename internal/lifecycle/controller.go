package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/domain/recurrence"
	"github.com/phrazzld/choreclock/internal/events"
	"github.com/phrazzld/choreclock/internal/platform/logger"
	"github.com/phrazzld/choreclock/internal/store"
)

// ErrNotLoaded is returned when an operation runs before Load.
var ErrNotLoaded = errors.New("task state has not been loaded")

// Controller serializes every change to the household snapshot.
type Controller struct {
	store        store.SnapshotStore
	clock        clock.Clock
	emitter      events.EventEmitter
	logger       *slog.Logger
	historyLimit int

	mu   sync.Mutex
	snap *domain.Snapshot
}

// NewController creates a controller. historyLimit caps the number of history
// records kept in the snapshot; zero keeps everything.
func NewController(
	st store.SnapshotStore,
	clk clock.Clock,
	emitter events.EventEmitter,
	logger *slog.Logger,
	historyLimit int,
) *Controller {
	if st == nil {
		panic("store cannot be nil")
	}
	if clk == nil {
		panic("clock cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:        st,
		clock:        clk,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "lifecycle_controller")),
		historyLimit: historyLimit,
	}
}

// SweepResult reports what a reset sweep did.
type SweepResult struct {
	Checked int      `json:"checked"`
	Reset   []string `json:"reset"`
	Skipped int      `json:"skipped"`
}

// Load reads the snapshot from the store and immediately resets every stale
// completion so callers never see a task that should already have rolled over.
// Invalid tasks are logged and left as stored; the sweep skips them.
func (c *Controller) Load(ctx context.Context) (SweepResult, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	snap, err := c.store.Load(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	for _, issue := range snap.Issues() {
		log.Warn("stored task is invalid",
			slog.String("task_id", issue.TaskID),
			slog.String("error", issue.Err.Error()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = snap
	log.Info("task state loaded",
		slog.Int("tasks", len(snap.Tasks)),
		slog.Int("history", len(snap.History)))

	return c.sweepLocked(ctx)
}

// Sweep resets every completed task whose recurrence boundary has passed.
func (c *Controller) Sweep(ctx context.Context) (SweepResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return SweepResult{}, ErrNotLoaded
	}
	return c.sweepLocked(ctx)
}

func (c *Controller) sweepLocked(ctx context.Context) (SweepResult, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	now := c.clock.Now()

	next := c.snap.Clone()
	result := SweepResult{Reset: []string{}}
	var (
		records []domain.HistoryRecord
		evts    []*events.Event
	)

	for i := range next.Tasks {
		task := &next.Tasks[i]
		if !task.IsCompleted {
			continue
		}
		result.Checked++

		if err := task.Validate(); err != nil {
			log.Warn("task is invalid, skipping reset",
				slog.String("task_id", task.ID),
				slog.String("error", err.Error()))
			result.Skipped++
			continue
		}

		pattern, err := recurrence.FromDomain(task.Recurrence)
		if err != nil {
			log.Warn("task has an unusable recurrence, leaving it completed",
				slog.String("task_id", task.ID),
				slog.String("error", err.Error()))
			result.Skipped++
			continue
		}

		decision := recurrence.Decide(recurrence.InputForTask(task, pattern, next.Profile(task.ProfileID)), now)
		log.Debug("reset decision",
			slog.String("task_id", task.ID),
			slog.Bool("reset", decision.Reset),
			slog.String("reason", decision.Reason))
		if !decision.Reset {
			continue
		}

		rec := domain.NewHistoryRecord(task, domain.ActionAutoReset, "", now)
		task.ClearCompletion()
		records = append(records, rec)
		result.Reset = append(result.Reset, task.ID)
		evts = append(evts, c.newEvent(log, events.TaskAutoReset, task, rec, decision.Reason, now))
	}

	if len(records) == 0 {
		return result, nil
	}

	next.AppendHistory(c.historyLimit, records...)
	if err := c.commitLocked(ctx, next, evts); err != nil {
		return SweepResult{}, err
	}

	log.Info("reset sweep completed",
		slog.Int("checked", result.Checked),
		slog.Int("reset", len(result.Reset)))
	return result, nil
}

// Complete marks a pending task completed by profileID.
func (c *Controller) Complete(ctx context.Context, taskID, profileID string) (*domain.Task, error) {
	return c.mutate(ctx, taskID, profileID, domain.ActionCompleted, func(t *domain.Task, now time.Time) (bool, error) {
		if t.IsCompleted {
			return false, fmt.Errorf("%w: %s", domain.ErrTaskAlreadyCompleted, t.ID)
		}
		t.MarkComplete(profileID, now)
		return true, nil
	})
}

// Uncheck returns a completed task to pending.
func (c *Controller) Uncheck(ctx context.Context, taskID, profileID string) (*domain.Task, error) {
	return c.mutate(ctx, taskID, profileID, domain.ActionUnchecked, func(t *domain.Task, _ time.Time) (bool, error) {
		if !t.IsCompleted {
			return false, fmt.Errorf("%w: %s", domain.ErrTaskNotCompleted, t.ID)
		}
		t.ClearCompletion()
		return true, nil
	})
}

// Reset returns a task to pending regardless of its recurrence boundary.
// Resetting a pending task changes nothing and records no history.
func (c *Controller) Reset(ctx context.Context, taskID, profileID string) (*domain.Task, error) {
	return c.mutate(ctx, taskID, profileID, domain.ActionReset, func(t *domain.Task, _ time.Time) (bool, error) {
		if !t.IsCompleted {
			return false, nil
		}
		t.ClearCompletion()
		return true, nil
	})
}

// Restore re-applies the task state captured before the given history record.
func (c *Controller) Restore(ctx context.Context, historyID uuid.UUID, profileID string) (*domain.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return nil, ErrNotLoaded
	}

	rec, err := c.snap.HistoryRecord(historyID)
	if err != nil {
		return nil, err
	}
	prior := rec.Prior

	return c.mutateLocked(ctx, rec.TaskID, profileID, domain.ActionRestored, func(t *domain.Task, _ time.Time) (bool, error) {
		t.ApplyState(prior)
		return true, nil
	})
}

// NextOccurrence returns the next occurrence of the task after its most recent
// reference: the completion time, else the recurrence start, else creation.
// Tasks with an unusable pattern fall back to the next day.
func (c *Controller) NextOccurrence(ctx context.Context, taskID string) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return time.Time{}, ErrNotLoaded
	}
	task, err := c.snap.Task(taskID)
	if err != nil {
		return time.Time{}, err
	}
	return NextOccurrence(task, c.clock.Now().Location(), logger.FromContextOrDefault(ctx, c.logger)), nil
}

// NextOccurrence computes a task's next occurrence in loc.
func NextOccurrence(task *domain.Task, loc *time.Location, log *slog.Logger) time.Time {
	ref := task.CreatedAt
	switch {
	case task.CompletedAt != nil:
		ref = *task.CompletedAt
	case task.RecurrenceFrom != nil:
		ref = *task.RecurrenceFrom
	}

	pattern, err := recurrence.FromDomain(task.Recurrence)
	if err != nil {
		log.Debug("falling back to daily next occurrence",
			slog.String("task_id", task.ID),
			slog.String("error", err.Error()))
		pattern = nil
	}
	return recurrence.NextOccurrence(pattern, ref.In(loc))
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot(context.Context) (*domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return nil, ErrNotLoaded
	}
	return c.snap.Clone(), nil
}

// Now returns the current time on the controller's clock, in the timezone
// every calendar decision is made in.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

type taskChange func(t *domain.Task, now time.Time) (changed bool, err error)

func (c *Controller) mutate(
	ctx context.Context,
	taskID, profileID string,
	action domain.HistoryAction,
	change taskChange,
) (*domain.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil {
		return nil, ErrNotLoaded
	}
	return c.mutateLocked(ctx, taskID, profileID, action, change)
}

func (c *Controller) mutateLocked(
	ctx context.Context,
	taskID, profileID string,
	action domain.HistoryAction,
	change taskChange,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	now := c.clock.Now()

	next := c.snap.Clone()
	task, err := next.Task(taskID)
	if err != nil {
		return nil, err
	}

	rec := domain.NewHistoryRecord(task, action, profileID, now)
	changed, err := change(task, now)
	if err != nil {
		log.Debug("task action rejected",
			slog.String("task_id", taskID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return nil, err
	}
	if !changed {
		out := task.Clone()
		return &out, nil
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	next.AppendHistory(c.historyLimit, rec)
	evt := c.newEvent(log, eventTypeFor(action), task, rec, "", now)
	if err := c.commitLocked(ctx, next, []*events.Event{evt}); err != nil {
		return nil, err
	}

	log.Info("task updated",
		slog.String("task_id", taskID),
		slog.String("action", string(action)),
		slog.String("profile_id", profileID))

	out := task.Clone()
	return &out, nil
}

// commitLocked saves next and only then makes it current and publishes evts.
// A failed save leaves the in-memory state untouched.
func (c *Controller) commitLocked(ctx context.Context, next *domain.Snapshot, evts []*events.Event) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := c.store.Save(ctx, next); err != nil {
		log.Error("failed to save snapshot", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	c.snap = next

	if c.emitter == nil {
		return nil
	}
	for _, evt := range evts {
		if evt == nil {
			continue
		}
		if err := c.emitter.EmitEvent(ctx, evt); err != nil {
			log.Warn("failed to publish event",
				slog.String("event_type", evt.Type),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (c *Controller) newEvent(
	log *slog.Logger,
	eventType string,
	task *domain.Task,
	rec domain.HistoryRecord,
	reason string,
	now time.Time,
) *events.Event {
	id := rec.ID
	evt, err := events.NewEvent(eventType, events.TaskPayload{
		TaskID:    task.ID,
		TaskTitle: task.Title,
		ProfileID: rec.ProfileID,
		HistoryID: &id,
		Reason:    reason,
	}, now)
	if err != nil {
		log.Warn("failed to build event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return nil
	}
	return evt
}

func eventTypeFor(action domain.HistoryAction) string {
	switch action {
	case domain.ActionCompleted:
		return events.TaskCompleted
	case domain.ActionUnchecked:
		return events.TaskUnchecked
	case domain.ActionRestored:
		return events.TaskRestored
	case domain.ActionAutoReset:
		return events.TaskAutoReset
	default:
		return events.TaskReset
	}
}
