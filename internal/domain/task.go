package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskCompletionMismatch is returned when CompletedAt is set on a pending
	// task or missing on a completed one.
	ErrTaskCompletionMismatch = errors.New("task completedAt must be set if and only if the task is completed")
)

// NotificationOverride is the per-task notification setting. Inherit defers to
// the task group's default.
type NotificationOverride string

// Valid notification override values.
const (
	NotificationsInherit  NotificationOverride = ""
	NotificationsEnabled  NotificationOverride = "enabled"
	NotificationsDisabled NotificationOverride = "disabled"
)

// ResolveNotifications returns whether notifications are effectively enabled
// for a task given its override and the group default.
func ResolveNotifications(override NotificationOverride, groupDefault bool) bool {
	switch override {
	case NotificationsEnabled:
		return true
	case NotificationsDisabled:
		return false
	default:
		return groupDefault
	}
}

// ParseNotificationOverride parses "enabled", "disabled", "inherit" or "".
func ParseNotificationOverride(input string) (NotificationOverride, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "", "inherit":
		return NotificationsInherit, nil
	case "enabled", "on", "true":
		return NotificationsEnabled, nil
	case "disabled", "off", "false":
		return NotificationsDisabled, nil
	default:
		return "", fmt.Errorf("%w: unknown notification override %q", ErrValidation, input)
	}
}

// Task is a household task that may recur.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	GroupID   string `json:"group_id,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`

	Recurrence Recurrence `json:"recurrence"`

	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// RecurrenceFrom delays the first reset until this instant. Never
	// consulted for mealtimes patterns.
	RecurrenceFrom *time.Time `json:"recurrence_from,omitempty"`

	DueDate       *time.Time           `json:"due_date,omitempty"`
	Notifications NotificationOverride `json:"notifications,omitempty"`
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrTaskIDEmpty
	}
	if t.IsCompleted != (t.CompletedAt != nil) {
		return fmt.Errorf("%w: task %s", ErrTaskCompletionMismatch, t.ID)
	}
	return nil
}

// State captures the completion fields of the task.
func (t *Task) State() TaskState {
	return TaskState{
		IsCompleted: t.IsCompleted,
		CompletedAt: cloneTime(t.CompletedAt),
		CompletedBy: t.CompletedBy,
	}
}

// MarkComplete records a completion by profileID at the given instant.
func (t *Task) MarkComplete(profileID string, at time.Time) {
	t.IsCompleted = true
	t.CompletedAt = &at
	t.CompletedBy = profileID
}

// ClearCompletion returns the task to pending.
func (t *Task) ClearCompletion() {
	t.IsCompleted = false
	t.CompletedAt = nil
	t.CompletedBy = ""
}

// ApplyState overwrites the completion fields with a previously captured state.
func (t *Task) ApplyState(s TaskState) {
	t.IsCompleted = s.IsCompleted
	t.CompletedAt = cloneTime(s.CompletedAt)
	t.CompletedBy = s.CompletedBy
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.Recurrence.Meals = append([]Meal(nil), t.Recurrence.Meals...)
	c.Recurrence.Days = append([]int(nil), t.Recurrence.Days...)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.RecurrenceFrom = cloneTime(t.RecurrenceFrom)
	c.DueDate = cloneTime(t.DueDate)
	return c
}

// TaskState is the completion part of a task, kept in history records so an
// action can be undone.
type TaskState struct {
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
