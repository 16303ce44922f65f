package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the application.
const (
	TaskCompleted         = "task.completed"
	TaskUnchecked         = "task.unchecked"
	TaskReset             = "task.reset"
	TaskRestored          = "task.restored"
	TaskAutoReset         = "task.auto_reset"
	NotificationDelivered = "notification.delivered"
	NotificationPermitted = "notification.permission"
)

// Event is a single domain event.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the event type constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the scheduling-clock time at which the event happened
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with the given type and payload stamped at the given time.
func NewEvent(eventType string, payload any, at time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: at,
	}, nil
}

// TaskPayload is the payload of every task.* event.
type TaskPayload struct {
	TaskID    string     `json:"task_id"`
	TaskTitle string     `json:"task_title,omitempty"`
	ProfileID string     `json:"profile_id,omitempty"`
	HistoryID *uuid.UUID `json:"history_id,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
