package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	historyID := uuid.New()

	event, err := NewEvent(TaskCompleted, TaskPayload{TaskID: "dishes", ProfileID: "alice", HistoryID: &historyID}, at)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TaskCompleted, event.Type)
	assert.Equal(t, at, event.CreatedAt)

	var decoded TaskPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, "dishes", decoded.TaskID)
	assert.Equal(t, "alice", decoded.ProfileID)
	require.NotNil(t, decoded.HistoryID)
	assert.Equal(t, historyID, *decoded.HistoryID)
}

func TestNewEventRejectsUnencodablePayload(t *testing.T) {
	_, err := NewEvent("bad", make(chan int), time.Now())
	assert.Error(t, err)
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	h := HandlerFunc(func(_ context.Context, e *Event) error {
		got = e
		return errors.New("boom")
	})

	event, err := NewEvent(TaskReset, TaskPayload{TaskID: "bins"}, time.Now())
	require.NoError(t, err)

	assert.EqualError(t, h.HandleEvent(context.Background(), event), "boom")
	assert.Same(t, event, got)
}
