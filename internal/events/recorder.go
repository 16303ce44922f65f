package events

import (
	"context"
	"sync"
)

// DefaultRecorderCapacity is used when NewRecorder is given a non-positive capacity.
const DefaultRecorderCapacity = 100

// Recorder is an EventHandler that keeps the most recent events in a ring buffer.
type Recorder struct {
	mu     sync.RWMutex
	buf    []*Event
	next   int
	filled bool
}

// NewRecorder creates a recorder holding up to capacity events.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{buf: make([]*Event, capacity)}
}

// HandleEvent stores the event, overwriting the oldest one when full.
func (r *Recorder) HandleEvent(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = event
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.filled = true
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns everything recorded.
func (r *Recorder) Recent(limit int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.filled {
		size = len(r.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, *r.buf[idx])
	}
	return out
}
