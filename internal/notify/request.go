package notify

import "fmt"

// Kind classifies a notification request.
type Kind string

// Notification kinds.
const (
	KindDueSoon       Kind = "due-soon"
	KindDueToday      Kind = "due-today"
	KindOverdue       Kind = "overdue"
	KindResetImminent Kind = "reset-imminent"
)

// Request is a single reminder to show.
type Request struct {
	TaskID    string `json:"task_id"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	DedupeTag string `json:"dedupe_tag"`
}

// Window is a half-open progress range [From, To).
type Window struct {
	From float64
	To   float64
}

// Contains reports whether From <= progress < To.
func (w Window) Contains(progress float64) bool {
	return progress >= w.From && progress < w.To
}

// String formats the window as a half-open interval.
func (w Window) String() string {
	return fmt.Sprintf("[%.2f, %.2f)", w.From, w.To)
}

var (
	// DueSoonWindow fires when a quarter of the time to the due date remains.
	DueSoonWindow = Window{From: 0.75, To: 0.80}

	// ResetWindow fires shortly before a recurrence boundary.
	ResetWindow = Window{From: 0.90, To: 0.95}
)
