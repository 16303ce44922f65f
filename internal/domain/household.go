package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskGroup is a named collection of tasks sharing due-date and notification settings.
type TaskGroup struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	DueDatesEnabled      bool   `json:"due_dates_enabled"`
	NotificationsDefault bool   `json:"notifications_default"`
}

// UserProfile is a household member. MealTimes maps each meal to a "HH:MM"
// wall-clock time and is only needed for mealtimes recurrences.
type UserProfile struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	MealTimes map[Meal]string `json:"meal_times,omitempty"`
}

// ParseClock parses a "HH:MM" wall-clock value into minutes after midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: time %q is not HH:MM", ErrValidation, value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: hour in %q out of range", ErrValidation, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: minute in %q out of range", ErrValidation, value)
	}
	return hours*60 + minutes, nil
}

// HistoryAction names what happened to a task in a history record.
type HistoryAction string

// History actions. AutoReset is the only action produced without a user.
const (
	ActionCompleted HistoryAction = "completed"
	ActionUnchecked HistoryAction = "unchecked"
	ActionReset     HistoryAction = "reset"
	ActionRestored  HistoryAction = "restored"
	ActionAutoReset HistoryAction = "auto-reset"
)

// HistoryRecord stores one completion change and the task state before it.
type HistoryRecord struct {
	ID        uuid.UUID     `json:"id"`
	TaskID    string        `json:"task_id"`
	TaskTitle string        `json:"task_title,omitempty"`
	Action    HistoryAction `json:"action"`
	ProfileID string        `json:"profile_id,omitempty"`
	At        time.Time     `json:"at"`
	Prior     TaskState     `json:"prior"`
}

// NewHistoryRecord creates a record for task with a fresh ID.
func NewHistoryRecord(task *Task, action HistoryAction, profileID string, at time.Time) HistoryRecord {
	return HistoryRecord{
		ID:        uuid.New(),
		TaskID:    task.ID,
		TaskTitle: task.Title,
		Action:    action,
		ProfileID: profileID,
		At:        at,
		Prior:     task.State(),
	}
}
