package api

import (
	"time"

	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/events"
	"github.com/phrazzld/choreclock/internal/lifecycle"
	"github.com/phrazzld/choreclock/internal/notify"
)

// ProfileRequest is the body of every task action: who performed it.
type ProfileRequest struct {
	ProfileID string `json:"profile_id" validate:"required,max=128"`
}

// TaskResponse represents a task together with its next occurrence.
type TaskResponse struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	GroupID              string            `json:"group_id,omitempty"`
	ProfileID            string            `json:"profile_id,omitempty"`
	Recurrence           domain.Recurrence `json:"recurrence"`
	IsCompleted          bool              `json:"is_completed"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty"`
	CompletedBy          string            `json:"completed_by,omitempty"`
	DueDate              *time.Time        `json:"due_date,omitempty"`
	NotificationsEnabled bool              `json:"notifications_enabled"`
	NextOccurrence       time.Time         `json:"next_occurrence"`
}

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// NextOccurrenceResponse is the body of GET /api/tasks/{id}/next-occurrence.
type NextOccurrenceResponse struct {
	TaskID         string    `json:"task_id"`
	NextOccurrence time.Time `json:"next_occurrence"`
}

// SweepResponse is the body of POST /api/sweep.
type SweepResponse struct {
	lifecycle.SweepResult
	SweptAt time.Time `json:"swept_at"`
}

// NotificationsResponse is the body of GET /api/notifications.
type NotificationsResponse struct {
	EvaluatedAt  time.Time              `json:"evaluated_at"`
	Permission   notify.PermissionState `json:"permission,omitempty"`
	LastDispatch *notify.DispatchResult `json:"last_dispatch,omitempty"`
	Requests     []notify.Request       `json:"requests"`
}

// ActivityResponse is the body of GET /api/activity.
type ActivityResponse struct {
	Events []events.Event `json:"events"`
}

func taskToResponse(task *domain.Task, group *domain.TaskGroup, next time.Time) TaskResponse {
	groupDefault := group != nil && group.NotificationsDefault
	return TaskResponse{
		ID:                   task.ID,
		Title:                task.Title,
		GroupID:              task.GroupID,
		ProfileID:            task.ProfileID,
		Recurrence:           task.Recurrence,
		IsCompleted:          task.IsCompleted,
		CompletedAt:          task.CompletedAt,
		CompletedBy:          task.CompletedBy,
		DueDate:              task.DueDate,
		NotificationsEnabled: domain.ResolveNotifications(task.Notifications, groupDefault),
		NextOccurrence:       next,
	}
}
