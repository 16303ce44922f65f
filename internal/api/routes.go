package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the API handlers for route registration.
type Handlers struct {
	Tasks         *TaskHandler
	Notifications *NotificationHandler
	Activity      *ActivityHandler
}

// Register mounts every API route on r. Nil handlers are skipped.
func (h Handlers) Register(r chi.Router) {
	if h.Tasks != nil {
		r.Get("/tasks", h.Tasks.ListTasks)
		r.Get("/tasks/{id}/next-occurrence", h.Tasks.GetNextOccurrence)
		r.Post("/tasks/{id}/complete", h.Tasks.CompleteTask)
		r.Post("/tasks/{id}/uncheck", h.Tasks.UncheckTask)
		r.Post("/tasks/{id}/reset", h.Tasks.ResetTask)
		r.Post("/history/{id}/restore", h.Tasks.RestoreHistory)
		r.Post("/sweep", h.Tasks.Sweep)
	}
	if h.Notifications != nil {
		r.Get("/notifications", h.Notifications.ListNotifications)
	}
	if h.Activity != nil {
		r.Get("/activity", h.Activity.ListActivity)
	}
}
