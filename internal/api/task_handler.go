package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/choreclock/internal/api/shared"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/lifecycle"
	"github.com/phrazzld/choreclock/internal/platform/logger"
)

// TaskController is the subset of lifecycle.Controller used by the handlers.
type TaskController interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Complete(ctx context.Context, taskID, profileID string) (*domain.Task, error)
	Uncheck(ctx context.Context, taskID, profileID string) (*domain.Task, error)
	Reset(ctx context.Context, taskID, profileID string) (*domain.Task, error)
	Restore(ctx context.Context, historyID uuid.UUID, profileID string) (*domain.Task, error)
	NextOccurrence(ctx context.Context, taskID string) (time.Time, error)
	Sweep(ctx context.Context) (lifecycle.SweepResult, error)
	Now() time.Time
}

var _ TaskController = (*lifecycle.Controller)(nil)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	controller TaskController
	logger     *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(controller TaskController, logger *slog.Logger) *TaskHandler {
	if controller == nil {
		panic("controller cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		controller: controller,
		logger:     logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	snap, err := h.controller.Snapshot(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	loc := h.controller.Now().Location()
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(snap.Tasks))}
	for i := range snap.Tasks {
		task := &snap.Tasks[i]
		next := lifecycle.NextOccurrence(task, loc, log)
		resp.Tasks = append(resp.Tasks, taskToResponse(task, snap.Group(task.GroupID), next))
	}

	log.Debug("listed tasks", slog.Int("count", len(resp.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetNextOccurrence handles GET /api/tasks/{id}/next-occurrence requests
func (h *TaskHandler) GetNextOccurrence(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	next, err := h.controller.NextOccurrence(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute next occurrence")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NextOccurrenceResponse{
		TaskID:         taskID,
		NextOccurrence: next,
	})
}

// CompleteTask handles POST /api/tasks/{id}/complete requests
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "complete", h.controller.Complete)
}

// UncheckTask handles POST /api/tasks/{id}/uncheck requests
func (h *TaskHandler) UncheckTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "uncheck", h.controller.Uncheck)
}

// ResetTask handles POST /api/tasks/{id}/reset requests
func (h *TaskHandler) ResetTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "reset", h.controller.Reset)
}

type taskActionFunc func(ctx context.Context, taskID, profileID string) (*domain.Task, error)

func (h *TaskHandler) taskAction(w http.ResponseWriter, r *http.Request, name string, action taskActionFunc) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req, err := decodeProfileRequest(r)
	if err != nil {
		log.Debug("invalid task action request",
			slog.String("action", name),
			slog.String("task_id", taskID))
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := action(r.Context(), taskID, req.ProfileID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to "+name+" task")
		return
	}

	h.respondWithTask(w, r, task)
}

// RestoreHistory handles POST /api/history/{id}/restore requests
func (h *TaskHandler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	historyID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req, err := decodeProfileRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.controller.Restore(r.Context(), historyID, req.ProfileID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restore task")
		return
	}

	h.respondWithTask(w, r, task)
}

// Sweep handles POST /api/sweep requests
func (h *TaskHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.controller.Sweep(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to run reset sweep")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SweepResponse{
		SweepResult: result,
		SweptAt:     h.controller.Now(),
	})
}

func (h *TaskHandler) respondWithTask(w http.ResponseWriter, r *http.Request, task *domain.Task) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var group *domain.TaskGroup
	if snap, err := h.controller.Snapshot(r.Context()); err == nil {
		group = snap.Group(task.GroupID)
	}

	next := lifecycle.NextOccurrence(task, h.controller.Now().Location(), log)
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, group, next))
}
