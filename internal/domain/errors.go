package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrMissingConfiguration is returned when a recurrence pattern needs data
	// that is absent at evaluation time, such as a meal-time table.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrInvalidPatternConfig is returned when a recurrence pattern is unknown
	// or its selection set is empty.
	ErrInvalidPatternConfig = errors.New("invalid recurrence pattern config")

	// ErrTaskNotFound is returned when no task has the requested ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrHistoryNotFound is returned when no history record has the requested ID.
	ErrHistoryNotFound = errors.New("history record not found")

	// ErrTaskNotCompleted is returned when an action needs a completed task.
	ErrTaskNotCompleted = errors.New("task is not completed")

	// ErrTaskAlreadyCompleted is returned when completing a completed task.
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
)
