package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/choreclock/internal/api"
	apiMiddleware "github.com/phrazzld/choreclock/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	var status api.DispatchStatus
	if app.notificationJob != nil {
		status = app.notificationJob
	}

	handlers := api.Handlers{
		Tasks:         api.NewTaskHandler(app.controller, app.logger),
		Notifications: api.NewNotificationHandler(app.controller, app.scheduler, app.clock, status, app.logger),
		Activity:      api.NewActivityHandler(app.recorder),
	}
	r.Route("/api", handlers.Register)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
