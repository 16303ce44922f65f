package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/choreclock/internal/api/shared"
	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/phrazzld/choreclock/internal/domain"
	"github.com/phrazzld/choreclock/internal/events"
	"github.com/phrazzld/choreclock/internal/lifecycle"
	"github.com/phrazzld/choreclock/internal/notify"
	"github.com/phrazzld/choreclock/internal/store"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHousehold() *domain.Snapshot {
	due := testStart.AddDate(0, 0, -1)
	return &domain.Snapshot{
		Groups: []domain.TaskGroup{
			{ID: "kitchen", Name: "Kitchen", DueDatesEnabled: true, NotificationsDefault: true},
		},
		Profiles: []domain.UserProfile{{ID: "alex", Name: "Alex"}},
		Tasks: []domain.Task{
			{
				ID:         "dishes",
				Title:      "Dishes",
				GroupID:    "kitchen",
				ProfileID:  "alex",
				Recurrence: domain.Recurrence{Type: domain.RecurrenceDaily},
				CreatedAt:  testStart.AddDate(0, 0, -30),
			},
			{
				ID:         "oven",
				Title:      "Clean oven",
				GroupID:    "kitchen",
				Recurrence: domain.Recurrence{Type: domain.RecurrenceMonthly},
				CreatedAt:  testStart.AddDate(0, 0, -10),
				DueDate:    &due,
			},
		},
	}
}

type testServer struct {
	router     http.Handler
	controller *lifecycle.Controller
	clock      *clock.FakeClock
	recorder   *events.Recorder
}

func newTestServer(t *testing.T, load bool) *testServer {
	t.Helper()

	logger := discardLogger()
	clk := clock.NewFakeClock(testStart)
	recorder := events.NewRecorder(0)
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(recorder)

	controller := lifecycle.NewController(store.NewMemoryStore(testHousehold()), clk, emitter, logger, 0)
	if load {
		_, err := controller.Load(context.Background())
		require.NoError(t, err)
	}

	handlers := Handlers{
		Tasks:         NewTaskHandler(controller, logger),
		Notifications: NewNotificationHandler(controller, notify.NewScheduler(logger), clk, nil, logger),
		Activity:      NewActivityHandler(recorder),
	}

	r := chi.NewRouter()
	r.Route("/api", handlers.Register)

	return &testServer{
		router:     r,
		controller: controller,
		clock:      clk,
		recorder:   recorder,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rr).Error
}
