package api

import (
	"net/http"

	"github.com/phrazzld/choreclock/internal/api/shared"
	"github.com/phrazzld/choreclock/internal/events"
)

// Activity feed paging limits.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 100
)

// ActivityFeed returns recent events, newest first.
type ActivityFeed interface {
	Recent(limit int) []events.Event
}

var _ ActivityFeed = (*events.Recorder)(nil)

// ActivityHandler serves the recent activity feed.
type ActivityHandler struct {
	feed ActivityFeed
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(feed ActivityFeed) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

// ListActivity handles GET /api/activity?limit=N requests
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", DefaultActivityLimit, 1, MaxActivityLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	recent := h.feed.Recent(limit)
	if recent == nil {
		recent = []events.Event{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ActivityResponse{Events: recent})
}
