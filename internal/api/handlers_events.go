package api

import (
	"net/http"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/store"
)

// EventsHandler serves the system event log.
type EventsHandler struct {
	events store.Events
}

func NewEventsHandler(events store.Events) *EventsHandler {
	return &EventsHandler{events: events}
}

func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := model.EventQuery{
		UserID: r.URL.Query().Get("user"),
		Level:  model.EventLevel(r.URL.Query().Get("level")),
		Limit:  queryInt(r, "limit", 100),
	}

	events, err := h.events.List(r.Context(), q)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
