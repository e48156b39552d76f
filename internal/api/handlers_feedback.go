package api

import (
	"encoding/json"
	"net/http"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/services"
)

// FeedbackHandler serves feedback submission and learning analytics.
type FeedbackHandler struct {
	svc         *services.FeedbackService
	defaultUser string
}

func NewFeedbackHandler(svc *services.FeedbackService, defaultUser string) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, defaultUser: defaultUser}
}

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	var fb model.UserFeedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	created, err := h.svc.Submit(r.Context(), userID, fb)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, created)
}

func (h *FeedbackHandler) Accuracy(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	accuracy, err := h.svc.Accuracy(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"accuracy": accuracy})
}

func (h *FeedbackHandler) Drift(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	report, err := h.svc.Drift(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}

func (h *FeedbackHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	agg, err := h.svc.Aggregate(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agg)
}

func (h *FeedbackHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	sched, err := h.svc.Schedule(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sched)
}
