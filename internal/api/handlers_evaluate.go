package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/api/validate"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/services"
)

// EvaluateHandler serves content evaluation and decision lookups.
type EvaluateHandler struct {
	svc         *services.EvaluationService
	defaultUser string
}

func NewEvaluateHandler(svc *services.EvaluationService, defaultUser string) *EvaluateHandler {
	return &EvaluateHandler{svc: svc, defaultUser: defaultUser}
}

func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var content model.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.ContentItem(&content); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	d, err := h.svc.Evaluate(r.Context(), userID, &content)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, d)
}

func (h *EvaluateHandler) Explain(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	decisionID := mux.Vars(r)["decisionId"]

	exp, err := h.svc.Explain(r.Context(), userID, decisionID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, exp)
}

func (h *EvaluateHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	limit := queryInt(r, "limit", 50)

	decisions, err := h.svc.RecentDecisions(r.Context(), userID, limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"decisions": decisions,
		"count":     len(decisions),
	})
}
