package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/services"
)

// RuleHandler serves intervention rule management endpoints.
type RuleHandler struct {
	svc         *services.RuleService
	defaultUser string
}

func NewRuleHandler(svc *services.RuleService, defaultUser string) *RuleHandler {
	return &RuleHandler{svc: svc, defaultUser: defaultUser}
}

func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	var in struct {
		model.InterventionRule
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	rule := in.InterventionRule
	// Rules are active unless the caller says otherwise.
	rule.IsActive = in.IsActive == nil || *in.IsActive

	created, err := h.svc.Create(r.Context(), userID, &rule)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, created)
}

func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	rules, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rules": rules,
		"count": len(rules),
	})
}

func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	ruleID := mux.Vars(r)["ruleId"]

	if err := h.svc.Delete(r.Context(), userID, ruleID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
