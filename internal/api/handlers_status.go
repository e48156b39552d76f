package api

import (
	"net/http"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/services"
)

// StatusHandler reports service status plus the acting user's counters.
type StatusHandler struct {
	profiles    *services.ProfileService
	eval        *services.EvaluationService
	defaultUser string

	learningEnabled     bool
	interventionEnabled bool
}

func NewStatusHandler(profiles *services.ProfileService, eval *services.EvaluationService, defaultUser string, learningEnabled, interventionEnabled bool) *StatusHandler {
	return &StatusHandler{
		profiles:            profiles,
		eval:                eval,
		defaultUser:         defaultUser,
		learningEnabled:     learningEnabled,
		interventionEnabled: interventionEnabled,
	}
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	p, err := h.profiles.GetOrCreate(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":                "running",
		"userId":                p.UserID,
		"learningEnabled":       h.learningEnabled && p.Settings.LearningEnabled,
		"interventionEnabled":   h.interventionEnabled && p.Settings.InterventionEnabled,
		"valueConfidence":       p.Values.Confidence,
		"totalContentProcessed": p.TotalContentProcessed,
		"totalDecisionsMade":    p.TotalDecisionsMade,
		"rulesCount":            len(p.Rules),
	})
}

func (h *StatusHandler) DecisionStats(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	stats, err := h.eval.Stats(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
