package api

import (
	"encoding/json"
	"net/http"

	"github.com/focusgate/focusgate/internal/api/respond"
	"github.com/focusgate/focusgate/internal/api/validate"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/services"
)

// ProfileHandler serves user profile and value profile endpoints.
type ProfileHandler struct {
	svc         *services.ProfileService
	defaultUser string
}

func NewProfileHandler(svc *services.ProfileService, defaultUser string) *ProfileHandler {
	return &ProfileHandler{svc: svc, defaultUser: defaultUser}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.GetOrCreate(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	p, err := h.svc.UpdatePreferences(r.Context(), userID, prefs)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) InitializeValues(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	var in struct {
		ValueHierarchy model.Hierarchy `json:"valueHierarchy"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.WriteBadRequest(w, "invalid json")
			return
		}
	}

	p, err := h.svc.InitializeValues(r.Context(), userID, in.ValueHierarchy)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p.Values)
}

func (h *ProfileHandler) UpdateValues(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	var fb model.UserFeedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if fb.Rating != nil && (*fb.Rating < -1 || *fb.Rating > 1) {
		respond.WriteBadRequest(w, "rating must be -1, 0 or +1")
		return
	}

	p, err := h.svc.UpdateValues(r.Context(), userID, fb)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p.Values)
}

func (h *ProfileHandler) ConfidenceIntervals(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)

	intervals, err := h.svc.ConfidenceIntervals(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, intervals)
}

func (h *ProfileHandler) ValueHistory(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, h.defaultUser)
	limit := queryInt(r, "limit", 100)

	history, err := h.svc.ListValueHistory(r.Context(), userID, limit)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": history,
		"count":     len(history),
	})
}
