package api

import (
	"github.com/gorilla/mux"

	"github.com/focusgate/focusgate/internal/api/recovery"
	"github.com/focusgate/focusgate/internal/services"
	"github.com/focusgate/focusgate/internal/store"
)

// Deps carries the constructed services the router wires handlers to.
type Deps struct {
	Profiles *services.ProfileService
	Eval     *services.EvaluationService
	Rules    *services.RuleService
	Feedback *services.FeedbackService
	Events   store.Events

	DefaultUser         string
	LearningEnabled     bool
	InterventionEnabled bool
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler()
	statusHandler := NewStatusHandler(d.Profiles, d.Eval, d.DefaultUser, d.LearningEnabled, d.InterventionEnabled)
	evaluateHandler := NewEvaluateHandler(d.Eval, d.DefaultUser)
	profileHandler := NewProfileHandler(d.Profiles, d.DefaultUser)
	ruleHandler := NewRuleHandler(d.Rules, d.DefaultUser)
	feedbackHandler := NewFeedbackHandler(d.Feedback, d.DefaultUser)
	eventsHandler := NewEventsHandler(d.Events)

	// Health and status
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/status", statusHandler.Status).Methods("GET")

	// Evaluation
	router.HandleFunc("/api/evaluate", evaluateHandler.Evaluate).Methods("POST")
	router.HandleFunc("/api/decisions", evaluateHandler.ListDecisions).Methods("GET")
	router.HandleFunc("/api/decisions/{decisionId}/explain", evaluateHandler.Explain).Methods("GET")

	// Profile and values
	router.HandleFunc("/api/profile", profileHandler.GetProfile).Methods("GET")
	router.HandleFunc("/api/profile/preferences", profileHandler.UpdatePreferences).Methods("PUT")
	router.HandleFunc("/api/values/initialize", profileHandler.InitializeValues).Methods("POST")
	router.HandleFunc("/api/values/update", profileHandler.UpdateValues).Methods("POST")
	router.HandleFunc("/api/values/intervals", profileHandler.ConfidenceIntervals).Methods("GET")
	router.HandleFunc("/api/values/history", profileHandler.ValueHistory).Methods("GET")

	// Rules
	router.HandleFunc("/api/rules", ruleHandler.CreateRule).Methods("POST")
	router.HandleFunc("/api/rules", ruleHandler.ListRules).Methods("GET")
	router.HandleFunc("/api/rules/{ruleId}", ruleHandler.DeleteRule).Methods("DELETE")

	// Feedback and analytics
	router.HandleFunc("/api/feedback", feedbackHandler.SubmitFeedback).Methods("POST")
	router.HandleFunc("/api/analytics/decision-stats", statusHandler.DecisionStats).Methods("GET")
	router.HandleFunc("/api/analytics/accuracy", feedbackHandler.Accuracy).Methods("GET")
	router.HandleFunc("/api/analytics/drift", feedbackHandler.Drift).Methods("GET")
	router.HandleFunc("/api/analytics/feedback", feedbackHandler.Aggregate).Methods("GET")
	router.HandleFunc("/api/analytics/schedule", feedbackHandler.Schedule).Methods("GET")

	// Event log
	router.HandleFunc("/api/events", eventsHandler.ListEvents).Methods("GET")

	return router
}
