package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/decision"
	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/feedback"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/rules"
	"github.com/focusgate/focusgate/internal/scoring"
	"github.com/focusgate/focusgate/internal/services"
	"github.com/focusgate/focusgate/internal/store/sqlite"
	"github.com/focusgate/focusgate/internal/values"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	engineCfg := config.DefaultEngine()
	sink := events.NopSink{}

	profiles := services.NewProfileService(st, values.NewEstimator(engineCfg), engineCfg, sink)
	eval := services.NewEvaluationService(st, profiles,
		scoring.NewScorer(engineCfg), decision.NewEngine(engineCfg), sink, true)
	ruleSvc := services.NewRuleService(st, rules.NewEngine(), sink)
	fbSvc := services.NewFeedbackService(st, profiles, feedback.NewProcessor(engineCfg), sink, true)

	router := NewRouter(Deps{
		Profiles:            profiles,
		Eval:                eval,
		Rules:               ruleSvc,
		Feedback:            fbSvc,
		Events:              st.Events(),
		DefaultUser:         "default_user",
		LearningEnabled:     true,
		InterventionEnabled: true,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, user string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]any
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "status")
}

func TestEvaluateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var d model.InterventionDecision
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "alice", map[string]any{
		"source": "browser",
		"title":  "How to learn physics: a guide",
		"domain": "arxiv.org",
	}, &d)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", d.UserID)
	// a fresh profile holds every dimension at 0.5, which lands in the mute band
	assert.Equal(t, model.ActionAllowMute, d.Decision)
	assert.NotEmpty(t, d.DecisionID)

	// the decision is explainable afterwards
	var exp decision.Explanation
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/decisions/"+d.DecisionID+"/explain", "alice", nil, &exp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALLOW_MUTE", exp.Action)

	// and listed
	var list struct {
		Decisions []model.InterventionDecision `json:"decisions"`
		Count     int                          `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/decisions", "alice", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Count)
}

func TestEvaluateValidation(t *testing.T) {
	srv := newTestServer(t)

	// missing source
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "alice", map[string]any{
		"title": "no source",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// malformed user id
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "Not A Valid User!", map[string]any{
		"source": "browser",
		"title":  "hello",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDefaultUserResolution(t *testing.T) {
	srv := newTestServer(t)

	var d model.InterventionDecision
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "", map[string]any{
		"source": "browser",
		"title":  "hello",
		"domain": "example.com",
	}, &d)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "default_user", d.UserID)
}

func TestExplainMissingDecision(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/decisions/nope/explain", "alice", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var p model.UserProfile
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/profile", "alice", nil, &p)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", p.UserID)
	assert.True(t, p.Preferences.EnableExplicitFeedback)

	prefs := model.DefaultPreferences()
	prefs.NotificationLevel = "minimal"
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/profile/preferences", "alice", prefs, &p)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "minimal", p.Preferences.NotificationLevel)
}

func TestValuesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// initialize with a custom hierarchy; the profile is created on the fly
	var vp model.ValueProfile
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/values/initialize", "alice", map[string]any{
		"valueHierarchy": map[string][]string{"craft": {"woodworking"}},
	}, &vp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 0.5, vp.Values["craft"]["woodworking"], 1e-9)

	// apply a "too lenient" rating directly; importances tighten
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/values/update", "alice", map[string]any{
		"rating": -1,
	}, &vp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 0.525, vp.Values["craft"]["woodworking"], 1e-9)

	// out-of-range rating is rejected
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/values/update", "alice", map[string]any{
		"rating": 7,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var intervals map[string]map[string]values.Interval
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/values/intervals", "alice", nil, &intervals)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, intervals, "craft")

	var history struct {
		Snapshots []model.ValueProfile `json:"snapshots"`
		Count     int                  `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/values/history", "alice", nil, &history)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, history.Count)
}

func TestRulesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var created model.InterventionRule
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", "alice", map[string]any{
		"domain":   "tiktok.com",
		"action":   "BLOCK",
		"reason":   "no tiktok during work",
		"priority": 90,
	}, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.RuleID)
	assert.True(t, created.IsActive) // active by default

	var list struct {
		Rules []model.InterventionRule `json:"rules"`
		Count int                      `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rules", "alice", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Count)

	// the rule now drives evaluation
	var d model.InterventionDecision
	doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "alice", map[string]any{
		"source": "browser",
		"title":  "You won't believe this shocking disaster!!!!",
		"domain": "tiktok.com",
	}, &d)
	assert.Equal(t, model.ActionBlock, d.Decision)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/rules/"+created.RuleID, "alice", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/rules/"+created.RuleID, "alice", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuleValidationError(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rules", "alice", map[string]any{
		"action":   "NOPE",
		"reason":   "bad action",
		"priority": 10,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedbackAndAnalyticsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var d model.InterventionDecision
	doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", "alice", map[string]any{
		"source": "browser",
		"title":  "hello",
		"domain": "example.com",
	}, &d)

	var fb model.UserFeedback
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/feedback", "alice", map[string]any{
		"decisionId": d.DecisionID,
		"rating":     1,
	}, &fb)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, fb.FeedbackID)

	// feedback on an unknown decision
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/feedback", "alice", map[string]any{
		"decisionId": "ghost",
		"rating":     1,
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var acc map[string]float64
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/accuracy", "alice", nil, &acc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 0.5, acc["accuracy"], 1e-9)

	var agg feedback.Aggregate
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/feedback", "alice", nil, &agg)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user_disagrees_with_decision", agg.Direction)

	var drift services.DriftReport
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/drift", "alice", nil, &drift)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, drift.DriftDetected)

	var sched feedback.Schedule
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/schedule", "alice", nil, &sched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, sched.ShouldUpdate)

	var stats services.DecisionStats
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/decision-stats", "alice", nil, &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.Total)
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var status map[string]any
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/status", "alice", nil, &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", status["userId"])
	assert.Equal(t, true, status["learningEnabled"])
}

func TestEventsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// seed some decisions for two users
	for i, user := range []string{"alice", "bob", "alice"} {
		doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", user, map[string]any{
			"source": "browser",
			"title":  fmt.Sprintf("item %d", i),
			"domain": "example.com",
		}, nil)
	}

	// the router serves the event store directly; the NopSink used in these
	// tests records nothing, so the list is empty but well-formed
	var list struct {
		Events []model.Event `json:"events"`
		Count  int           `json:"count"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/events?limit=10", "", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, list.Count)
}
