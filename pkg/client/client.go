// Package client is a Go client for the focusgate REST API.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to a running focusgate service. Safe for concurrent use.
type Client struct {
	http   *resty.Client
	userID string
}

// Option configures a Client.
type Option func(*Client)

// WithUser sets the X-User-ID header on every request.
func WithUser(userID string) Option {
	return func(c *Client) { c.userID = userID }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.userID != "" {
		req.SetHeader("X-User-ID", c.userID)
	}
	return req
}

func checkStatus(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("focusgate: %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// Evaluate submits content for evaluation and returns the decision.
func (c *Client) Evaluate(ctx context.Context, content *ContentItem) (*InterventionDecision, error) {
	var out InterventionDecision
	resp, err := c.request(ctx).SetBody(content).SetResult(&out).Post("/api/evaluate")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the acting user's profile, creating it on first contact.
func (c *Client) GetProfile(ctx context.Context) (*UserProfile, error) {
	var out UserProfile
	resp, err := c.request(ctx).SetResult(&out).Get("/api/profile")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePreferences replaces the user's preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs Preferences) (*UserProfile, error) {
	var out UserProfile
	resp, err := c.request(ctx).SetBody(prefs).SetResult(&out).Put("/api/profile/preferences")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializeValues resets the value profile from a hierarchy. A nil hierarchy
// uses the server default.
func (c *Client) InitializeValues(ctx context.Context, hierarchy Hierarchy) (*ValueProfile, error) {
	var out ValueProfile
	req := c.request(ctx).SetResult(&out)
	if hierarchy != nil {
		req.SetBody(map[string]interface{}{"valueHierarchy": hierarchy})
	}
	resp, err := req.Post("/api/values/initialize")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateValues applies one rating signal to the value profile.
func (c *Client) UpdateValues(ctx context.Context, rating int) (*ValueProfile, error) {
	var out ValueProfile
	resp, err := c.request(ctx).
		SetBody(map[string]interface{}{"rating": rating}).
		SetResult(&out).
		Post("/api/values/update")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRule validates and stores a new intervention rule.
func (c *Client) CreateRule(ctx context.Context, rule *InterventionRule) (*InterventionRule, error) {
	var out InterventionRule
	resp, err := c.request(ctx).SetBody(rule).SetResult(&out).Post("/api/rules")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRules returns the user's intervention rules.
func (c *Client) ListRules(ctx context.Context) ([]InterventionRule, error) {
	var out struct {
		Rules []InterventionRule `json:"rules"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/rules")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return out.Rules, nil
}

// DeleteRule removes a rule by ID.
func (c *Client) DeleteRule(ctx context.Context, ruleID string) error {
	resp, err := c.request(ctx).Delete("/api/rules/" + ruleID)
	return checkStatus(resp, err)
}

// SubmitFeedback records feedback on a decision.
func (c *Client) SubmitFeedback(ctx context.Context, fb UserFeedback) (*UserFeedback, error) {
	var out UserFeedback
	resp, err := c.request(ctx).SetBody(fb).SetResult(&out).Post("/api/feedback")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns the service status document.
func (c *Client) Status(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/status")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// DecisionStats returns decision counts grouped by action.
func (c *Client) DecisionStats(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/analytics/decision-stats")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// Accuracy returns the estimated decision accuracy.
func (c *Client) Accuracy(ctx context.Context) (float64, error) {
	var out struct {
		Accuracy float64 `json:"accuracy"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/analytics/accuracy")
	if err := checkStatus(resp, err); err != nil {
		return 0, err
	}
	return out.Accuracy, nil
}

// Drift reports whether the user's values have drifted.
func (c *Client) Drift(ctx context.Context) (bool, error) {
	var out struct {
		DriftDetected bool `json:"driftDetected"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/analytics/drift")
	if err := checkStatus(resp, err); err != nil {
		return false, err
	}
	return out.DriftDetected, nil
}

// ListEvents returns recent system events, optionally filtered by level.
func (c *Client) ListEvents(ctx context.Context, level string, limit int) ([]Event, error) {
	var out struct {
		Events []Event `json:"events"`
	}
	req := c.request(ctx).SetResult(&out)
	if level != "" {
		req.SetQueryParam("level", level)
	}
	if limit > 0 {
		req.SetQueryParam("limit", fmt.Sprint(limit))
	}
	resp, err := req.Get("/api/events")
	if err := checkStatus(resp, err); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// Health reports whether the service considers itself healthy.
func (c *Client) Health(ctx context.Context) (bool, error) {
	var out struct {
		Status string `json:"status"`
	}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/health")
	if err := checkStatus(resp, err); err != nil {
		return false, err
	}
	return out.Status == "healthy", nil
}
