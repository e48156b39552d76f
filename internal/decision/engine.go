// Package decision synthesizes the final intervention decision from rule
// matches and scoring results.
package decision

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/rules"
)

// Engine makes intervention decisions. Pure given its inputs: the decision
// payload (action, reasoning, applied rules) is fully determined by content,
// profile and scoring result; only the identity and timestamp are fresh.
type Engine struct {
	cfg   *config.Engine
	rules *rules.Engine
}

// NewEngine creates a decision engine.
func NewEngine(cfg *config.Engine) *Engine {
	return &Engine{cfg: cfg, rules: rules.NewEngine()}
}

// Rules exposes the embedded rules engine for validation at the API boundary.
func (e *Engine) Rules() *rules.Engine { return e.rules }

// Decide applies rule precedence, preference adjustments and the safety
// constraint, producing an immutable decision record.
func (e *Engine) Decide(content *model.ContentItem, profile *model.UserProfile, scores model.ScoringResult) model.InterventionDecision {
	matched := e.rules.Evaluate(content, profile.Rules)

	var applied []model.AppliedRule
	var action model.Action
	var reasoning string

	if matched != nil {
		applied = append(applied, model.AppliedRule{
			RuleID: matched.RuleID,
			Weight: 1.0,
			Reason: matched.Reason,
			Action: matched.Action,
		})
		action = matched.Action
		reasoning = fmt.Sprintf("User rule '%s' matched this content: %s", matched.Reason, matched.Action)
	} else {
		action = e.actionFromScore(scores, profile)
		reasoning = scores.Reasoning
	}

	action = e.applySafetyConstraints(action, scores)

	return model.InterventionDecision{
		DecisionID:   uuid.New().String(),
		ContentID:    content.ContentID,
		UserID:       profile.UserID,
		Decision:     action,
		Scores:       scores,
		AppliedRules: applied,
		Reasoning:    reasoning,
		Timestamp:    time.Now().UTC(),
	}
}

// actionFromScore starts from the scorer's recommendation and turns ALLOW_MUTE
// into ALLOW_WARNING when implicit feedback is disabled: without passive
// signals the system cannot learn from a quiet mistake.
func (e *Engine) actionFromScore(scores model.ScoringResult, profile *model.UserProfile) model.Action {
	action := scores.RecommendedAction
	if !profile.Preferences.EnableImplicitFeedback && action == model.ActionAllowMute {
		action = model.ActionAllowWarning
	}
	return action
}

// applySafetyConstraints never blocks content whose absence would not
// measurably help wellbeing.
func (e *Engine) applySafetyConstraints(action model.Action, scores model.ScoringResult) model.Action {
	if action == model.ActionBlock && scores.WellbeingImpact > e.cfg.Scoring.SafetyFloor {
		return model.ActionAllowWarning
	}
	return action
}

// Explanation is a display-oriented breakdown of a decision.
type Explanation struct {
	Action       string              `json:"action"`
	Summary      string              `json:"summary"`
	Scoring      ExplanationScores   `json:"scoring"`
	ValueScores  map[string]string   `json:"valueScores"`
	AppliedRules []model.AppliedRule `json:"appliedRules"`
}

// ExplanationScores holds percentage-formatted scoring fields.
type ExplanationScores struct {
	Alignment          string `json:"alignment"`
	ProductivityImpact string `json:"productivityImpact"`
	WellbeingImpact    string `json:"wellbeingImpact"`
	Confidence         string `json:"confidence"`
}

// Explain renders a structured breakdown of a decision. Formatting only, no
// computation.
func (e *Engine) Explain(d model.InterventionDecision) Explanation {
	valueScores := make(map[string]string, len(d.Scores.ScoresByValue))
	for k, v := range d.Scores.ScoresByValue {
		valueScores[k] = fmt.Sprintf("%.0f%%", v*100)
	}
	return Explanation{
		Action:  string(d.Decision),
		Summary: d.Reasoning,
		Scoring: ExplanationScores{
			Alignment:          fmt.Sprintf("%.0f%%", d.Scores.AlignmentScore*100),
			ProductivityImpact: fmt.Sprintf("%+.0f%%", d.Scores.ProductivityImpact*100),
			WellbeingImpact:    fmt.Sprintf("%+.0f%%", d.Scores.WellbeingImpact*100),
			Confidence:         fmt.Sprintf("%.0f%%", d.Scores.Confidence*100),
		},
		ValueScores:  valueScores,
		AppliedRules: d.AppliedRules,
	}
}
