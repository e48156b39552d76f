package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

func baseProfile() *model.UserProfile {
	return &model.UserProfile{
		UserID:      "u1",
		Preferences: model.DefaultPreferences(),
		Settings:    model.DefaultSettings(),
	}
}

func scoresWith(action model.Action, wellbeing float64) model.ScoringResult {
	return model.ScoringResult{
		ContentID:         "c1",
		UserID:            "u1",
		AlignmentScore:    0.4,
		WellbeingImpact:   wellbeing,
		Confidence:        0.6,
		Reasoning:         "score-derived reasoning",
		RecommendedAction: action,
	}
}

func TestDecideFollowsScorerWithoutRules(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1"}

	d := e.Decide(content, baseProfile(), scoresWith(model.ActionAllow, 0))

	assert.Equal(t, model.ActionAllow, d.Decision)
	assert.Equal(t, "score-derived reasoning", d.Reasoning)
	assert.Empty(t, d.AppliedRules)
	assert.NotEmpty(t, d.DecisionID)
	assert.Equal(t, "u1", d.UserID)
}

func TestDecideRuleOverridesScore(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1", Domain: "tiktok.com"}

	domain := "tiktok.com"
	profile := baseProfile()
	profile.Rules = []model.InterventionRule{{
		RuleID:   "block-tiktok",
		Domain:   &domain,
		Action:   model.ActionBlock,
		Reason:   "tiktok is off-limits during work",
		Priority: 90,
		IsActive: true,
	}}

	// wellbeing low enough that the safety constraint leaves BLOCK intact
	d := e.Decide(content, profile, scoresWith(model.ActionAllow, -0.5))

	assert.Equal(t, model.ActionBlock, d.Decision)
	require.Len(t, d.AppliedRules, 1)
	assert.Equal(t, "block-tiktok", d.AppliedRules[0].RuleID)
	assert.InDelta(t, 1.0, d.AppliedRules[0].Weight, 1e-9)
	assert.Contains(t, d.Reasoning, "tiktok is off-limits")
}

func TestDecideMuteDowngradeWithoutImplicitFeedback(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1"}

	profile := baseProfile()
	profile.Preferences.EnableImplicitFeedback = false

	d := e.Decide(content, profile, scoresWith(model.ActionAllowMute, 0))
	assert.Equal(t, model.ActionAllowWarning, d.Decision)

	profile.Preferences.EnableImplicitFeedback = true
	d = e.Decide(content, profile, scoresWith(model.ActionAllowMute, 0))
	assert.Equal(t, model.ActionAllowMute, d.Decision)
}

func TestDecideSafetyConstraint(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1"}

	// BLOCK with near-neutral wellbeing is softened
	d := e.Decide(content, baseProfile(), scoresWith(model.ActionBlock, 0))
	assert.Equal(t, model.ActionAllowWarning, d.Decision)

	// genuinely harmful content stays blocked
	d = e.Decide(content, baseProfile(), scoresWith(model.ActionBlock, -0.5))
	assert.Equal(t, model.ActionBlock, d.Decision)
}

func TestDecideSafetyConstraintAppliesToRules(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1", Domain: "example.com"}

	domain := "example.com"
	profile := baseProfile()
	profile.Rules = []model.InterventionRule{{
		RuleID:   "r1",
		Domain:   &domain,
		Action:   model.ActionBlock,
		Reason:   "blanket block",
		Priority: 50,
		IsActive: true,
	}}

	d := e.Decide(content, profile, scoresWith(model.ActionAllow, 0.2))
	assert.Equal(t, model.ActionAllowWarning, d.Decision)
}

func TestDecidePayloadIsDeterministic(t *testing.T) {
	e := NewEngine(config.DefaultEngine())
	content := &model.ContentItem{ContentID: "c1"}
	scores := scoresWith(model.ActionAllow, 0)

	a := e.Decide(content, baseProfile(), scores)
	b := e.Decide(content, baseProfile(), scores)

	assert.Equal(t, a.Decision, b.Decision)
	assert.Equal(t, a.Reasoning, b.Reasoning)
	assert.Equal(t, a.AppliedRules, b.AppliedRules)
	assert.Equal(t, a.Scores, b.Scores)
	assert.NotEqual(t, a.DecisionID, b.DecisionID)
}

func TestExplainFormatsPercentages(t *testing.T) {
	e := NewEngine(config.DefaultEngine())

	d := model.InterventionDecision{
		Decision:  model.ActionAllow,
		Reasoning: "because",
		Scores: model.ScoringResult{
			AlignmentScore:     0.58,
			ProductivityImpact: 0.6,
			WellbeingImpact:    -0.25,
			Confidence:         0.75,
			ScoresByValue:      map[string]float64{"learning": 0.64},
		},
	}

	exp := e.Explain(d)
	assert.Equal(t, "ALLOW", exp.Action)
	assert.Equal(t, "because", exp.Summary)
	assert.Equal(t, "58%", exp.Scoring.Alignment)
	assert.Equal(t, "+60%", exp.Scoring.ProductivityImpact)
	assert.Equal(t, "-25%", exp.Scoring.WellbeingImpact)
	assert.Equal(t, "75%", exp.Scoring.Confidence)
	assert.Equal(t, "64%", exp.ValueScores["learning"])
}
