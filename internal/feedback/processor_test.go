package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func newProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(config.DefaultEngine())
}

func TestProcessExplicit(t *testing.T) {
	p := newProcessor(t)

	s := p.ProcessExplicit(model.UserFeedback{Rating: intPtr(1)})
	assert.Equal(t, Signal{Label: "dis_block_agree", Confidence: 0.9}, s)

	s = p.ProcessExplicit(model.UserFeedback{Rating: intPtr(-1)})
	assert.Equal(t, Signal{Label: "disagree_allow", Confidence: 0.9}, s)

	s = p.ProcessExplicit(model.UserFeedback{Rating: intPtr(0)})
	assert.Equal(t, Signal{Label: "neutral", Confidence: 0.5}, s)

	s = p.ProcessExplicit(model.UserFeedback{})
	assert.Equal(t, Signal{Label: "neutral", Confidence: 0.0}, s)
}

func TestProcessImplicit(t *testing.T) {
	p := newProcessor(t)

	cases := []struct {
		name      string
		action    *string
		timeSpent *float64
		want      Signal
	}{
		{"no action", nil, nil, Signal{Label: "neutral", Confidence: 0.3}},
		{"dismissed", strPtr("dismissed"), nil, Signal{Label: "implicit_disagree", Confidence: 0.6}},
		{"short dwell", strPtr("spent_time"), floatPtr(60), Signal{Label: "implicit_agree", Confidence: 0.6}},
		{"long dwell", strPtr("spent_time"), floatPtr(240), Signal{Label: "implicit_agree", Confidence: 0.8}},
		{"returned", strPtr("returned"), nil, Signal{Label: "implicit_strong_agree", Confidence: 0.85}},
		{"unknown action", strPtr("teleported"), nil, Signal{Label: "neutral", Confidence: 0.3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.ProcessImplicit(tc.action, tc.timeSpent))
		})
	}
}

func TestAggregateSignals(t *testing.T) {
	p := newProcessor(t)

	agg := p.AggregateSignals(nil)
	assert.Equal(t, "neutral", agg.Direction)

	// all positive ratings: the user keeps disagreeing with blocks
	batch := []model.UserFeedback{
		{Rating: intPtr(1)},
		{Rating: intPtr(1)},
		{Rating: nil}, // unrated feedback carries no weight
	}
	agg = p.AggregateSignals(batch)
	assert.Equal(t, "user_disagrees_with_decision", agg.Direction)
	assert.InDelta(t, 1.0, agg.WeightedSignal, 1e-9)
	assert.InDelta(t, 0.6, agg.Confidence, 1e-9) // 3/5

	batch = []model.UserFeedback{{Rating: intPtr(-1)}, {Rating: intPtr(-1)}}
	agg = p.AggregateSignals(batch)
	assert.Equal(t, "user_agrees_with_decision", agg.Direction)

	// mixed feedback cancels out
	batch = []model.UserFeedback{{Rating: intPtr(1)}, {Rating: intPtr(-1)}}
	agg = p.AggregateSignals(batch)
	assert.Equal(t, "neutral", agg.Direction)
	assert.InDelta(t, 0, agg.WeightedSignal, 1e-9)

	// only unrated feedback
	agg = p.AggregateSignals([]model.UserFeedback{{Rating: nil}})
	assert.Equal(t, "neutral", agg.Direction)
}

func TestAggregateConfidenceSaturates(t *testing.T) {
	p := newProcessor(t)

	var batch []model.UserFeedback
	for i := 0; i < 20; i++ {
		batch = append(batch, model.UserFeedback{Rating: intPtr(1)})
	}
	agg := p.AggregateSignals(batch)
	assert.InDelta(t, 1.0, agg.Confidence, 1e-9)
}

func TestEstimateAccuracy(t *testing.T) {
	p := newProcessor(t)

	assert.InDelta(t, 0.5, p.EstimateAccuracy(nil), 1e-9)

	batch := []model.UserFeedback{
		{Rating: intPtr(0)},  // agreement, full credit
		{Rating: intPtr(1)},  // correction, half credit
		{Rating: intPtr(-1)}, // correction, half credit
		{Rating: nil},        // no signal
	}
	assert.InDelta(t, 0.5, p.EstimateAccuracy(batch), 1e-9)

	allNeutral := []model.UserFeedback{{Rating: intPtr(0)}, {Rating: intPtr(0)}}
	assert.InDelta(t, 1.0, p.EstimateAccuracy(allNeutral), 1e-9)
}

func snapshot(learning float64) model.ValueProfile {
	return model.ValueProfile{
		Values: map[string]map[string]float64{
			"productivity": {"learning": learning, "focus": 0.5},
		},
	}
}

func TestDetectDrift(t *testing.T) {
	p := newProcessor(t)

	assert.False(t, p.DetectDrift(nil))
	assert.False(t, p.DetectDrift([]model.ValueProfile{snapshot(0.5)}))

	// 0.1 change stays under the 0.15 threshold
	assert.False(t, p.DetectDrift([]model.ValueProfile{snapshot(0.5), snapshot(0.6)}))

	// 0.2 change crosses it
	assert.True(t, p.DetectDrift([]model.ValueProfile{snapshot(0.5), snapshot(0.7)}))

	// only the endpoints matter
	assert.True(t, p.DetectDrift([]model.ValueProfile{snapshot(0.5), snapshot(0.5), snapshot(0.9)}))
}

func TestDetectDriftIgnoresUnsharedDimensions(t *testing.T) {
	p := newProcessor(t)

	old := model.ValueProfile{Values: map[string]map[string]float64{
		"productivity": {"learning": 0.5},
	}}
	renamed := model.ValueProfile{Values: map[string]map[string]float64{
		"productivity": {"deep_work": 0.9},
	}}
	assert.False(t, p.DetectDrift([]model.ValueProfile{old, renamed}))
}

func TestRecommendSchedule(t *testing.T) {
	p := newProcessor(t)

	// nothing accumulated, recently updated
	s := p.RecommendSchedule(0, 0)
	assert.False(t, s.ShouldUpdate)
	assert.Equal(t, "normal", s.UpdatePriority)
	assert.Equal(t, 7, s.NextUpdateInDays)
	assert.Equal(t, 10, s.FeedbackSignalsNeeded)

	// enough feedback
	s = p.RecommendSchedule(10, 0)
	assert.True(t, s.ShouldUpdate)
	assert.Equal(t, "high", s.UpdatePriority)
	assert.Equal(t, 0, s.FeedbackSignalsNeeded)

	// enough elapsed time
	s = p.RecommendSchedule(2, 9)
	assert.True(t, s.ShouldUpdate)
	assert.Equal(t, 0, s.NextUpdateInDays)
	assert.Equal(t, 8, s.FeedbackSignalsNeeded)
}
