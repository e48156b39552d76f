package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgate/focusgate/internal/model"
)

func eventAt(hour int, score float64) model.EngagementEvent {
	return model.EngagementEvent{
		Timestamp:       time.Date(2026, 8, 31, hour, 15, 0, 0, time.UTC),
		EngagementScore: score,
	}
}

func TestTimeOfDayPatterns(t *testing.T) {
	a := NewBehavioralAnalyzer()

	patterns := a.TimeOfDayPatterns([]model.EngagementEvent{
		eventAt(9, 0.8),
		eventAt(9, 0.6),
		eventAt(22, 0.1),
	})

	require.Len(t, patterns, 24)
	assert.InDelta(t, 0.7, patterns[9], 1e-9)
	assert.InDelta(t, 0.1, patterns[22], 1e-9)
	assert.InDelta(t, 0.5, patterns[3], 1e-9)
}

func TestContentTypePreferences(t *testing.T) {
	a := NewBehavioralAnalyzer()

	prefs := a.ContentTypePreferences([]model.EngagementEvent{
		{ContentType: model.ContentTypeArticle, EngagementScore: 0.9},
		{ContentType: model.ContentTypeArticle, EngagementScore: 0.7},
		{ContentType: model.ContentTypeVideo, EngagementScore: 0.2},
	})

	assert.InDelta(t, 0.8, prefs[model.ContentTypeArticle], 1e-9)
	assert.InDelta(t, 0.2, prefs[model.ContentTypeVideo], 1e-9)
}

func TestDomainPreferencesNeedTwoObservations(t *testing.T) {
	a := NewBehavioralAnalyzer()

	prefs := a.DomainPreferences([]model.EngagementEvent{
		{Domain: "arxiv.org", EngagementScore: 0.9},
		{Domain: "arxiv.org", EngagementScore: 0.5},
		{Domain: "onetime.com", EngagementScore: 1.0},
	})

	assert.InDelta(t, 0.7, prefs["arxiv.org"], 1e-9)
	_, ok := prefs["onetime.com"]
	assert.False(t, ok)
}

func TestAttentionFragmentation(t *testing.T) {
	a := NewBehavioralAnalyzer()
	now := time.Now().UTC()

	// avg dwell 15s inside the window gives (30-15)/30
	frag := a.AttentionFragmentation([]model.EngagementEvent{
		{Timestamp: now, TimeSpent: 10},
		{Timestamp: now, TimeSpent: 20},
	}, time.Hour)
	assert.InDelta(t, 0.5, frag, 1e-9)

	// long dwell clamps to zero fragmentation
	frag = a.AttentionFragmentation([]model.EngagementEvent{
		{Timestamp: now, TimeSpent: 600},
	}, time.Hour)
	assert.InDelta(t, 0, frag, 1e-9)

	// events outside the window are ignored
	frag = a.AttentionFragmentation([]model.EngagementEvent{
		{Timestamp: now.Add(-2 * time.Hour), TimeSpent: 1},
	}, time.Hour)
	assert.InDelta(t, 0, frag, 1e-9)

	assert.InDelta(t, 0, a.AttentionFragmentation(nil, time.Hour), 1e-9)
}

func TestDistractionTriggers(t *testing.T) {
	a := NewBehavioralAnalyzer()

	history := []model.EngagementEvent{
		{Domain: "tiktok.com", TimeSpent: 300, Topics: []string{"entertainment"}},
		{Domain: "tiktok.com", TimeSpent: 200, Topics: []string{"entertainment"}},
		{Domain: "tiktok.com", TimeSpent: 400, Topics: []string{"entertainment"}},
		// goal-related time does not count against the domain
		{Domain: "arxiv.org", TimeSpent: 900, Topics: []string{"Science"}},
		// short visits are not triggers
		{Domain: "news.com", TimeSpent: 60},
		// a single long visit is not a pattern
		{Domain: "reddit.com", TimeSpent: 500},
	}

	triggers := a.DistractionTriggers(history, []string{"science"})
	require.Len(t, triggers, 1)
	assert.Equal(t, "tiktok.com", triggers[0].Domain)
	assert.InDelta(t, 0.3, triggers[0].TriggerStrength, 1e-9)
	assert.InDelta(t, 300, triggers[0].AvgTimeWasted, 1e-9)
}

func TestDistractionTriggersSortOrder(t *testing.T) {
	a := NewBehavioralAnalyzer()

	var history []model.EngagementEvent
	for i := 0; i < 5; i++ {
		history = append(history, model.EngagementEvent{Domain: "heavy.com", TimeSpent: 200})
	}
	for i := 0; i < 2; i++ {
		history = append(history, model.EngagementEvent{Domain: "light.com", TimeSpent: 200})
	}

	triggers := a.DistractionTriggers(history, nil)
	require.Len(t, triggers, 2)
	assert.Equal(t, "heavy.com", triggers[0].Domain)
	assert.Equal(t, "light.com", triggers[1].Domain)
}

func TestEstimateUserState(t *testing.T) {
	a := NewBehavioralAnalyzer()

	// 10 events in 10 minutes at 150s each: focus 150/300, one click per minute
	var recent []model.EngagementEvent
	for i := 0; i < 10; i++ {
		recent = append(recent, model.EngagementEvent{TimeSpent: 150})
	}
	state := a.EstimateUserState(recent, 10*time.Minute)

	assert.InDelta(t, 0.5, state.FocusLevel, 1e-9)
	assert.InDelta(t, 1.0/3.0, state.DistractionLevel, 1e-9)
	assert.InDelta(t, 0.5, state.EnergyLevel, 1e-9)
	assert.InDelta(t, 0.5, state.StressLevel, 1e-9)
}

func TestEstimateUserStateEmpty(t *testing.T) {
	a := NewBehavioralAnalyzer()
	state := a.EstimateUserState(nil, time.Hour)

	assert.Equal(t, UserState{FocusLevel: 0.5, EnergyLevel: 0.5, StressLevel: 0.5, DistractionLevel: 0.5}, state)
}
