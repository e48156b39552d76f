package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

func testProfile() *model.UserProfile {
	return &model.UserProfile{
		UserID: "u1",
		Values: model.ValueProfile{
			Values: map[string]map[string]float64{
				"productivity": {"learning": 0.8, "focus": 0.8, "output_quality": 0.7},
				"wellbeing":    {"sleep_quality": 0.6},
			},
			Confidence: 0.5,
			UpdatedAt:  time.Now().UTC(),
		},
		Preferences: model.DefaultPreferences(),
		Settings:    model.DefaultSettings(),
	}
}

func TestScoreLearningArticle(t *testing.T) {
	s := NewScorer(config.DefaultEngine())
	content := &model.ContentItem{
		ContentID:   "c1",
		Title:       "How to learn physics: a guide",
		Domain:      "arxiv.org",
		ContentType: model.ContentTypeArticle,
	}

	result := s.Score(content, testProfile())

	// learning 0.8*0.8, focus 0.8*0.8, sleep 0.6*0.7, output 0.7*0.9
	assert.InDelta(t, 0.64, result.ScoresByValue["learning"], 1e-9)
	assert.InDelta(t, 0.64, result.ScoresByValue["focus"], 1e-9)
	assert.InDelta(t, 0.42, result.ScoresByValue["sleep_quality"], 1e-9)
	assert.InDelta(t, 0.63, result.ScoresByValue["output_quality"], 1e-9)
	assert.InDelta(t, 0.5825, result.AlignmentScore, 1e-9)

	assert.InDelta(t, 0.6, result.ProductivityImpact, 1e-9)
	assert.Equal(t, model.ActionAllow, result.RecommendedAction)
	assert.NotEmpty(t, result.Reasoning)

	// features were cached on the item
	require.NotNil(t, content.Features)
}

func TestScoreDistractionClickbait(t *testing.T) {
	s := NewScorer(config.DefaultEngine())
	content := &model.ContentItem{
		ContentID:   "c2",
		Title:       "You won't believe this shocking disaster!!!!",
		Domain:      "tiktok.com",
		ContentType: model.ContentTypeVideo,
	}

	result := s.Score(content, testProfile())

	// learning 0.8*0.3, focus 0.8*0.2, sleep 0.6*0.2, output 0.7*0.4
	assert.InDelta(t, 0.20, result.AlignmentScore, 1e-9)
	assert.Equal(t, model.ActionBlock, result.RecommendedAction)

	// distraction domain -0.5, clickbait -0.3
	assert.InDelta(t, -0.8, result.ProductivityImpact, 1e-9)
	// valence -1 * 0.5, sensational negative -0.3
	assert.InDelta(t, -0.8, result.WellbeingImpact, 1e-9)
}

func TestScoreEmptyProfileIsNeutral(t *testing.T) {
	s := NewScorer(config.DefaultEngine())
	profile := &model.UserProfile{UserID: "u1"}
	content := &model.ContentItem{Title: "Anything at all", Domain: "example.com"}

	result := s.Score(content, profile)

	assert.InDelta(t, 0.5, result.AlignmentScore, 1e-9)
	assert.Empty(t, result.ScoresByValue)
	assert.Equal(t, model.ActionAllowMute, result.RecommendedAction)
}

func TestScoreBoundsAlwaysHold(t *testing.T) {
	s := NewScorer(config.DefaultEngine())
	titles := []string{
		"", "Amazing incredible success breakthrough love happy joy",
		"crisis death destroyed failed worst tragic disaster attack lawsuit fraud scandal",
		"Buy now!!! Click here!!! Limited offer????",
	}
	domains := []string{"arxiv.org", "tiktok.com", "example.com", "twitter.com"}

	for _, title := range titles {
		for _, domain := range domains {
			result := s.Score(&model.ContentItem{Title: title, Domain: domain}, testProfile())
			assert.GreaterOrEqual(t, result.AlignmentScore, 0.0)
			assert.LessOrEqual(t, result.AlignmentScore, 1.0)
			assert.GreaterOrEqual(t, result.ProductivityImpact, -1.0)
			assert.LessOrEqual(t, result.ProductivityImpact, 1.0)
			assert.GreaterOrEqual(t, result.WellbeingImpact, -1.0)
			assert.LessOrEqual(t, result.WellbeingImpact, 1.0)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 1.0)
			assert.True(t, result.RecommendedAction.Valid())
		}
	}
}

func TestConfidenceGrowsWithMetadata(t *testing.T) {
	s := NewScorer(config.DefaultEngine())
	profile := testProfile()

	bare := s.Score(&model.ContentItem{Title: "plain", Domain: "example.com"}, profile)

	author := "someone"
	now := time.Now().UTC()
	rich := s.Score(&model.ContentItem{
		Title:  "A guide to productivity research",
		Domain: "example.com",
		Metadata: model.ContentMetadata{
			Author:    &author,
			Timestamp: &now,
		},
	}, profile)

	assert.Greater(t, rich.Confidence, bare.Confidence)
	assert.InDelta(t, 0.5, bare.Confidence, 1e-9)
}

func TestRecommendActionTable(t *testing.T) {
	s := NewScorer(config.DefaultEngine())

	cases := []struct {
		alignment, wellbeing float64
		want                 model.Action
	}{
		{0.9, 0.0, model.ActionAllowPrioritize},
		{0.9, -0.5, model.ActionAllow}, // high alignment but wellbeing too low to prioritize
		{0.6, -0.5, model.ActionAllow},
		{0.4, 0.0, model.ActionAllowMute},
		{0.4, -0.5, model.ActionAllowWarning},
		{0.2, 0.0, model.ActionBlock},
	}
	for _, tc := range cases {
		got := s.recommendAction(tc.alignment, tc.wellbeing)
		assert.Equal(t, tc.want, got, "alignment=%v wellbeing=%v", tc.alignment, tc.wellbeing)
	}
}
