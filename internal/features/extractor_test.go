package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(config.DefaultEngine())
}

func TestExtractEducationalArticle(t *testing.T) {
	e := newExtractor(t)
	content := &model.ContentItem{
		ContentID:   "c1",
		Title:       "How to learn physics: a guide",
		Domain:      "arxiv.org",
		ContentType: model.ContentTypeArticle,
	}

	f := e.Extract(content)

	assert.Equal(t, model.ToneEducational, f.Tone)
	assert.Contains(t, f.Topics, "science")
	assert.InDelta(t, 0, f.EmotionalValence, 1e-9)
	assert.False(t, f.IsClickbait)
	assert.False(t, f.IsPromotional)
	assert.InDelta(t, 0.95, f.DomainReputation, 1e-9)
}

func TestExtractSensationalClickbait(t *testing.T) {
	e := newExtractor(t)
	content := &model.ContentItem{
		Title:  "You won't believe this shocking disaster!!!!",
		Domain: "tiktok.com",
	}

	f := e.Extract(content)

	assert.Equal(t, model.ToneSensational, f.Tone)
	assert.True(t, f.IsClickbait)
	assert.InDelta(t, -1, f.EmotionalValence, 1e-9)
	assert.InDelta(t, 0.3, f.DomainReputation, 1e-9)
}

func TestExtractEmptyTitleIsNeutral(t *testing.T) {
	e := newExtractor(t)
	f := e.Extract(&model.ContentItem{Domain: "example.com"})

	assert.Equal(t, model.ToneNeutral, f.Tone)
	assert.InDelta(t, 0, f.EmotionalValence, 1e-9)
	assert.Empty(t, f.Topics)
	assert.False(t, f.IsClickbait)
	assert.False(t, f.IsPromotional)
	assert.InDelta(t, 0.5, f.DomainReputation, 1e-9)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := newExtractor(t)
	content := &model.ContentItem{
		Title:  "AI research breakthrough in health and productivity",
		Domain: "medium.com",
		Metadata: model.ContentMetadata{
			Topics: []string{"custom_topic"},
		},
	}

	first := e.Extract(content)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Extract(content))
	}
	assert.Contains(t, first.Topics, "custom_topic")
}

func TestValenceRatio(t *testing.T) {
	e := newExtractor(t)

	// one positive, one negative word cancels out
	f := e.Extract(&model.ContentItem{Title: "Amazing success after the crisis"})
	require.InDelta(t, 1.0/3.0, f.EmotionalValence, 1e-9) // amazing, success vs crisis

	f = e.Extract(&model.ContentItem{Title: "A tragic disaster and a lawsuit"})
	assert.InDelta(t, -1, f.EmotionalValence, 1e-9)
}

func TestClickbaitPunctuation(t *testing.T) {
	e := newExtractor(t)

	assert.True(t, e.isClickbait("Wait what?! Really?? Seriously???"))
	assert.True(t, e.isClickbait("So cool!!!! Look at this"))
	assert.False(t, e.isClickbait("A perfectly normal headline!"))
}

func TestPromotionalPhrases(t *testing.T) {
	e := newExtractor(t)

	assert.True(t, e.isPromotional("Sign up now for our limited offer"))
	assert.False(t, e.isPromotional("Quarterly report published"))
}

func TestSummary(t *testing.T) {
	e := newExtractor(t)

	f := model.ContentFeatures{Topics: []string{"science"}, Tone: model.ToneEducational}
	s := e.Summary(f)
	assert.Contains(t, s, "Topics: science")
	assert.Contains(t, s, "Tone: educational")

	assert.Equal(t, "Generic content", e.Summary(model.ContentFeatures{Tone: model.ToneNeutral}))
}
