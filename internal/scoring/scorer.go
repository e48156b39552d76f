// Package scoring computes value-alignment scores for content items against a
// user's value profile.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/features"
	"github.com/focusgate/focusgate/internal/model"
)

// Scorer scores content against user values. Pure computation; the only side
// effect is caching extracted features on the content item.
type Scorer struct {
	cfg       *config.Engine
	extractor *features.Extractor
}

// NewScorer creates a scorer backed by the given engine config.
func NewScorer(cfg *config.Engine) *Scorer {
	return &Scorer{cfg: cfg, extractor: features.NewExtractor(cfg)}
}

// Score evaluates content against the profile's value hierarchy and returns a
// full scoring result. Features are extracted lazily and cached on content.
func (s *Scorer) Score(content *model.ContentItem, profile *model.UserProfile) model.ScoringResult {
	if content.Features == nil {
		f := s.extractor.Extract(content)
		content.Features = &f
	}
	feats := *content.Features

	scoresByValue := s.valueAlignment(content, feats, profile.Values)
	alignment := aggregateAlignment(scoresByValue)
	productivity := s.productivityImpact(content, feats)
	wellbeing := s.wellbeingImpact(content, feats)
	confidence := s.confidence(content, feats)

	return model.ScoringResult{
		ContentID:          content.ContentID,
		UserID:             profile.UserID,
		AlignmentScore:     alignment,
		ProductivityImpact: productivity,
		WellbeingImpact:    wellbeing,
		Confidence:         confidence,
		ScoresByValue:      scoresByValue,
		Reasoning:          s.reasoning(alignment, productivity, wellbeing),
		RecommendedAction:  s.recommendAction(alignment, wellbeing),
		Timestamp:          time.Now().UTC(),
	}
}

// valueAlignment computes importance x alignment-factor for each dimension the
// profile declares and the scorer recognizes. Unknown dimensions contribute
// nothing.
func (s *Scorer) valueAlignment(content *model.ContentItem, feats model.ContentFeatures, values model.ValueProfile) map[string]float64 {
	w := s.cfg.Scoring
	scores := map[string]float64{}

	if learning, ok := values.Dimension("productivity", "learning"); ok {
		isLearningContent := content.ContentType == model.ContentTypeArticle ||
			feats.Tone == model.ToneEducational ||
			hasAnyTopic(feats.Topics, "science", "technology", "productivity")
		factor := w.LearningDefault
		if isLearningContent {
			factor = w.LearningAligned
		}
		scores["learning"] = learning * factor
	}

	if focus, ok := values.Dimension("productivity", "focus"); ok {
		factor := w.FocusDefault
		if s.cfg.IsDistractionDomain(content.Domain) || feats.IsClickbait {
			factor = w.FocusDistracted
		}
		scores["focus"] = focus * factor
	}

	if sleep, ok := values.Dimension("wellbeing", "sleep_quality"); ok {
		isStressful := feats.EmotionalValence < w.StressfulValence ||
			hasAnyTopic(feats.Topics, "crisis", "disease", "attack")
		factor := w.SleepDefault
		if isStressful {
			factor = w.SleepStressful
		}
		scores["sleep_quality"] = sleep * factor
	}

	if output, ok := values.Dimension("productivity", "output_quality"); ok {
		factor := w.OutputDefault
		if s.cfg.IsLearningDomain(content.Domain) {
			factor = w.OutputHighQuality
		}
		scores["output_quality"] = output * factor
	}

	return scores
}

// aggregateAlignment averages the per-dimension scores; a profile with no
// recognized dimension yields the neutral 0.5, not zero.
func aggregateAlignment(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0.5
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return clamp(sum/float64(len(scores)), 0, 1)
}

func (s *Scorer) productivityImpact(content *model.ContentItem, feats model.ContentFeatures) float64 {
	w := s.cfg.Scoring
	var impact float64
	if s.cfg.IsLearningDomain(content.Domain) {
		impact += w.LearningDomainImpact
	}
	if s.cfg.IsDistractionDomain(content.Domain) {
		impact += w.DistractionDomainImpact
	}
	if feats.IsClickbait {
		impact += w.ClickbaitImpact
	}
	if feats.IsPromotional {
		impact += w.PromoImpact
	}
	return clamp(impact, -1, 1)
}

func (s *Scorer) wellbeingImpact(content *model.ContentItem, feats model.ContentFeatures) float64 {
	w := s.cfg.Scoring
	impact := feats.EmotionalValence * w.ValenceWeight
	if feats.Tone == model.ToneSensational && feats.EmotionalValence < 0 {
		impact += w.StressImpact
	}
	if s.cfg.IsSocialDomain(content.Domain) {
		impact += w.SocialImpact
	}
	return clamp(impact, -1, 1)
}

// confidence grows with metadata completeness, capped at 1.0.
func (s *Scorer) confidence(content *model.ContentItem, feats model.ContentFeatures) float64 {
	w := s.cfg.Scoring
	confidence := w.BaseConfidence
	if content.Metadata.Author != nil && *content.Metadata.Author != "" {
		confidence += w.MetadataConfidence
	}
	if content.Metadata.Timestamp != nil {
		confidence += w.MetadataConfidence
	}
	if len(feats.Topics) > 0 {
		confidence += w.MetadataConfidence
	}
	if feats.Tone != "" && feats.Tone != model.ToneNeutral {
		confidence += w.ToneConfidence
	}
	return clamp(confidence, 0, 1)
}

func (s *Scorer) reasoning(alignment, productivity, wellbeing float64) string {
	var parts []string

	switch {
	case alignment > 0.7:
		parts = append(parts, "High alignment with your stated values")
	case alignment > 0.4:
		parts = append(parts, "Moderate alignment with your values")
	default:
		parts = append(parts, "Low alignment with your stated values")
	}

	if productivity > 0.3 {
		parts = append(parts, fmt.Sprintf("likely increases productivity (%+.0f%%)", productivity*100))
	} else if productivity < -0.3 {
		parts = append(parts, fmt.Sprintf("likely decreases productivity (%+.0f%%)", productivity*100))
	}

	if wellbeing < -0.2 {
		parts = append(parts, "may negatively affect wellbeing")
	}

	return strings.Join(parts, "; ")
}

// recommendAction applies the fixed decision table on (alignment, wellbeing).
func (s *Scorer) recommendAction(alignment, wellbeing float64) model.Action {
	w := s.cfg.Scoring
	switch {
	case alignment > w.PrioritizeAbove && wellbeing > w.PrioritizeWellbeing:
		return model.ActionAllowPrioritize
	case alignment > w.AllowAbove:
		return model.ActionAllow
	case alignment > w.MuteAbove:
		if wellbeing < w.WarnBelow {
			return model.ActionAllowWarning
		}
		return model.ActionAllowMute
	default:
		return model.ActionBlock
	}
}

func hasAnyTopic(topics []string, wanted ...string) bool {
	for _, t := range topics {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
