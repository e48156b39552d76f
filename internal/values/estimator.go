// Package values maintains the learned value profile: initialization from a
// hierarchy, belief updates from feedback, engagement-based estimation and
// behavioral pattern analysis.
package values

import (
	"time"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

// Strategy is the belief-update rule applied when explicit feedback arrives.
// Implementations receive a cloned profile and may mutate it in place.
type Strategy interface {
	// Apply adjusts every dimension according to the feedback rating sign.
	Apply(profile *model.ValueProfile, rating int)
}

// multiplicativeStrategy is the default update rule: a positive rating means
// the system was too strict, so every importance is softened; a negative
// rating means too lenient, so every importance is tightened. Values stay in
// [0,1].
type multiplicativeStrategy struct {
	soften  float64
	tighten float64
}

func (s multiplicativeStrategy) Apply(profile *model.ValueProfile, rating int) {
	factor := s.tighten
	if rating > 0 {
		factor = s.soften
	}
	for _, dims := range profile.Values {
		for dim, v := range dims {
			dims[dim] = clamp(v*factor, 0, 1)
		}
	}
}

// Estimator produces and evolves value profile snapshots. Snapshots are
// immutable; every update returns a new one.
type Estimator struct {
	cfg      *config.Engine
	strategy Strategy
}

// NewEstimator creates an estimator with the default multiplicative update
// strategy.
func NewEstimator(cfg *config.Engine) *Estimator {
	return &Estimator{
		cfg: cfg,
		strategy: multiplicativeStrategy{
			soften:  cfg.Learning.Soften,
			tighten: cfg.Learning.Tighten,
		},
	}
}

// NewEstimatorWithStrategy creates an estimator with a caller-supplied update
// rule.
func NewEstimatorWithStrategy(cfg *config.Engine, s Strategy) *Estimator {
	return &Estimator{cfg: cfg, strategy: s}
}

// Initialize builds a neutral profile from a hierarchy: every declared
// dimension starts at 0.5 importance with zero confidence.
func (e *Estimator) Initialize(hierarchy model.Hierarchy) model.ValueProfile {
	values := make(map[string]map[string]float64, len(hierarchy))
	for category, dims := range hierarchy {
		m := make(map[string]float64, len(dims))
		for _, dim := range dims {
			m[dim] = 0.5
		}
		values[category] = m
	}
	return model.ValueProfile{
		Values:     values,
		Confidence: 0,
		UpdatedAt:  time.Now().UTC(),
	}
}

// UpdateFromFeedback derives a new snapshot from feedback. Feedback without a
// rating changes nothing. A neutral (0) rating leaves every importance as-is
// but still counts as an observation, so confidence creeps up toward its cap;
// a signed rating additionally runs the strategy over every dimension.
func (e *Estimator) UpdateFromFeedback(profile model.ValueProfile, feedback model.UserFeedback) model.ValueProfile {
	if feedback.Rating == nil {
		return profile
	}
	next := profile.Clone()
	if *feedback.Rating != 0 {
		e.strategy.Apply(&next, *feedback.Rating)
	}
	next.Confidence = clamp(next.Confidence+e.cfg.Learning.ConfidenceStep, 0, e.cfg.Learning.ConfidenceCap)
	next.UpdatedAt = time.Now().UTC()
	return next
}

// EstimateFromEngagement infers a coarse profile from observed engagement.
// A high share of time on articles signals a learning orientation; confidence
// scales with sample size.
func (e *Estimator) EstimateFromEngagement(events []model.EngagementEvent) model.ValueProfile {
	profile := e.Initialize(e.cfg.Hierarchy)
	if len(events) == 0 {
		return profile
	}

	var total, articleTime float64
	for _, ev := range events {
		total += ev.TimeSpent
		if ev.ContentType == model.ContentTypeArticle {
			articleTime += ev.TimeSpent
		}
	}
	if total > 0 && articleTime/total > e.cfg.Learning.EngagementArticleRatio {
		if dims, ok := profile.Values["productivity"]; ok {
			dims["learning"] = e.cfg.Learning.EngagementLearning
		}
	}

	profile.Confidence = clamp(
		float64(len(events))/e.cfg.Learning.EngagementSampleScale,
		0, e.cfg.Learning.EngagementCap,
	)
	return profile
}

// Interval is a closed range around an importance estimate.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// ConfidenceIntervals returns per-dimension intervals whose half-width shrinks
// as profile confidence grows.
func (e *Estimator) ConfidenceIntervals(profile model.ValueProfile) map[string]map[string]Interval {
	width := e.cfg.Learning.IntervalWidth * (1 - profile.Confidence)
	out := make(map[string]map[string]Interval, len(profile.Values))
	for category, dims := range profile.Values {
		m := make(map[string]Interval, len(dims))
		for dim, v := range dims {
			m[dim] = Interval{
				Low:  clamp(v-width, 0, 1),
				High: clamp(v+width, 0, 1),
			}
		}
		out[category] = m
	}
	return out
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
