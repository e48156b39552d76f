// Package feedback interprets user feedback signals, aggregates them and
// derives learning recommendations from them.
package feedback

import (
	"math"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

// Signal is an interpreted feedback observation with a reliability score.
type Signal struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Aggregate summarizes a batch of feedback into a direction and confidence.
type Aggregate struct {
	Direction      string  `json:"direction"`
	WeightedSignal float64 `json:"weightedSignal"`
	Confidence     float64 `json:"confidence"`
}

// Schedule is a recommendation for when to run the next values update.
type Schedule struct {
	ShouldUpdate          bool   `json:"shouldUpdate"`
	NextUpdateInDays      int    `json:"nextUpdateInDays"`
	FeedbackSignalsNeeded int    `json:"feedbackSignalsNeeded"`
	UpdatePriority        string `json:"updatePriority"`
}

// Processor interprets raw feedback. Stateless; thresholds come from the
// engine config.
type Processor struct {
	cfg *config.Engine
}

// NewProcessor creates a feedback processor.
func NewProcessor(cfg *config.Engine) *Processor { return &Processor{cfg: cfg} }

// ProcessExplicit interprets an explicit rating. A +1 rating means the
// decision was too strict, a -1 rating means too lenient.
func (p *Processor) ProcessExplicit(fb model.UserFeedback) Signal {
	if fb.Rating == nil {
		return Signal{Label: "neutral", Confidence: 0}
	}
	switch *fb.Rating {
	case 1:
		return Signal{Label: "dis_block_agree", Confidence: 0.9}
	case -1:
		return Signal{Label: "disagree_allow", Confidence: 0.9}
	default:
		return Signal{Label: "neutral", Confidence: 0.5}
	}
}

// ProcessImplicit interprets behavioral signals. Dwell beyond three minutes
// escalates an agreement signal; a return visit is the strongest signal.
func (p *Processor) ProcessImplicit(action *string, timeSpent *float64) Signal {
	if action == nil {
		return Signal{Label: "neutral", Confidence: 0.3}
	}
	switch *action {
	case "dismissed":
		return Signal{Label: "implicit_disagree", Confidence: 0.6}
	case "spent_time":
		if timeSpent != nil && *timeSpent > 180 {
			return Signal{Label: "implicit_agree", Confidence: 0.8}
		}
		return Signal{Label: "implicit_agree", Confidence: 0.6}
	case "returned":
		return Signal{Label: "implicit_strong_agree", Confidence: 0.85}
	default:
		return Signal{Label: "neutral", Confidence: 0.3}
	}
}

// AggregateSignals combines rated feedback into an average direction. Only
// explicit ratings carry weight; confidence grows with the batch size.
func (p *Processor) AggregateSignals(batch []model.UserFeedback) Aggregate {
	if len(batch) == 0 {
		return Aggregate{Direction: "neutral"}
	}

	var weightedSignal, totalWeight float64
	for _, fb := range batch {
		if fb.Rating == nil {
			continue
		}
		weightedSignal += float64(*fb.Rating)
		totalWeight++
	}
	if totalWeight == 0 {
		return Aggregate{Direction: "neutral"}
	}

	avg := weightedSignal / totalWeight
	confidence := math.Min(1, float64(len(batch))/5)

	direction := "neutral"
	if avg > 0.3 {
		direction = "user_disagrees_with_decision"
	} else if avg < -0.3 {
		direction = "user_agrees_with_decision"
	}

	return Aggregate{Direction: direction, WeightedSignal: avg, Confidence: confidence}
}

// EstimateAccuracy scores past decisions from their feedback: neutral ratings
// count as correct, non-neutral ratings as half-correct. No feedback means the
// uninformed prior of 0.5.
func (p *Processor) EstimateAccuracy(batch []model.UserFeedback) float64 {
	if len(batch) == 0 {
		return 0.5
	}
	var correct float64
	for _, fb := range batch {
		if fb.Rating == nil {
			continue
		}
		switch *fb.Rating {
		case 0:
			correct++
		case 1, -1:
			correct += 0.5
		}
	}
	return correct / float64(len(batch))
}

// DetectDrift compares the first and last profile snapshots and reports
// whether any shared dimension moved more than the drift threshold.
func (p *Processor) DetectDrift(history []model.ValueProfile) bool {
	if len(history) < 2 {
		return false
	}
	oldest := history[0].Values
	newest := history[len(history)-1].Values

	var maxChange float64
	for category, oldDims := range oldest {
		newDims, ok := newest[category]
		if !ok {
			continue
		}
		for dim, oldV := range oldDims {
			newV, ok := newDims[dim]
			if !ok {
				continue
			}
			if change := math.Abs(newV - oldV); change > maxChange {
				maxChange = change
			}
		}
	}
	return maxChange > p.cfg.Learning.DriftThreshold
}

// RecommendSchedule decides whether a values update is due: enough accumulated
// feedback, or enough elapsed days, whichever comes first.
func (p *Processor) RecommendSchedule(feedbackCount, daysSinceUpdate int) Schedule {
	minFeedback := p.cfg.Learning.MinFeedbackForUpdate
	maxDays := p.cfg.Learning.DaysBetweenUpdates

	should := feedbackCount >= minFeedback || daysSinceUpdate >= maxDays
	priority := "normal"
	if should {
		priority = "high"
	}
	return Schedule{
		ShouldUpdate:          should,
		NextUpdateInDays:      maxInt(0, maxDays-daysSinceUpdate),
		FeedbackSignalsNeeded: maxInt(0, minFeedback-feedbackCount),
		UpdatePriority:        priority,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
