package values

import (
	"sort"
	"strings"
	"time"

	"github.com/focusgate/focusgate/internal/model"
)

// BehavioralAnalyzer derives behavioral patterns from engagement history.
// Stateless; every method is a pure function of its inputs and the clock.
type BehavioralAnalyzer struct{}

// NewBehavioralAnalyzer creates an analyzer.
func NewBehavioralAnalyzer() *BehavioralAnalyzer { return &BehavioralAnalyzer{} }

// TimeOfDayPatterns returns the average engagement score per hour (0-23).
// Hours with no observations report the neutral 0.5.
func (a *BehavioralAnalyzer) TimeOfDayPatterns(history []model.EngagementEvent) map[int]float64 {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, ev := range history {
		h := ev.Timestamp.Hour()
		sums[h] += ev.EngagementScore
		counts[h]++
	}
	out := make(map[int]float64, 24)
	for h := 0; h < 24; h++ {
		if counts[h] > 0 {
			out[h] = sums[h] / float64(counts[h])
		} else {
			out[h] = 0.5
		}
	}
	return out
}

// ContentTypePreferences returns the average engagement score per content type.
func (a *BehavioralAnalyzer) ContentTypePreferences(history []model.EngagementEvent) map[model.ContentType]float64 {
	sums := map[model.ContentType]float64{}
	counts := map[model.ContentType]int{}
	for _, ev := range history {
		sums[ev.ContentType] += ev.EngagementScore
		counts[ev.ContentType]++
	}
	out := make(map[model.ContentType]float64, len(sums))
	for t, sum := range sums {
		out[t] = sum / float64(counts[t])
	}
	return out
}

// DomainPreferences returns the average engagement score per domain, skipping
// domains with fewer than two observations.
func (a *BehavioralAnalyzer) DomainPreferences(history []model.EngagementEvent) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, ev := range history {
		sums[ev.Domain] += ev.EngagementScore
		counts[ev.Domain]++
	}
	out := map[string]float64{}
	for d, sum := range sums {
		if counts[d] >= 2 {
			out[d] = sum / float64(counts[d])
		}
	}
	return out
}

// AttentionFragmentation scores how thinly attention is spread across recent
// items. Average dwell above 30 seconds per item reads as unfragmented.
func (a *BehavioralAnalyzer) AttentionFragmentation(history []model.EngagementEvent, window time.Duration) float64 {
	if len(history) == 0 {
		return 0
	}
	cutoff := time.Now().UTC().Add(-window)

	var total float64
	var n int
	for _, ev := range history {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		total += ev.TimeSpent
		n++
	}
	if n == 0 {
		return 0
	}
	avg := total / float64(n)
	return clamp((30.0-avg)/30.0, 0, 1)
}

// DistractionTrigger is a domain that repeatedly pulls the user off-goal.
type DistractionTrigger struct {
	Domain          string  `json:"domain"`
	TriggerStrength float64 `json:"triggerStrength"`
	AvgTimeWasted   float64 `json:"avgTimeWastedSeconds"`
}

// DistractionTriggers finds domains where the user repeatedly spent more than
// two minutes on content unrelated to the goal topics. A domain must occur at
// least twice to count; strength saturates at ten occurrences.
func (a *BehavioralAnalyzer) DistractionTriggers(history []model.EngagementEvent, goalTopics []string) []DistractionTrigger {
	goals := make(map[string]bool, len(goalTopics))
	for _, t := range goalTopics {
		goals[strings.ToLower(t)] = true
	}

	type stats struct {
		count     int
		totalTime float64
	}
	byDomain := map[string]*stats{}

	for _, ev := range history {
		goalRelated := false
		for _, t := range ev.Topics {
			if goals[strings.ToLower(t)] {
				goalRelated = true
				break
			}
		}
		if goalRelated || ev.TimeSpent <= 120 {
			continue
		}
		s := byDomain[ev.Domain]
		if s == nil {
			s = &stats{}
			byDomain[ev.Domain] = s
		}
		s.count++
		s.totalTime += ev.TimeSpent
	}

	var out []DistractionTrigger
	for domain, s := range byDomain {
		if s.count < 2 {
			continue
		}
		out = append(out, DistractionTrigger{
			Domain:          domain,
			TriggerStrength: clamp(float64(s.count)/10, 0, 1),
			AvgTimeWasted:   s.totalTime / float64(s.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TriggerStrength != out[j].TriggerStrength {
			return out[i].TriggerStrength > out[j].TriggerStrength
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

// UserState is a coarse estimate of the user's current attentional state.
type UserState struct {
	FocusLevel       float64 `json:"focusLevel"`
	EnergyLevel      float64 `json:"energyLevel"`
	StressLevel      float64 `json:"stressLevel"`
	DistractionLevel float64 `json:"distractionLevel"`
}

// EstimateUserState reads focus from average dwell (normalized to five
// minutes) and distraction from click frequency (normalized to three per
// minute). Energy and stress are not estimable from these signals and stay
// neutral.
func (a *BehavioralAnalyzer) EstimateUserState(recent []model.EngagementEvent, window time.Duration) UserState {
	if len(recent) == 0 {
		return UserState{FocusLevel: 0.5, EnergyLevel: 0.5, StressLevel: 0.5, DistractionLevel: 0.5}
	}

	var total float64
	for _, ev := range recent {
		total += ev.TimeSpent
	}
	avgDwell := total / float64(len(recent))
	clicksPerMinute := float64(len(recent)) / window.Minutes()

	return UserState{
		FocusLevel:       clamp(avgDwell/300, 0, 1),
		EnergyLevel:      0.5,
		StressLevel:      0.5,
		DistractionLevel: clamp(clicksPerMinute/3, 0, 1),
	}
}
