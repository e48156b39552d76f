// Package features derives lexical features from content items: topics, tone,
// emotional valence, promotional/clickbait flags and domain reputation.
package features

import (
	"sort"
	"strings"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/model"
)

// Extractor computes a ContentFeatures record from a content item. It is
// stateless; every table it consults comes from the engine config.
type Extractor struct {
	cfg *config.Engine
}

// NewExtractor creates an extractor backed by the given engine config.
func NewExtractor(cfg *config.Engine) *Extractor { return &Extractor{cfg: cfg} }

// Extract is total over any content item: missing titles or metadata fall back
// to neutral defaults, it never fails.
func (e *Extractor) Extract(content *model.ContentItem) model.ContentFeatures {
	f := model.ContentFeatures{
		Topics:           e.topics(content),
		Tone:             e.tone(content.Title),
		EmotionalValence: e.valence(content.Title),
		IsPromotional:    e.isPromotional(content.Title),
		IsClickbait:      e.isClickbait(content.Title),
		DomainReputation: e.cfg.DomainReputation(content.Domain),
	}
	return f
}

// topics merges keyword-detected topics with metadata-declared ones,
// deduplicated and sorted for stable output.
func (e *Extractor) topics(content *model.ContentItem) []string {
	seen := map[string]bool{}
	var out []string

	title := strings.ToLower(content.Title)
	if title != "" {
		names := make([]string, 0, len(e.cfg.TopicKeywords))
		for name := range e.cfg.TopicKeywords {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, kw := range e.cfg.TopicKeywords[name] {
				if strings.Contains(title, kw) {
					if !seen[name] {
						seen[name] = true
						out = append(out, name)
					}
					break
				}
			}
		}
	}

	for _, t := range content.Metadata.Topics {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	sort.Strings(out)
	return out
}

// tone picks at most one tone by priority: sensational, then educational,
// then news; neutral otherwise.
func (e *Extractor) tone(title string) string {
	if title == "" {
		return model.ToneNeutral
	}
	lower := strings.ToLower(title)

	if containsAny(lower, e.cfg.SensationalWords) {
		return model.ToneSensational
	}
	if containsAny(lower, e.cfg.EducationalWords) {
		return model.ToneEducational
	}
	if containsAny(lower, e.cfg.NewsWords) {
		return model.ToneNews
	}
	return model.ToneNeutral
}

// valence is (positive-negative)/(positive+negative) over the word lists,
// clamped to [-1,1]; zero when no sentiment word appears.
func (e *Extractor) valence(title string) float64 {
	if title == "" {
		return 0
	}
	lower := strings.ToLower(title)

	var neg, pos int
	for _, w := range e.cfg.NegativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	for _, w := range e.cfg.PositiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}

	total := neg + pos
	if total == 0 {
		return 0
	}
	v := float64(pos-neg) / float64(total)
	return clamp(v, -1, 1)
}

func (e *Extractor) isPromotional(title string) bool {
	if title == "" {
		return false
	}
	return containsAny(strings.ToLower(title), e.cfg.PromoPhrases)
}

func (e *Extractor) isClickbait(title string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, rx := range e.cfg.ClickbaitRegexps() {
		if rx.MatchString(lower) {
			return true
		}
	}
	// Excessive punctuation is a clickbait tell on its own.
	if strings.Count(title, "!") > e.cfg.MaxExclamations || strings.Count(title, "?") > e.cfg.MaxQuestions {
		return true
	}
	return false
}

// Summary renders a short human-readable description of extracted features.
func (e *Extractor) Summary(f model.ContentFeatures) string {
	var parts []string
	if len(f.Topics) > 0 {
		parts = append(parts, "Topics: "+strings.Join(f.Topics, ", "))
	}
	if f.Tone != "" && f.Tone != model.ToneNeutral {
		parts = append(parts, "Tone: "+f.Tone)
	}
	if f.IsClickbait {
		parts = append(parts, "Potential clickbait")
	}
	if f.IsPromotional {
		parts = append(parts, "Promotional content")
	}
	if len(parts) == 0 {
		return "Generic content"
	}
	return strings.Join(parts, " | ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
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
