// Package rules evaluates user-authored intervention rules against content.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/focusgate/focusgate/internal/model"
)

// Engine matches content against an ordered set of intervention rules.
// Stateless; rules are supplied per call.
type Engine struct{}

// NewEngine creates a rules engine.
func NewEngine() *Engine { return &Engine{} }

// Evaluate returns the winning rule among all active matches, or nil when
// nothing matches and the caller should fall through to score-based decisions.
// The winner is the highest-priority match; equal priorities are broken by
// lexicographically smallest rule ID so resolution is reproducible.
func (e *Engine) Evaluate(content *model.ContentItem, rules []model.InterventionRule) *model.InterventionRule {
	matches := e.Matching(content, rules)
	if len(matches) == 0 {
		return nil
	}
	winner := matches[0]
	return &winner
}

// Matching returns every active rule that matches content, sorted by priority
// descending then rule ID ascending.
func (e *Engine) Matching(content *model.ContentItem, rules []model.InterventionRule) []model.InterventionRule {
	var matches []model.InterventionRule
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if e.matches(r, content) {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		return matches[i].RuleID < matches[j].RuleID
	})
	return matches
}

// matches requires every set predicate to pass: domain substring, exact
// content type, at least one included keyword, no excluded keyword.
func (e *Engine) matches(rule model.InterventionRule, content *model.ContentItem) bool {
	if rule.Domain != nil && *rule.Domain != "" {
		if !strings.Contains(strings.ToLower(content.Domain), strings.ToLower(*rule.Domain)) {
			return false
		}
	}

	if rule.ContentType != nil && *rule.ContentType != content.ContentType {
		return false
	}

	titleLower := strings.ToLower(content.Title)

	if len(rule.KeywordIncludes) > 0 {
		any := false
		for _, kw := range rule.KeywordIncludes {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}

	for _, kw := range rule.KeywordExcludes {
		if strings.Contains(titleLower, strings.ToLower(kw)) {
			return false
		}
	}

	return true
}

// Validate rejects malformed rules before they are accepted into a profile.
func (e *Engine) Validate(rule model.InterventionRule) error {
	if rule.RuleID == "" {
		return fmt.Errorf("%w: ruleId is required", model.ErrValidation)
	}
	if !rule.Action.Valid() {
		return fmt.Errorf("%w: invalid action: %s", model.ErrValidation, rule.Action)
	}
	if rule.Reason == "" {
		return fmt.Errorf("%w: reason is required", model.ErrValidation)
	}
	if rule.Priority < 0 || rule.Priority > 100 {
		return fmt.Errorf("%w: priority must be 0-100", model.ErrValidation)
	}
	if rule.ContentType != nil && !rule.ContentType.Valid() {
		return fmt.Errorf("%w: invalid contentType: %s", model.ErrValidation, *rule.ContentType)
	}
	return nil
}
