package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/decision"
	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/scoring"
	"github.com/focusgate/focusgate/internal/store"
)

// EvaluationService runs the content evaluation pipeline and records its
// decisions.
type EvaluationService struct {
	store    store.Store
	profiles *ProfileService
	scorer   *scoring.Scorer
	decider  *decision.Engine
	sink     events.Sink

	interventionEnabled bool
}

func NewEvaluationService(s store.Store, profiles *ProfileService, scorer *scoring.Scorer, decider *decision.Engine, sink events.Sink, interventionEnabled bool) *EvaluationService {
	return &EvaluationService{
		store:               s,
		profiles:            profiles,
		scorer:              scorer,
		decider:             decider,
		sink:                sink,
		interventionEnabled: interventionEnabled,
	}
}

// Evaluate scores content for the user and produces a persisted decision.
// When intervention is disabled, either globally or per user, the content is
// allowed but the scoring record is still produced.
func (s *EvaluationService) Evaluate(ctx context.Context, userID string, content *model.ContentItem) (*model.InterventionDecision, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if content.ContentID == "" {
		content.ContentID = uuid.New().String()
	}
	if content.CreationTime.IsZero() {
		content.CreationTime = time.Now().UTC()
	}

	scores := s.scorer.Score(content, profile)
	d := s.decider.Decide(content, profile, scores)

	if !s.interventionEnabled || !profile.Settings.InterventionEnabled {
		d.Decision = model.ActionAllow
		d.Reasoning = "Intervention is disabled; content allowed"
	}

	if err := s.store.Decisions().Create(ctx, &d); err != nil {
		return nil, err
	}
	if err := s.profiles.touchCounters(ctx, userID, 1, 1); err != nil {
		return nil, err
	}

	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeDecisionMade,
		Message: "content evaluated",
		Metadata: map[string]interface{}{
			"decisionId": d.DecisionID,
			"contentId":  d.ContentID,
			"action":     string(d.Decision),
		},
	})
	return &d, nil
}

// Explain returns the display breakdown for a stored decision.
func (s *EvaluationService) Explain(ctx context.Context, userID, decisionID string) (*decision.Explanation, error) {
	d, err := s.store.Decisions().Get(ctx, userID, decisionID)
	if err != nil {
		return nil, err
	}
	exp := s.decider.Explain(*d)
	return &exp, nil
}

// DecisionStats summarizes stored decisions for one user.
type DecisionStats struct {
	Total    int                  `json:"total"`
	ByAction map[model.Action]int `json:"byAction"`
}

// Stats counts decisions grouped by action.
func (s *EvaluationService) Stats(ctx context.Context, userID string) (*DecisionStats, error) {
	counts, err := s.store.Decisions().CountByAction(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return &DecisionStats{Total: total, ByAction: counts}, nil
}

// RecentDecisions lists stored decisions newest first.
func (s *EvaluationService) RecentDecisions(ctx context.Context, userID string, limit int) ([]*model.InterventionDecision, error) {
	return s.store.Decisions().List(ctx, userID, limit)
}
