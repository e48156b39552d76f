package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/rules"
	"github.com/focusgate/focusgate/internal/store"
)

// RuleService manages user intervention rules.
type RuleService struct {
	store  store.Store
	engine *rules.Engine
	sink   events.Sink
}

func NewRuleService(s store.Store, engine *rules.Engine, sink events.Sink) *RuleService {
	return &RuleService{store: s, engine: engine, sink: sink}
}

// Create validates and persists a rule, assigning an ID when the caller did
// not provide one.
func (s *RuleService) Create(ctx context.Context, userID string, rule *model.InterventionRule) (*model.InterventionRule, error) {
	if rule.RuleID == "" {
		rule.RuleID = uuid.New().String()
	}
	if err := s.engine.Validate(*rule); err != nil {
		return nil, err
	}
	created, err := s.store.Rules().Create(ctx, userID, rule)
	if err != nil {
		return nil, err
	}
	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeRuleCreated,
		Message: "intervention rule created",
		Metadata: map[string]interface{}{
			"ruleId": created.RuleID,
			"action": string(created.Action),
		},
	})
	return created, nil
}

// List returns the user's rules.
func (s *RuleService) List(ctx context.Context, userID string) ([]model.InterventionRule, error) {
	return s.store.Rules().List(ctx, userID)
}

// Delete removes a rule by ID.
func (s *RuleService) Delete(ctx context.Context, userID, ruleID string) error {
	if err := s.store.Rules().Delete(ctx, userID, ruleID); err != nil {
		return err
	}
	s.sink.Emit(model.Event{
		UserID:   userID,
		Code:     events.CodeRuleDeleted,
		Message:  "intervention rule deleted",
		Metadata: map[string]interface{}{"ruleId": ruleID},
	})
	return nil
}
