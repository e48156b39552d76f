package store

import (
	"context"

	"github.com/focusgate/focusgate/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Profiles() Profiles
	Rules() Rules
	Decisions() Decisions
	Feedback() Feedback
	Events() Events

	// HealthPing verifies backend connectivity.
	HealthPing(ctx context.Context) error
	Close() error
}

// Profiles persists user profiles and their value-profile snapshot history.
// Get returns the profile without rules; services attach rules separately.
type Profiles interface {
	Create(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error)
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	Update(ctx context.Context, p *model.UserProfile) error

	AppendValueSnapshot(ctx context.Context, userID string, v model.ValueProfile) error
	// ListValueSnapshots returns snapshots oldest first.
	ListValueSnapshots(ctx context.Context, userID string, limit int) ([]model.ValueProfile, error)
}

// Rules persists user intervention rules.
type Rules interface {
	Create(ctx context.Context, userID string, r *model.InterventionRule) (*model.InterventionRule, error)
	List(ctx context.Context, userID string) ([]model.InterventionRule, error)
	Delete(ctx context.Context, userID, ruleID string) error
}

// Decisions persists intervention decisions.
type Decisions interface {
	Create(ctx context.Context, d *model.InterventionDecision) error
	Get(ctx context.Context, userID, decisionID string) (*model.InterventionDecision, error)
	// List returns decisions newest first.
	List(ctx context.Context, userID string, limit int) ([]*model.InterventionDecision, error)
	CountByAction(ctx context.Context, userID string) (map[model.Action]int, error)
}

// Feedback persists user feedback on decisions.
type Feedback interface {
	Create(ctx context.Context, fb *model.UserFeedback) error
	// ListByUser returns feedback newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]model.UserFeedback, error)
}

// Events persists the structured system event log.
type Events interface {
	Append(ctx context.Context, ev *model.Event) error
	// List returns events newest first, filtered by the query.
	List(ctx context.Context, q model.EventQuery) ([]model.Event, error)
}
