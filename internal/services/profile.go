package services

import (
	"context"
	"errors"
	"time"

	"github.com/focusgate/focusgate/internal/config"
	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/store"
	"github.com/focusgate/focusgate/internal/values"
)

// ProfileService handles user profile lifecycle and value profile updates.
type ProfileService struct {
	store     store.Store
	estimator *values.Estimator
	cfg       *config.Engine
	sink      events.Sink
	locks     *userLocks
}

func NewProfileService(s store.Store, est *values.Estimator, cfg *config.Engine, sink events.Sink) *ProfileService {
	return &ProfileService{store: s, estimator: est, cfg: cfg, sink: sink, locks: newUserLocks()}
}

// GetOrCreate loads a profile, creating one with a freshly initialized value
// profile on first contact. Rules are attached from their own table.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*model.UserProfile, error) {
	p, err := s.store.Profiles().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		p, err = s.create(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	rules, err := s.store.Rules().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Rules = rules
	return p, nil
}

func (s *ProfileService) create(ctx context.Context, userID string) (*model.UserProfile, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	// Another request may have created the profile while we waited.
	if existing, err := s.store.Profiles().Get(ctx, userID); err == nil {
		return existing, nil
	}

	p := &model.UserProfile{
		UserID:      userID,
		Values:      s.estimator.Initialize(s.cfg.Hierarchy),
		Preferences: model.DefaultPreferences(),
		Settings:    model.DefaultSettings(),
	}
	created, err := s.store.Profiles().Create(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.store.Profiles().AppendValueSnapshot(ctx, userID, created.Values); err != nil {
		return nil, err
	}
	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeValuesInitialized,
		Message: "value profile initialized from default hierarchy",
	})
	return created, nil
}

// UpdatePreferences replaces the user's preferences.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) (*model.UserProfile, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.store.Profiles().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Preferences = prefs
	if err := s.store.Profiles().Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// InitializeValues resets the value profile from a hierarchy, creating the
// profile on first contact. An empty hierarchy means the configured default.
func (s *ProfileService) InitializeValues(ctx context.Context, userID string, hierarchy model.Hierarchy) (*model.UserProfile, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if len(hierarchy) == 0 {
		hierarchy = s.cfg.Hierarchy
	}

	p, err := s.store.Profiles().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		p = &model.UserProfile{
			UserID:      userID,
			Values:      s.estimator.Initialize(hierarchy),
			Preferences: model.DefaultPreferences(),
			Settings:    model.DefaultSettings(),
		}
		if p, err = s.store.Profiles().Create(ctx, p); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		p.Values = s.estimator.Initialize(hierarchy)
		if err := s.store.Profiles().Update(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := s.store.Profiles().AppendValueSnapshot(ctx, userID, p.Values); err != nil {
		return nil, err
	}
	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeValuesInitialized,
		Message: "value profile reset",
	})
	return p, nil
}

// UpdateValues applies one feedback signal to the value profile and records
// the new snapshot. Feedback without a rating is returned unchanged without a
// snapshot; a neutral rating keeps importances but still bumps confidence, so
// it persists like any other update.
func (s *ProfileService) UpdateValues(ctx context.Context, userID string, fb model.UserFeedback) (*model.UserProfile, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.store.Profiles().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := s.estimator.UpdateFromFeedback(p.Values, fb)
	if next.UpdatedAt.Equal(p.Values.UpdatedAt) {
		return p, nil
	}

	p.Values = next
	if err := s.store.Profiles().Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.store.Profiles().AppendValueSnapshot(ctx, userID, p.Values); err != nil {
		return nil, err
	}
	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeValuesUpdated,
		Message: "value profile updated from feedback",
		Metadata: map[string]interface{}{
			"confidence": next.Confidence,
		},
	})
	return p, nil
}

// ConfidenceIntervals returns per-dimension intervals for the current profile.
func (s *ProfileService) ConfidenceIntervals(ctx context.Context, userID string) (map[string]map[string]values.Interval, error) {
	p, err := s.store.Profiles().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.estimator.ConfidenceIntervals(p.Values), nil
}

// ListValueHistory returns the stored snapshots, oldest first.
func (s *ProfileService) ListValueHistory(ctx context.Context, userID string, limit int) ([]model.ValueProfile, error) {
	return s.store.Profiles().ListValueSnapshots(ctx, userID, limit)
}

// touchCounters bumps processed/decision counters under the user lock.
func (s *ProfileService) touchCounters(ctx context.Context, userID string, contentDelta, decisionDelta int) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	p, err := s.store.Profiles().Get(ctx, userID)
	if err != nil {
		return err
	}
	p.TotalContentProcessed += contentDelta
	p.TotalDecisionsMade += decisionDelta
	p.UpdateTime = time.Now().UTC()
	return s.store.Profiles().Update(ctx, p)
}
