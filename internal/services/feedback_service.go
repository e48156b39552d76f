package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/events"
	"github.com/focusgate/focusgate/internal/feedback"
	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/store"
)

// FeedbackService accepts feedback on decisions and feeds it into learning.
type FeedbackService struct {
	store     store.Store
	profiles  *ProfileService
	processor *feedback.Processor
	sink      events.Sink

	learningEnabled bool
}

func NewFeedbackService(s store.Store, profiles *ProfileService, processor *feedback.Processor, sink events.Sink, learningEnabled bool) *FeedbackService {
	return &FeedbackService{
		store:           s,
		profiles:        profiles,
		processor:       processor,
		sink:            sink,
		learningEnabled: learningEnabled,
	}
}

// Submit validates and persists feedback, then applies it to the value
// profile when learning is enabled for the user.
func (s *FeedbackService) Submit(ctx context.Context, userID string, fb model.UserFeedback) (*model.UserFeedback, error) {
	if fb.DecisionID == "" {
		return nil, fmt.Errorf("%w: decisionId is required", model.ErrValidation)
	}
	if fb.Rating != nil && (*fb.Rating < -1 || *fb.Rating > 1) {
		return nil, fmt.Errorf("%w: rating must be -1, 0 or +1", model.ErrValidation)
	}
	if fb.FeedbackType == "" {
		fb.FeedbackType = model.FeedbackExplicitRating
	}

	// Feedback must reference a decision the user actually received.
	if _, err := s.store.Decisions().Get(ctx, userID, fb.DecisionID); err != nil {
		return nil, err
	}

	fb.FeedbackID = uuid.New().String()
	fb.UserID = userID
	fb.Timestamp = time.Now().UTC()
	if err := s.store.Feedback().Create(ctx, &fb); err != nil {
		return nil, err
	}

	s.sink.Emit(model.Event{
		UserID:  userID,
		Code:    events.CodeFeedbackReceived,
		Message: "feedback received",
		Metadata: map[string]interface{}{
			"feedbackId": fb.FeedbackID,
			"decisionId": fb.DecisionID,
		},
	})

	if s.learningEnabled && fb.Rating != nil {
		profile, err := s.profiles.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		if profile.Settings.LearningEnabled && profile.Preferences.EnableExplicitFeedback {
			if _, err := s.profiles.UpdateValues(ctx, userID, fb); err != nil {
				return nil, err
			}
		}
	}
	return &fb, nil
}

// Accuracy estimates decision accuracy from stored feedback.
func (s *FeedbackService) Accuracy(ctx context.Context, userID string) (float64, error) {
	batch, err := s.store.Feedback().ListByUser(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return s.processor.EstimateAccuracy(batch), nil
}

// Aggregate summarizes stored feedback into a direction signal.
func (s *FeedbackService) Aggregate(ctx context.Context, userID string) (*feedback.Aggregate, error) {
	batch, err := s.store.Feedback().ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	agg := s.processor.AggregateSignals(batch)
	return &agg, nil
}

// DriftReport describes whether the user's values have drifted.
type DriftReport struct {
	DriftDetected bool `json:"driftDetected"`
	Snapshots     int  `json:"snapshots"`
}

// Drift checks the stored snapshot history for significant value movement.
func (s *FeedbackService) Drift(ctx context.Context, userID string) (*DriftReport, error) {
	history, err := s.store.Profiles().ListValueSnapshots(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return &DriftReport{
		DriftDetected: s.processor.DetectDrift(history),
		Snapshots:     len(history),
	}, nil
}

// Schedule recommends when the next values update should run, based on
// accumulated feedback and the age of the current value profile.
func (s *FeedbackService) Schedule(ctx context.Context, userID string) (*feedback.Schedule, error) {
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	batch, err := s.store.Feedback().ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	days := int(time.Since(profile.Values.UpdatedAt).Hours() / 24)
	sched := s.processor.RecommendSchedule(len(batch), days)
	return &sched, nil
}
