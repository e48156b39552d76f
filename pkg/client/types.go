package client

import "github.com/focusgate/focusgate/internal/model"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Content submitted for evaluation
	ContentItem     = model.ContentItem
	ContentMetadata = model.ContentMetadata
	ContentFeatures = model.ContentFeatures
	ContentType     = model.ContentType

	// Profile and learning state
	UserProfile  = model.UserProfile
	ValueProfile = model.ValueProfile
	Hierarchy    = model.Hierarchy
	Preferences  = model.Preferences
	Settings     = model.Settings

	// Decisions and feedback
	InterventionDecision = model.InterventionDecision
	ScoringResult        = model.ScoringResult
	AppliedRule          = model.AppliedRule
	InterventionRule     = model.InterventionRule
	UserFeedback         = model.UserFeedback
	FeedbackType         = model.FeedbackType
	Action               = model.Action

	// System events
	Event      = model.Event
	EventLevel = model.EventLevel
)

// Content types accepted by the evaluate endpoint.
const (
	ContentTypeArticle      = model.ContentTypeArticle
	ContentTypeVideo        = model.ContentTypeVideo
	ContentTypeSocialPost   = model.ContentTypeSocialPost
	ContentTypeMessage      = model.ContentTypeMessage
	ContentTypeNotification = model.ContentTypeNotification
	ContentTypeEmail        = model.ContentTypeEmail
	ContentTypeWebsite      = model.ContentTypeWebsite
	ContentTypeUnknown      = model.ContentTypeUnknown
)

// Actions a decision or rule can carry.
const (
	ActionBlock           = model.ActionBlock
	ActionAllow           = model.ActionAllow
	ActionAllowPrioritize = model.ActionAllowPrioritize
	ActionAllowMute       = model.ActionAllowMute
	ActionAllowWarning    = model.ActionAllowWarning
	ActionDefer           = model.ActionDefer
)

// Feedback signal origins.
const (
	FeedbackExplicitRating = model.FeedbackExplicitRating
	FeedbackEngagement     = model.FeedbackEngagement
	FeedbackSystem         = model.FeedbackSystem
	FeedbackComparative    = model.FeedbackComparative
)
