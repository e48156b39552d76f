package model

import "time"

// ContentType classifies the origin of a content item.
type ContentType string

const (
	ContentTypeArticle      ContentType = "article"
	ContentTypeVideo        ContentType = "video"
	ContentTypeSocialPost   ContentType = "social_post"
	ContentTypeMessage      ContentType = "message"
	ContentTypeNotification ContentType = "notification"
	ContentTypeEmail        ContentType = "email"
	ContentTypeWebsite      ContentType = "website"
	ContentTypeUnknown      ContentType = "unknown"
)

// Valid reports whether t is one of the recognized content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeVideo, ContentTypeSocialPost, ContentTypeMessage,
		ContentTypeNotification, ContentTypeEmail, ContentTypeWebsite, ContentTypeUnknown:
		return true
	}
	return false
}

// Action is the system's verdict on content delivery.
type Action string

const (
	ActionBlock           Action = "BLOCK"
	ActionAllow           Action = "ALLOW"
	ActionAllowPrioritize Action = "ALLOW_PRIORITIZE"
	ActionAllowMute       Action = "ALLOW_MUTE"
	ActionAllowWarning    Action = "ALLOW_WARNING"
	ActionDefer           Action = "DEFER"
)

// Valid reports whether a is a recognized intervention action.
func (a Action) Valid() bool {
	switch a {
	case ActionBlock, ActionAllow, ActionAllowPrioritize, ActionAllowMute, ActionAllowWarning, ActionDefer:
		return true
	}
	return false
}

// FeedbackType distinguishes how a feedback signal was produced.
type FeedbackType string

const (
	FeedbackExplicitRating FeedbackType = "explicit_rating"
	FeedbackEngagement     FeedbackType = "engagement"
	FeedbackSystem         FeedbackType = "system"
	FeedbackComparative    FeedbackType = "comparative"
)

// Tone labels produced by feature extraction.
const (
	ToneSensational = "sensational"
	ToneEducational = "educational"
	ToneNews        = "news"
	ToneNeutral     = "neutral"
)

// ContentMetadata carries optional descriptive fields attached to a content
// item. Extra is a forward-compatible side channel for fields outside the
// bounded schema.
type ContentMetadata struct {
	Author       *string                `json:"author,omitempty"`
	Timestamp    *time.Time             `json:"timestamp,omitempty"`
	ReadTimeSecs *int                   `json:"estimatedReadTimeSeconds,omitempty"`
	Topics       []string               `json:"topics,omitempty"`
	Keywords     []string               `json:"keywords,omitempty"`
	Language     string                 `json:"language,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// ContentFeatures is the lexical feature record derived from a content item.
// Extraction is idempotent: identical input yields identical output.
type ContentFeatures struct {
	Topics           []string `json:"topics"`
	Tone             string   `json:"tone"`
	EmotionalValence float64  `json:"emotionalValence"`
	IsPromotional    bool     `json:"isPromotional"`
	IsClickbait      bool     `json:"isClickbait"`
	DomainReputation float64  `json:"domainReputation"`
}

// ContentItem is a piece of incoming content to be evaluated. Immutable after
// creation except for the cached Features record, which is attached at most
// once.
type ContentItem struct {
	ContentID    string           `json:"contentId"`
	Source       string           `json:"source"`
	Title        string           `json:"title"`
	ContentType  ContentType      `json:"contentType"`
	Domain       string           `json:"domain"`
	Metadata     ContentMetadata  `json:"metadata"`
	Features     *ContentFeatures `json:"extractedFeatures,omitempty"`
	CreationTime time.Time        `json:"creationTime"`
}

// Hierarchy declares value dimensions grouped by category,
// e.g. {"productivity": ["focus", "learning"]}.
type Hierarchy map[string][]string

// ValueProfile is a snapshot of a user's learned values: category -> dimension
// -> importance in [0,1], plus a confidence in the whole estimate. Snapshots
// are immutable; updates produce a new snapshot.
type ValueProfile struct {
	Values     map[string]map[string]float64 `json:"values"`
	Confidence float64                       `json:"confidence"`
	UpdatedAt  time.Time                     `json:"updatedAt"`
}

// Clone returns a deep copy so callers can derive a new snapshot without
// mutating the source.
func (p ValueProfile) Clone() ValueProfile {
	out := ValueProfile{
		Values:     make(map[string]map[string]float64, len(p.Values)),
		Confidence: p.Confidence,
		UpdatedAt:  p.UpdatedAt,
	}
	for cat, dims := range p.Values {
		cp := make(map[string]float64, len(dims))
		for dim, v := range dims {
			cp[dim] = v
		}
		out.Values[cat] = cp
	}
	return out
}

// Dimension looks up the importance of category/dim.
func (p ValueProfile) Dimension(category, dim string) (float64, bool) {
	dims, ok := p.Values[category]
	if !ok {
		return 0, false
	}
	v, ok := dims[dim]
	return v, ok
}

// Preferences holds per-user system preferences.
type Preferences struct {
	EnableExplicitFeedback bool   `json:"enableExplicitFeedback"`
	EnableImplicitFeedback bool   `json:"enableImplicitFeedback"`
	AllowValueInference    bool   `json:"allowValueInference"`
	NotificationLevel      string `json:"notificationLevel"`
}

// DefaultPreferences returns the preferences assigned to new users.
func DefaultPreferences() Preferences {
	return Preferences{
		EnableExplicitFeedback: true,
		EnableImplicitFeedback: true,
		AllowValueInference:    true,
		NotificationLevel:      "normal",
	}
}

// Settings holds per-user system settings.
type Settings struct {
	LearningEnabled     bool `json:"learningEnabled"`
	InterventionEnabled bool `json:"interventionEnabled"`
	DataRetentionDays   int  `json:"dataRetentionDays"`
}

// DefaultSettings returns the settings assigned to new users.
func DefaultSettings() Settings {
	return Settings{LearningEnabled: true, InterventionEnabled: true, DataRetentionDays: 365}
}

// InterventionRule is a user-authored override: a match predicate plus an
// action and priority. Extra is a side channel for extension fields.
type InterventionRule struct {
	RuleID          string                 `json:"ruleId"`
	Domain          *string                `json:"domain,omitempty"`
	ContentType     *ContentType           `json:"contentType,omitempty"`
	KeywordIncludes []string               `json:"keywordIncludes,omitempty"`
	KeywordExcludes []string               `json:"keywordExcludes,omitempty"`
	Action          Action                 `json:"action"`
	Reason          string                 `json:"reason"`
	Priority        int                    `json:"priority"`
	IsActive        bool                   `json:"isActive"`
	CreationTime    time.Time              `json:"creationTime"`
	UpdateTime      time.Time              `json:"updateTime"`
	Extra           map[string]interface{} `json:"extra,omitempty"`
}

// UserProfile is the fully resolved per-user state the pipeline operates on.
type UserProfile struct {
	UserID                string             `json:"userId"`
	Values                ValueProfile       `json:"values"`
	Rules                 []InterventionRule `json:"rules"`
	Preferences           Preferences        `json:"preferences"`
	Settings              Settings           `json:"settings"`
	TotalContentProcessed int                `json:"totalContentProcessed"`
	TotalDecisionsMade    int                `json:"totalDecisionsMade"`
	CreationTime          time.Time          `json:"creationTime"`
	UpdateTime            time.Time          `json:"updateTime"`
}

// ScoringResult is the scorer's verdict on one content item.
type ScoringResult struct {
	ContentID          string             `json:"contentId"`
	UserID             string             `json:"userId"`
	AlignmentScore     float64            `json:"alignmentScore"`
	ProductivityImpact float64            `json:"productivityImpact"`
	WellbeingImpact    float64            `json:"wellbeingImpact"`
	Confidence         float64            `json:"confidence"`
	ScoresByValue      map[string]float64 `json:"scoresByValue"`
	Reasoning          string             `json:"reasoning"`
	RecommendedAction  Action             `json:"recommendedAction"`
	Timestamp          time.Time          `json:"timestamp"`
}

// AppliedRule records a rule that influenced a decision.
type AppliedRule struct {
	RuleID string  `json:"ruleId"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"`
	Action Action  `json:"action"`
}

// InterventionDecision is the final verdict for one evaluation. Immutable once
// created; feedback is appended later, never merged in.
type InterventionDecision struct {
	DecisionID   string        `json:"decisionId"`
	ContentID    string        `json:"contentId"`
	UserID       string        `json:"userId"`
	Decision     Action        `json:"decision"`
	Scores       ScoringResult `json:"scores"`
	AppliedRules []AppliedRule `json:"appliedRules,omitempty"`
	Reasoning    string        `json:"reasoning"`
	Timestamp    time.Time     `json:"timestamp"`
	Feedback     *UserFeedback `json:"userFeedback,omitempty"`
}

// UserFeedback is one user reaction to a decision. Rating is +1 (decision was
// too strict), 0 (neutral) or -1 (too lenient) when present.
type UserFeedback struct {
	FeedbackID       string       `json:"feedbackId"`
	DecisionID       string       `json:"decisionId"`
	UserID           string       `json:"userId"`
	FeedbackType     FeedbackType `json:"feedbackType"`
	ActionTaken      *string      `json:"actionTaken,omitempty"`
	Rating           *int         `json:"rating,omitempty"`
	Comment          *string      `json:"comment,omitempty"`
	TimeSpentSeconds *float64     `json:"timeSpentSeconds,omitempty"`
	InteractionCount *int         `json:"interactionCount,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
}

// EventLevel is the severity of a recorded event.
type EventLevel string

const (
	EventDebug   EventLevel = "DEBUG"
	EventInfo    EventLevel = "INFO"
	EventWarning EventLevel = "WARNING"
	EventError   EventLevel = "ERROR"
)

// Event is a structured record of something the system did (decision made,
// values updated, rule created).
type Event struct {
	EventID   string                 `json:"eventId"`
	UserID    string                 `json:"userId,omitempty"`
	Level     EventLevel             `json:"level"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventQuery captures filters used when listing events.
type EventQuery struct {
	UserID string
	Level  EventLevel
	Limit  int
}

// EngagementEvent summarizes one observed interaction with content; input to
// engagement-based value estimation and behavioral pattern analysis.
type EngagementEvent struct {
	ContentType     ContentType `json:"contentType"`
	Domain          string      `json:"domain"`
	Topics          []string    `json:"topics,omitempty"`
	TimeSpent       float64     `json:"timeSpentSeconds"`
	EngagementScore float64     `json:"engagementScore"`
	Clicked         bool        `json:"clicked"`
	Timestamp       time.Time   `json:"timestamp"`
}
