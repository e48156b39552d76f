package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/focusgate/focusgate/internal/model"
)

// Engine bundles every table and threshold the scoring pipeline consumes:
// topic keywords, tone and sentiment word lists, clickbait heuristics, domain
// reputation sets, scoring weights and the default value hierarchy. The
// pipeline components receive an *Engine at construction so tests can
// substitute fixtures.
type Engine struct {
	TopicKeywords map[string][]string `yaml:"topicKeywords"`

	SensationalWords []string `yaml:"sensationalWords"`
	EducationalWords []string `yaml:"educationalWords"`
	NewsWords        []string `yaml:"newsWords"`

	NegativeWords []string `yaml:"negativeWords"`
	PositiveWords []string `yaml:"positiveWords"`

	PromoPhrases      []string `yaml:"promoPhrases"`
	ClickbaitPatterns []string `yaml:"clickbaitPatterns"`
	MaxExclamations   int      `yaml:"maxExclamations"`
	MaxQuestions      int      `yaml:"maxQuestions"`

	LearningDomains    []string `yaml:"learningDomains"`
	DistractionDomains []string `yaml:"distractionDomains"`
	SocialDomains      []string `yaml:"socialDomains"`

	LearningReputation    float64 `yaml:"learningReputation"`
	DistractionReputation float64 `yaml:"distractionReputation"`
	NeutralReputation     float64 `yaml:"neutralReputation"`

	Scoring  ScoringWeights  `yaml:"scoring"`
	Learning LearningWeights `yaml:"learning"`

	Hierarchy model.Hierarchy `yaml:"valueHierarchy"`

	clickbaitRx        []*regexp.Regexp
	learningDomainSet  map[string]bool
	distractionDomains map[string]bool
	socialDomainSet    map[string]bool
}

// ScoringWeights holds the numeric constants behind per-dimension alignment,
// impact estimation and the recommended-action table.
type ScoringWeights struct {
	LearningAligned   float64 `yaml:"learningAligned"`
	LearningDefault   float64 `yaml:"learningDefault"`
	FocusDistracted   float64 `yaml:"focusDistracted"`
	FocusDefault      float64 `yaml:"focusDefault"`
	SleepStressful    float64 `yaml:"sleepStressful"`
	SleepDefault      float64 `yaml:"sleepDefault"`
	OutputHighQuality float64 `yaml:"outputHighQuality"`
	OutputDefault     float64 `yaml:"outputDefault"`

	StressfulValence float64 `yaml:"stressfulValence"`

	LearningDomainImpact    float64 `yaml:"learningDomainImpact"`
	DistractionDomainImpact float64 `yaml:"distractionDomainImpact"`
	ClickbaitImpact         float64 `yaml:"clickbaitImpact"`
	PromoImpact             float64 `yaml:"promoImpact"`

	ValenceWeight float64 `yaml:"valenceWeight"`
	StressImpact  float64 `yaml:"stressImpact"`
	SocialImpact  float64 `yaml:"socialImpact"`

	BaseConfidence     float64 `yaml:"baseConfidence"`
	MetadataConfidence float64 `yaml:"metadataConfidence"`
	ToneConfidence     float64 `yaml:"toneConfidence"`

	PrioritizeAbove     float64 `yaml:"prioritizeAbove"`
	AllowAbove          float64 `yaml:"allowAbove"`
	MuteAbove           float64 `yaml:"muteAbove"`
	PrioritizeWellbeing float64 `yaml:"prioritizeWellbeing"`
	WarnBelow           float64 `yaml:"warnBelow"`

	// SafetyFloor: BLOCK is downgraded when wellbeing impact exceeds it.
	SafetyFloor float64 `yaml:"safetyFloor"`
}

// LearningWeights holds the constants behind feedback-driven profile updates
// and feedback signal processing.
type LearningWeights struct {
	Soften         float64 `yaml:"soften"`
	Tighten        float64 `yaml:"tighten"`
	ConfidenceStep float64 `yaml:"confidenceStep"`
	ConfidenceCap  float64 `yaml:"confidenceCap"`

	EngagementArticleRatio float64 `yaml:"engagementArticleRatio"`
	EngagementLearning     float64 `yaml:"engagementLearning"`
	EngagementSampleScale  float64 `yaml:"engagementSampleScale"`
	EngagementCap          float64 `yaml:"engagementCap"`

	IntervalWidth float64 `yaml:"intervalWidth"`

	DriftThreshold float64 `yaml:"driftThreshold"`

	MinFeedbackForUpdate int `yaml:"minFeedbackForUpdate"`
	DaysBetweenUpdates   int `yaml:"daysBetweenUpdates"`
}

// DefaultEngine returns the built-in tables. Every value is overridable via a
// YAML file referenced by FOCUSGATE_ENGINE_CONFIG_PATH.
func DefaultEngine() *Engine {
	e := &Engine{
		TopicKeywords: map[string][]string{
			"technology":    {"ai", "ml", "python", "javascript", "code", "tech", "app", "software"},
			"business":      {"startup", "business", "market", "sales", "ceo", "founder"},
			"health":        {"health", "medical", "nutrition", "exercise", "wellness"},
			"science":       {"research", "study", "experiment", "science", "physics"},
			"productivity":  {"productivity", "efficiency", "focus", "habit", "time"},
			"finance":       {"money", "stocks", "crypto", "investing", "financial"},
			"entertainment": {"movie", "music", "game", "comedy", "funny"},
		},
		SensationalWords: []string{"shocking", "incredible", "unbelievable", "amazing", "worst", "best"},
		EducationalWords: []string{"guide", "tutorial", "how to", "learn", "course", "explained"},
		NewsWords:        []string{"breaking", "news", "announced", "released", "report"},
		NegativeWords: []string{
			"crisis", "death", "destroyed", "failed", "worst", "tragic",
			"disaster", "attack", "lawsuit", "fraud", "scandal",
		},
		PositiveWords: []string{
			"amazing", "incredible", "success", "breakthrough", "love",
			"happy", "joy", "beautiful", "wonderful",
		},
		PromoPhrases: []string{
			"click here", "sign up", "limited offer", "buy now",
			"sponsored", "advertisement", "get yours", "exclusive offer",
		},
		ClickbaitPatterns: []string{
			`doctors hate`,
			`you won't believe`,
			`this one weird trick`,
			`number \d+ will shock you`,
			`what happened next`,
		},
		MaxExclamations: 3,
		MaxQuestions:    2,
		LearningDomains: []string{
			"arxiv.org", "medium.com", "substack.com", "coursera.org",
			"edx.org", "github.com", "stackoverflow.com",
		},
		DistractionDomains: []string{
			"twitter.com", "x.com", "tiktok.com", "reddit.com",
			"youtube.com", "instagram.com", "facebook.com", "twitch.tv",
		},
		SocialDomains:         []string{"twitter.com", "facebook.com", "instagram.com"},
		LearningReputation:    0.95,
		DistractionReputation: 0.3,
		NeutralReputation:     0.5,
		Scoring: ScoringWeights{
			LearningAligned:         0.8,
			LearningDefault:         0.3,
			FocusDistracted:         0.2,
			FocusDefault:            0.8,
			SleepStressful:          0.2,
			SleepDefault:            0.7,
			OutputHighQuality:       0.9,
			OutputDefault:           0.4,
			StressfulValence:        -0.3,
			LearningDomainImpact:    0.6,
			DistractionDomainImpact: -0.5,
			ClickbaitImpact:         -0.3,
			PromoImpact:             -0.2,
			ValenceWeight:           0.5,
			StressImpact:            -0.3,
			SocialImpact:            -0.1,
			BaseConfidence:          0.5,
			MetadataConfidence:      0.1,
			ToneConfidence:          0.05,
			PrioritizeAbove:         0.8,
			AllowAbove:              0.5,
			MuteAbove:               0.3,
			PrioritizeWellbeing:     -0.2,
			WarnBelow:               -0.3,
			SafetyFloor:             -0.1,
		},
		Learning: LearningWeights{
			Soften:                 0.95,
			Tighten:                1.05,
			ConfidenceStep:         0.01,
			ConfidenceCap:          0.95,
			EngagementArticleRatio: 0.6,
			EngagementLearning:     0.8,
			EngagementSampleScale:  100,
			EngagementCap:          0.7,
			IntervalWidth:          0.3,
			DriftThreshold:         0.15,
			MinFeedbackForUpdate:   10,
			DaysBetweenUpdates:     7,
		},
		Hierarchy: model.Hierarchy{
			"productivity":    {"focus", "learning", "output_quality", "efficiency"},
			"wellbeing":       {"sleep_quality", "stress_management", "mood", "physical_health"},
			"relationships":   {"family_time", "friend_connection", "community"},
			"personal_growth": {"creativity", "skill_development", "self_reflection"},
		},
	}
	if err := e.compile(); err != nil {
		// Built-in patterns are static; a compile failure is a programming error.
		panic(err)
	}
	return e
}

// LoadEngine reads a YAML override file on top of the defaults. An empty path
// returns the defaults unchanged.
func LoadEngine(path string) (*Engine, error) {
	e := DefaultEngine()
	if path == "" {
		return e, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}
	if err := yaml.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}
	if err := e.compile(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) compile() error {
	e.clickbaitRx = e.clickbaitRx[:0]
	for _, p := range e.ClickbaitPatterns {
		rx, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("clickbait pattern %q: %w", p, err)
		}
		e.clickbaitRx = append(e.clickbaitRx, rx)
	}
	e.learningDomainSet = toSet(e.LearningDomains)
	e.distractionDomains = toSet(e.DistractionDomains)
	e.socialDomainSet = toSet(e.SocialDomains)
	return nil
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

// ClickbaitRegexps returns the compiled clickbait patterns.
func (e *Engine) ClickbaitRegexps() []*regexp.Regexp { return e.clickbaitRx }

// IsLearningDomain reports whether domain is in the high-value set.
func (e *Engine) IsLearningDomain(domain string) bool { return e.learningDomainSet[domain] }

// IsDistractionDomain reports whether domain is in the low-value set.
func (e *Engine) IsDistractionDomain(domain string) bool { return e.distractionDomains[domain] }

// IsSocialDomain reports whether domain is a social network.
func (e *Engine) IsSocialDomain(domain string) bool { return e.socialDomainSet[domain] }

// DomainReputation returns the three-tier reputation score for domain.
func (e *Engine) DomainReputation(domain string) float64 {
	if e.learningDomainSet[domain] {
		return e.LearningReputation
	}
	if e.distractionDomains[domain] {
		return e.DistractionReputation
	}
	return e.NeutralReputation
}
