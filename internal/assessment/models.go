// internal/assessment/models.go

package assessment

import (
	"time"
)

// Category identifies which section of the questionnaire a question belongs to.
type Category string

const (
	CategoryBigFive     Category = "BIG_FIVE"
	CategoryAttachment  Category = "ATTACHMENT"
	CategoryDealbreaker Category = "DEALBREAKER"
	CategoryValues      Category = "VALUES"
	CategoryLifestyle   Category = "LIFESTYLE"
	CategoryRedFlag     Category = "RED_FLAG"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBigFive,
	CategoryAttachment,
	CategoryDealbreaker,
	CategoryValues,
	CategoryLifestyle,
	CategoryRedFlag,
}

// ResponseScale describes how a question is answered.
type ResponseScale string

const (
	ScaleLikert5    ResponseScale = "LIKERT_5"
	ScaleAgreement5 ResponseScale = "AGREEMENT_5"
	ScaleBinary     ResponseScale = "BINARY"
	ScaleFrequency5 ResponseScale = "FREQUENCY_5"
	ScaleFreeText   ResponseScale = "FREE_TEXT"
)

// Severity grades dealbreaker questions. Only CRITICAL questions can
// trigger the mandatory-conflict cap on the match percentage.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityModerate Severity = "MODERATE"
	SeverityLow      Severity = "LOW"
)

// AttachmentStyle is derived from the anxiety and avoidance axis scores.
type AttachmentStyle string

const (
	StyleSecure             AttachmentStyle = "SECURE"
	StyleAnxiousPreoccupied AttachmentStyle = "ANXIOUS_PREOCCUPIED"
	StyleDismissiveAvoidant AttachmentStyle = "DISMISSIVE_AVOIDANT"
	StyleFearfulAvoidant    AttachmentStyle = "FEARFUL_AVOIDANT"
)

// Question is immutable once loaded. Questions are deduplicated by
// external id, so reloading the bank never creates duplicates.
type Question struct {
	ID           int64         `json:"id" db:"id"`
	ExternalID   string        `json:"external_id" db:"external_id"`
	Text         string        `json:"text" db:"text"`
	Category     Category      `json:"category" db:"category"`
	Scale        ResponseScale `json:"scale" db:"scale"`
	Subcategory  *string       `json:"subcategory,omitempty" db:"subcategory"`
	Domain       *string       `json:"domain,omitempty" db:"domain"`       // O, C, E, A, N
	Keyed        *string       `json:"keyed,omitempty" db:"keyed"`         // plus or minus
	Dimension    *string       `json:"dimension,omitempty" db:"dimension"` // anxiety, avoidance, progressive, ...
	Severity     *Severity     `json:"severity,omitempty" db:"severity"`
	RedFlagValue *int          `json:"red_flag_value,omitempty" db:"red_flag_value"`
	FlagName     *string       `json:"flag_name,omitempty" db:"flag_name"`
	DisplayOrder int           `json:"display_order" db:"display_order"`
	Active       bool          `json:"active" db:"active"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// Response is one user's answer to one question. Unique per (user,
// question) and upserted on resubmission. A free-text question carries
// only Text; everything else carries only Numeric.
type Response struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	QuestionID int64     `json:"question_id" db:"question_id"`
	Category   Category  `json:"category" db:"category"`
	Numeric    *int      `json:"numeric_response,omitempty" db:"numeric_response"`
	Text       *string   `json:"text_response,omitempty" db:"text_response"`
	Importance *string   `json:"importance,omitempty" db:"importance"`
	AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Answer pairs a stored response with its question for scoring.
type Answer struct {
	Response *Response
	Question *Question
}

// Profile holds a user's aggregated assessment scores. All score fields
// are 0-100; nil means the underlying data does not exist yet. Only the
// aggregator writes this struct.
type Profile struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	OpennessScore          *float64 `json:"openness_score,omitempty" db:"openness_score"`
	ConscientiousnessScore *float64 `json:"conscientiousness_score,omitempty" db:"conscientiousness_score"`
	ExtraversionScore      *float64 `json:"extraversion_score,omitempty" db:"extraversion_score"`
	AgreeablenessScore     *float64 `json:"agreeableness_score,omitempty" db:"agreeableness_score"`
	NeuroticismScore       *float64 `json:"neuroticism_score,omitempty" db:"neuroticism_score"`
	EmotionalStability     *float64 `json:"emotional_stability_score,omitempty" db:"emotional_stability_score"`

	AttachmentAnxietyScore   *float64         `json:"attachment_anxiety_score,omitempty" db:"attachment_anxiety_score"`
	AttachmentAvoidanceScore *float64         `json:"attachment_avoidance_score,omitempty" db:"attachment_avoidance_score"`
	AttachmentStyle          *AttachmentStyle `json:"attachment_style,omitempty" db:"attachment_style"`

	ValuesProgressiveScore *float64 `json:"values_progressive_score,omitempty" db:"values_progressive_score"`
	ValuesEgalitarianScore *float64 `json:"values_egalitarian_score,omitempty" db:"values_egalitarian_score"`

	LifestyleSocialScore   *float64 `json:"lifestyle_social_score,omitempty" db:"lifestyle_social_score"`
	LifestyleHealthScore   *float64 `json:"lifestyle_health_score,omitempty" db:"lifestyle_health_score"`
	LifestyleWorkLifeScore *float64 `json:"lifestyle_worklife_score,omitempty" db:"lifestyle_worklife_score"`
	LifestyleFinanceScore  *float64 `json:"lifestyle_finance_score,omitempty" db:"lifestyle_finance_score"`

	DealbreakerFlags FlagSet `json:"dealbreaker_flags" db:"dealbreaker_flags"`

	BigFiveAnswered     int `json:"big_five_answered" db:"big_five_answered"`
	AttachmentAnswered  int `json:"attachment_answered" db:"attachment_answered"`
	ValuesAnswered      int `json:"values_answered" db:"values_answered"`
	DealbreakerAnswered int `json:"dealbreaker_answered" db:"dealbreaker_answered"`
	LifestyleAnswered   int `json:"lifestyle_answered" db:"lifestyle_answered"`

	BigFiveComplete     bool `json:"big_five_complete" db:"big_five_complete"`
	AttachmentComplete  bool `json:"attachment_complete" db:"attachment_complete"`
	ValuesComplete      bool `json:"values_complete" db:"values_complete"`
	DealbreakerComplete bool `json:"dealbreaker_complete" db:"dealbreaker_complete"`
	LifestyleComplete   bool `json:"lifestyle_complete" db:"lifestyle_complete"`
	ProfileComplete     bool `json:"profile_complete" db:"profile_complete"`

	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Config carries the completion minimums injected at construction.
type Config struct {
	BigFiveMinQuestions     int
	AttachmentMinQuestions  int
	ValuesMinQuestions      int
	DealbreakerMinQuestions int
	LifestyleMinQuestions   int
}

// CategoryInfo is the single source of per-category behavior: display
// name, completion minimum, whether the category is optional, and the
// prompt used when the category surfaces in match explanations.
type CategoryInfo struct {
	Category         Category
	DisplayName      string
	MinForCompletion int
	Optional         bool
	DiscussionPrompt string
}

// NewCategoryTable builds the category table once from config. Every
// place that needs per-category behavior consults this table instead of
// switching on the enum.
func NewCategoryTable(cfg Config) map[Category]CategoryInfo {
	return map[Category]CategoryInfo{
		CategoryBigFive: {
			Category:         CategoryBigFive,
			DisplayName:      "Personality",
			MinForCompletion: cfg.BigFiveMinQuestions,
			DiscussionPrompt: "How you each approach everyday life",
		},
		CategoryAttachment: {
			Category:         CategoryAttachment,
			DisplayName:      "Attachment",
			MinForCompletion: cfg.AttachmentMinQuestions,
			DiscussionPrompt: "How you each handle closeness and conflict",
		},
		CategoryDealbreaker: {
			Category:         CategoryDealbreaker,
			DisplayName:      "Dealbreakers",
			MinForCompletion: cfg.DealbreakerMinQuestions,
			DiscussionPrompt: "Non-negotiables worth an early conversation",
		},
		CategoryValues: {
			Category:         CategoryValues,
			DisplayName:      "Values",
			MinForCompletion: cfg.ValuesMinQuestions,
			DiscussionPrompt: "What matters most to each of you",
		},
		CategoryLifestyle: {
			Category:         CategoryLifestyle,
			DisplayName:      "Lifestyle",
			MinForCompletion: cfg.LifestyleMinQuestions,
			DiscussionPrompt: "Daily routines and habits",
		},
		CategoryRedFlag: {
			Category:         CategoryRedFlag,
			DisplayName:      "Reflection",
			MinForCompletion: 0,
			Optional:         true,
			DiscussionPrompt: "Open-ended reflections",
		},
	}
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) (Category, bool) {
	c := Category(s)
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}
