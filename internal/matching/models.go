// internal/matching/models.go

package matching

import (
	"encoding/json"
	"time"
)

// PairScore is the cached compatibility result for a requester/match
// pair. Written once per pair on cache miss; never recomputed
// automatically when a profile changes. The invalidate-by-user hook
// and the optional max-age policy are the only paths to a fresh score.
type PairScore struct {
	ID      int64 `json:"id" db:"id"`
	UserAID int64 `json:"user_a_id" db:"user_a_id"`
	UserBID int64 `json:"user_b_id" db:"user_b_id"`

	PersonalityScore    float64 `json:"personality_score" db:"personality_score"`
	ValuesScore         float64 `json:"values_score" db:"values_score"`
	LifestyleScore      float64 `json:"lifestyle_score" db:"lifestyle_score"`
	AttractionScore     float64 `json:"attraction_score" db:"attraction_score"`
	CircumstantialScore float64 `json:"circumstantial_score" db:"circumstantial_score"`
	GrowthScore         float64 `json:"growth_score" db:"growth_score"`

	OverallScore float64 `json:"overall_score" db:"overall_score"`
	EnemyScore   float64 `json:"enemy_score" db:"enemy_score"`

	ExplanationJSON *string `json:"explanation_json,omitempty" db:"explanation_json"`

	CalculatedAt time.Time `json:"calculated_at" db:"calculated_at"`
}

// DimensionScores maps dimension names to scores for explanations.
func (s *PairScore) DimensionScores() map[string]float64 {
	return map[string]float64{
		"personality":    s.PersonalityScore,
		"values":         s.ValuesScore,
		"lifestyle":      s.LifestyleScore,
		"attraction":     s.AttractionScore,
		"circumstantial": s.CircumstantialScore,
		"growth":         s.GrowthScore,
	}
}

// DailyQuota is one user's match budget for one calendar day. Created
// on first request of the day; the shown set accumulates until the
// next local midnight.
type DailyQuota struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	MatchDate    time.Time `json:"match_date" db:"match_date"`
	MatchesShown int       `json:"matches_shown" db:"matches_shown"`
	MatchLimit   int       `json:"match_limit" db:"match_limit"`
	ShownUserIDs *string   `json:"shown_user_ids,omitempty" db:"shown_user_ids"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ReachedLimit reports whether the day's budget is spent.
func (q *DailyQuota) ReachedLimit() bool {
	return q.MatchesShown >= q.MatchLimit
}

// Remaining is how many more matches may be shown today.
func (q *DailyQuota) Remaining() int {
	if q.MatchLimit <= q.MatchesShown {
		return 0
	}
	return q.MatchLimit - q.MatchesShown
}

// ShownSet decodes the shown-user JSON into a lookup set.
func (q *DailyQuota) ShownSet() map[int64]bool {
	set := make(map[int64]bool)
	if q.ShownUserIDs == nil || *q.ShownUserIDs == "" {
		return set
	}
	var ids []int64
	if err := json.Unmarshal([]byte(*q.ShownUserIDs), &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// UserSnapshot is the slice of account data the matching payload and
// recommendation DTOs need.
type UserSnapshot struct {
	ID          int64    `json:"id" db:"id"`
	UUID        string   `json:"uuid" db:"uuid"`
	DisplayName *string  `json:"display_name,omitempty" db:"display_name"`
	Gender      *string  `json:"gender,omitempty" db:"gender"`
	Age         *int     `json:"age,omitempty" db:"age"`
	Interests   []string `json:"interests,omitempty" db:"-"`

	InterestsJSON *string `json:"-" db:"interests"`
}

// PairRef identifies one stored pair score direction. Returned by
// bulk deletes so the cache entries for the same pairs can be purged.
type PairRef struct {
	UserAID int64 `db:"user_a_id"`
	UserBID int64 `db:"user_b_id"`
}

// CandidateScore is one entry of the external matchmaker's ranked
// candidate list.
type CandidateScore struct {
	UserID             int64    `json:"user_id"`
	UserUUID           string   `json:"user_uuid"`
	CompatibilityScore float64  `json:"compatibility_score"`
	EnemyScore         *float64 `json:"enemy_score,omitempty"`
	Reason             *string  `json:"reason,omitempty"`
}
