// internal/matching/dto.go

package matching

import (
	"time"

	"github.com/aura-collective/aura-backend/internal/location"
)

// MatchRecommendation is one entry in the daily match list.
type MatchRecommendation struct {
	UserID      int64    `json:"user_id"`
	UserUUID    string   `json:"user_uuid"`
	DisplayName *string  `json:"display_name,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Interests   []string `json:"interests,omitempty"`

	CompatibilityScore float64  `json:"compatibility_score"`
	EnemyScore         float64  `json:"enemy_score"`
	MatchPercentage    *float64 `json:"match_percentage,omitempty"`
	HasEnoughData      bool     `json:"has_enough_data"`

	CategoryBreakdown     map[string]float64 `json:"category_breakdown,omitempty"`
	TopCompatibilityAreas []string           `json:"top_compatibility_areas,omitempty"`
	AreasToDiscuss        []string           `json:"areas_to_discuss,omitempty"`
	MatchInsight          string             `json:"match_insight,omitempty"`

	TravelTime *location.TravelTimeInfo `json:"travel_time,omitempty"`

	Reason *string `json:"reason,omitempty"`
}

// DailyMatchesResponse is the full daily pipeline result. Gated covers
// both the intake and values gates; DailyLimitReached is the quota.
type DailyMatchesResponse struct {
	Matches   []*MatchRecommendation `json:"matches"`
	Remaining int                    `json:"remaining"`

	Gated       bool   `json:"gated,omitempty"`
	GateMessage string `json:"gate_message,omitempty"`

	DailyLimitReached bool       `json:"daily_limit_reached,omitempty"`
	ResetsAt          *time.Time `json:"resets_at,omitempty"`
}

// CompatibilityResponse is the on-demand pair score plus explanation.
type CompatibilityResponse struct {
	UserUUID    string       `json:"user_uuid"`
	Score       *PairScore   `json:"score"`
	Explanation *Explanation `json:"explanation"`
}
