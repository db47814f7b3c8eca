// internal/matching/explanation.go
// Human-readable framing for a stored pair score. When the external
// scorer supplied its own explanation we pass that through; otherwise
// the defaults here are derived from the dimension scores.

package matching

import (
	"encoding/json"
	"sort"

	"github.com/aura-collective/aura-backend/internal/assessment"
)

const (
	strengthThreshold  = 70.0
	challengeThreshold = 50.0
	enemyWarnThreshold = 30.0

	topAreaThreshold     = 75.0
	discussAreaThreshold = 50.0
	breakdownAreasMax    = 3
)

// Explanation is the client-facing breakdown of one pair score.
type Explanation struct {
	Summary            string             `json:"summary"`
	TopCompatibilities []string           `json:"top_compatibilities"`
	Challenges         []string           `json:"challenges"`
	DimensionScores    map[string]float64 `json:"dimension_scores"`
	OverallScore       float64            `json:"overall_score"`
	EnemyScore         float64            `json:"enemy_score"`
}

var strengthLabels = map[string]string{
	"values":      "You share similar core values",
	"personality": "Your personalities complement each other",
	"lifestyle":   "Your lifestyles are well aligned",
	"growth":      "You could grow well together",
}

var challengeLabels = map[string]string{
	"values":         "Your core values differ in places worth discussing",
	"personality":    "Your personalities may take some adjusting to",
	"lifestyle":      "Your day-to-day routines look quite different",
	"attraction":     "Early chemistry may take time to build",
	"circumstantial": "Your circumstances may need some coordination",
	"growth":         "You may want different things long term",
}

// strengthOrder and challengeOrder keep explanation output stable
// across requests for the same score.
var strengthOrder = []string{"values", "personality", "lifestyle", "growth"}
var challengeOrder = []string{"values", "personality", "lifestyle", "attraction", "circumstantial", "growth"}

// BuildExplanation derives an explanation from a pair score. A stored
// scorer-provided explanation takes precedence when it decodes.
func BuildExplanation(score *PairScore) *Explanation {
	if score.ExplanationJSON != nil && *score.ExplanationJSON != "" {
		var stored Explanation
		if err := json.Unmarshal([]byte(*score.ExplanationJSON), &stored); err == nil && stored.Summary != "" {
			return &stored
		}
	}

	dims := score.DimensionScores()

	var strengths []string
	for _, dim := range strengthOrder {
		if dims[dim] >= strengthThreshold {
			strengths = append(strengths, strengthLabels[dim])
		}
	}

	var challenges []string
	for _, dim := range challengeOrder {
		if dims[dim] < challengeThreshold {
			challenges = append(challenges, challengeLabels[dim])
		}
	}
	if score.EnemyScore > enemyWarnThreshold {
		challenges = append(challenges, "Some friction points showed up in your answers")
	}

	return &Explanation{
		Summary:            summaryFor(score.OverallScore),
		TopCompatibilities: strengths,
		Challenges:         challenges,
		DimensionScores:    dims,
		OverallScore:       score.OverallScore,
		EnemyScore:         score.EnemyScore,
	}
}

// topBreakdownAreas picks the highest-scoring question categories the
// pair agrees on. Ties break alphabetically so output is stable.
func topBreakdownAreas(breakdown map[string]float64) []string {
	return selectAreas(breakdown, func(score float64) bool {
		return score >= topAreaThreshold
	}, true)
}

// breakdownAreasToDiscuss picks the categories where the pair
// diverges, lowest score first.
func breakdownAreasToDiscuss(breakdown map[string]float64) []string {
	return selectAreas(breakdown, func(score float64) bool {
		return score < discussAreaThreshold
	}, false)
}

func selectAreas(breakdown map[string]float64, keep func(float64) bool, highestFirst bool) []string {
	var areas []string
	for area, score := range breakdown {
		if keep(score) {
			areas = append(areas, area)
		}
	}

	sort.Slice(areas, func(i, j int) bool {
		a, b := breakdown[areas[i]], breakdown[areas[j]]
		if a != b {
			if highestFirst {
				return a > b
			}
			return a < b
		}
		return areas[i] < areas[j]
	})

	if len(areas) > breakdownAreasMax {
		areas = areas[:breakdownAreasMax]
	}
	return areas
}

// matchInsight is a one-line framing of the importance-weighted match.
func matchInsight(match *assessment.MatchResult) string {
	switch {
	case match.HasMandatoryConflict:
		return "A dealbreaker answer conflicts between you"
	case !match.HasEnoughData:
		return "Answer more questions to sharpen this match"
	case match.MatchPercentage >= 80:
		return "You agree on most of what matters to both of you"
	case match.MatchPercentage >= 60:
		return "Solid common ground with a few differences worth exploring"
	default:
		return "You see some things differently; the breakdown shows where"
	}
}

func summaryFor(overall float64) string {
	switch {
	case overall >= 80:
		return "Exceptional compatibility across multiple dimensions"
	case overall >= 70:
		return "Strong compatibility with great potential"
	case overall >= 60:
		return "Good compatibility worth exploring"
	case overall >= 50:
		return "Moderate compatibility with room to connect"
	default:
		return "Lower compatibility, but opposites sometimes attract"
	}
}
