package matching

import (
	"strings"
	"testing"

	"github.com/aura-collective/aura-backend/internal/assessment"
)

func TestExplanationHighlightsStrengths(t *testing.T) {
	score := &PairScore{
		PersonalityScore:    85,
		ValuesScore:         90,
		LifestyleScore:      75,
		AttractionScore:     50,
		CircumstantialScore: 50,
		GrowthScore:         60,
		OverallScore:        82,
		EnemyScore:          5,
	}

	explanation := BuildExplanation(score)

	if len(explanation.TopCompatibilities) != 3 {
		t.Fatalf("strengths = %v, want values, personality, lifestyle", explanation.TopCompatibilities)
	}
	if len(explanation.Challenges) != 0 {
		t.Fatalf("unexpected challenges: %v", explanation.Challenges)
	}
	if !strings.Contains(explanation.Summary, "Exceptional") {
		t.Fatalf("summary = %q, want exceptional band", explanation.Summary)
	}
}

func TestExplanationSurfacesChallengesAndFriction(t *testing.T) {
	score := &PairScore{
		PersonalityScore:    40,
		ValuesScore:         30,
		LifestyleScore:      55,
		AttractionScore:     50,
		CircumstantialScore: 50,
		GrowthScore:         55,
		OverallScore:        45,
		EnemyScore:          40,
	}

	explanation := BuildExplanation(score)

	// values and personality below 50, plus the enemy-score warning.
	if len(explanation.Challenges) != 3 {
		t.Fatalf("challenges = %v, want 3", explanation.Challenges)
	}
	if len(explanation.TopCompatibilities) != 0 {
		t.Fatalf("unexpected strengths: %v", explanation.TopCompatibilities)
	}
	if !strings.Contains(explanation.Summary, "opposites") {
		t.Fatalf("summary = %q, want lowest band", explanation.Summary)
	}
}

func TestExplanationSummaryBands(t *testing.T) {
	cases := []struct {
		overall float64
		want    string
	}{
		{85, "Exceptional"},
		{75, "Strong"},
		{65, "Good"},
		{55, "Moderate"},
		{35, "opposites"},
	}
	for _, tc := range cases {
		got := summaryFor(tc.overall)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("summaryFor(%v) = %q, want %q", tc.overall, got, tc.want)
		}
	}
}

func TestExplanationPrefersStoredScorerOutput(t *testing.T) {
	stored := `{"summary":"You both light up the same rooms","top_compatibilities":["Shared humor"],"dimension_scores":{}}`
	score := &PairScore{OverallScore: 70, ExplanationJSON: &stored}

	explanation := BuildExplanation(score)

	if explanation.Summary != "You both light up the same rooms" {
		t.Fatalf("summary = %q, want stored scorer output", explanation.Summary)
	}
}

func TestExplanationIgnoresMalformedStoredOutput(t *testing.T) {
	stored := `{not json`
	score := &PairScore{OverallScore: 72, ExplanationJSON: &stored}

	explanation := BuildExplanation(score)

	if !strings.Contains(explanation.Summary, "Strong") {
		t.Fatalf("summary = %q, want derived band", explanation.Summary)
	}
}

func TestBreakdownAreaSelection(t *testing.T) {
	breakdown := map[string]float64{
		"Core Values":      95,
		"Personality":      90,
		"Lifestyle":        80,
		"Attachment Style": 76,
		"Dealbreakers":     20,
		"Reflection":       40,
	}

	top := topBreakdownAreas(breakdown)
	if len(top) != 3 {
		t.Fatalf("top areas = %v, want capped at 3", top)
	}
	if top[0] != "Core Values" || top[1] != "Personality" || top[2] != "Lifestyle" {
		t.Fatalf("top areas out of order: %v", top)
	}

	discuss := breakdownAreasToDiscuss(breakdown)
	if len(discuss) != 2 {
		t.Fatalf("areas to discuss = %v, want 2", discuss)
	}
	if discuss[0] != "Dealbreakers" || discuss[1] != "Reflection" {
		t.Fatalf("areas to discuss out of order: %v", discuss)
	}
}

func TestMatchInsightBands(t *testing.T) {
	cases := []struct {
		name  string
		match assessment.MatchResult
		want  string
	}{
		{"mandatory conflict wins", assessment.MatchResult{MatchPercentage: 85, HasEnoughData: true, HasMandatoryConflict: true}, "A dealbreaker answer conflicts between you"},
		{"low confidence", assessment.MatchResult{MatchPercentage: 85, HasEnoughData: false}, "Answer more questions to sharpen this match"},
		{"high", assessment.MatchResult{MatchPercentage: 85, HasEnoughData: true}, "You agree on most of what matters to both of you"},
		{"middle", assessment.MatchResult{MatchPercentage: 65, HasEnoughData: true}, "Solid common ground with a few differences worth exploring"},
		{"low", assessment.MatchResult{MatchPercentage: 30, HasEnoughData: true}, "You see some things differently; the breakdown shows where"},
	}

	for _, tc := range cases {
		if got := matchInsight(&tc.match); got != tc.want {
			t.Fatalf("%s: insight = %q, want %q", tc.name, got, tc.want)
		}
	}
}
