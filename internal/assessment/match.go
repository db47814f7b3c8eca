// internal/assessment/match.go
// Importance-weighted match percentage over the questions both users
// have answered. Formula: sqrt(satisfactionA * satisfactionB) * 100,
// the geometric mean, so one side's dissatisfaction cannot be masked
// by the other's enthusiasm.

package assessment

import (
	"context"
	"math"
)

// Importance tiers a user can assign to a question. Unstated importance
// falls back to "somewhat".
var importanceWeights = map[string]float64{
	"irrelevant": 0,
	"a_little":   1,
	"somewhat":   10,
	"very":       50,
	"mandatory":  250,
}

const (
	defaultImportance = "somewhat"

	// Below this many shared questions the percentage is low-confidence.
	enoughCommonQuestions = 10

	// Ceiling applied when a critical dealbreaker conflict is detected.
	mandatoryConflictCap = 10.0
)

// MatchResult is the outcome of the importance-weighted calculation.
// Satisfaction values are percentages rounded to one decimal.
type MatchResult struct {
	MatchPercentage      float64 `json:"match_percentage"`
	HasEnoughData        bool    `json:"has_enough_data"`
	CommonQuestions      int     `json:"common_questions"`
	SatisfactionA        float64 `json:"satisfaction_a"`
	SatisfactionB        float64 `json:"satisfaction_b"`
	HasMandatoryConflict bool    `json:"has_mandatory_conflict"`
}

// ComputeMatch calculates the match percentage from two answer sets.
// No shared answers yields the neutral 50% with HasEnoughData false.
func ComputeMatch(answersA, answersB []*Answer) *MatchResult {
	mapA := answersByQuestion(answersA)
	mapB := answersByQuestion(answersB)

	common := commonQuestionIDs(mapA, mapB)
	if len(common) == 0 {
		return &MatchResult{MatchPercentage: 50.0, HasEnoughData: false}
	}

	satA := satisfaction(mapA, mapB, common)
	satB := satisfaction(mapB, mapA, common)

	percentage := math.Sqrt(satA*satB) * 100

	conflict := hasMandatoryConflict(mapA, mapB, common)
	if conflict {
		percentage = math.Min(percentage, mandatoryConflictCap)
	}

	return &MatchResult{
		MatchPercentage:      roundTenth(percentage),
		HasEnoughData:        len(common) >= enoughCommonQuestions,
		CommonQuestions:      len(common),
		SatisfactionA:        roundTenth(satA * 100),
		SatisfactionB:        roundTenth(satB * 100),
		HasMandatoryConflict: conflict,
	}
}

// ComputeCategoryBreakdown applies the same satisfaction formula per
// category. Categories with no shared answers are omitted.
func ComputeCategoryBreakdown(answersA, answersB []*Answer) map[Category]float64 {
	breakdown := make(map[Category]float64)

	for _, category := range Categories {
		mapA := answersByQuestion(filterCategory(answersA, category))
		mapB := answersByQuestion(filterCategory(answersB, category))

		common := commonQuestionIDs(mapA, mapB)
		if len(common) == 0 {
			continue
		}

		satA := satisfaction(mapA, mapB, common)
		satB := satisfaction(mapB, mapA, common)
		breakdown[category] = roundTenth(math.Sqrt(satA*satB) * 100)
	}

	return breakdown
}

// MatchCalculator loads both users' answers and runs the computation.
type MatchCalculator struct {
	repo Repository
}

func NewMatchCalculator(repo Repository) *MatchCalculator {
	return &MatchCalculator{repo: repo}
}

func (c *MatchCalculator) Match(ctx context.Context, userA, userB int64) (*MatchResult, error) {
	answersA, err := c.repo.AnswersByUser(ctx, userA)
	if err != nil {
		return nil, err
	}
	answersB, err := c.repo.AnswersByUser(ctx, userB)
	if err != nil {
		return nil, err
	}

	return ComputeMatch(answersA, answersB), nil
}

func (c *MatchCalculator) Breakdown(ctx context.Context, userA, userB int64) (map[Category]float64, error) {
	answersA, err := c.repo.AnswersByUser(ctx, userA)
	if err != nil {
		return nil, err
	}
	answersB, err := c.repo.AnswersByUser(ctx, userB)
	if err != nil {
		return nil, err
	}

	return ComputeCategoryBreakdown(answersA, answersB), nil
}

// satisfaction is the importance-weighted fraction of "mine" questions
// the other user's answers satisfy. An answer satisfies when it lands
// within one point of mine on the 1-5 scale.
func satisfaction(mine, theirs map[int64]*Answer, common []int64) float64 {
	var totalWeight, satisfiedWeight float64

	for _, questionID := range common {
		my := mine[questionID]
		their := theirs[questionID]

		weight := importanceWeight(my)
		totalWeight += weight
		if answerAcceptable(my, their) {
			satisfiedWeight += weight
		}
	}

	if totalWeight == 0 {
		return 0.5
	}
	return satisfiedWeight / totalWeight
}

func importanceWeight(ans *Answer) float64 {
	tier := defaultImportance
	if ans.Response.Importance != nil {
		tier = *ans.Response.Importance
	}
	if w, ok := importanceWeights[tier]; ok {
		return w
	}
	return importanceWeights[defaultImportance]
}

func answerAcceptable(mine, theirs *Answer) bool {
	if mine.Response.Numeric == nil || theirs.Response.Numeric == nil {
		// Free-text answers cannot be compared.
		return true
	}
	diff := *mine.Response.Numeric - *theirs.Response.Numeric
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// hasMandatoryConflict scans shared dealbreaker questions for answers
// at opposite extremes on a CRITICAL-severity question.
func hasMandatoryConflict(mapA, mapB map[int64]*Answer, common []int64) bool {
	for _, questionID := range common {
		a := mapA[questionID]
		b := mapB[questionID]

		q := a.Question
		if q.Category != CategoryDealbreaker || q.Severity == nil || *q.Severity != SeverityCritical {
			continue
		}
		if a.Response.Numeric == nil || b.Response.Numeric == nil {
			continue
		}

		av, bv := *a.Response.Numeric, *b.Response.Numeric
		if (av == 1 && bv >= 4) || (av >= 4 && bv == 1) {
			return true
		}
	}
	return false
}

func answersByQuestion(answers []*Answer) map[int64]*Answer {
	m := make(map[int64]*Answer, len(answers))
	for _, ans := range answers {
		m[ans.Question.ID] = ans
	}
	return m
}

func commonQuestionIDs(mapA, mapB map[int64]*Answer) []int64 {
	var common []int64
	for id := range mapA {
		if _, ok := mapB[id]; ok {
			common = append(common, id)
		}
	}
	return common
}

func filterCategory(answers []*Answer, category Category) []*Answer {
	var out []*Answer
	for _, ans := range answers {
		if ans.Question.Category == category {
			out = append(out, ans)
		}
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
