// internal/assessment/aggregator.go
// Turns raw answers into a user's normalized profile. Recomputation
// always reads the full current answer set, so concurrent submissions
// cannot leave a partially updated profile.

package assessment

import (
	"context"
)

// Big Five domains, in the order scores are reported.
var traitDomains = []string{"O", "C", "E", "A", "N"}

// Answers on the 1-5 scale rescale to 0-100 via (raw - 1) * 25. A
// missing plus- or minus-keyed side defaults to the scale midpoint.
const (
	scaleMidpoint     = 3.0
	attachmentLowMark = 3.0
)

type Aggregator struct {
	repo  Repository
	table map[Category]CategoryInfo
}

func NewAggregator(repo Repository, table map[Category]CategoryInfo) *Aggregator {
	return &Aggregator{repo: repo, table: table}
}

// Recompute rebuilds the user's profile from their current answers and
// persists it. Returns the saved profile.
func (a *Aggregator) Recompute(ctx context.Context, userID int64) (*Profile, error) {
	answers, err := a.repo.AnswersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := buildProfile(userID, answers, a.table)
	if err := a.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// buildProfile derives every score and completion flag from the answer
// set. Pure function; the repository is only touched by Recompute.
func buildProfile(userID int64, answers []*Answer, table map[Category]CategoryInfo) *Profile {
	profile := &Profile{UserID: userID}

	byCategory := make(map[Category][]*Answer)
	for _, ans := range answers {
		byCategory[ans.Question.Category] = append(byCategory[ans.Question.Category], ans)
	}

	profile.BigFiveAnswered = len(byCategory[CategoryBigFive])
	profile.AttachmentAnswered = len(byCategory[CategoryAttachment])
	profile.ValuesAnswered = len(byCategory[CategoryValues])
	profile.DealbreakerAnswered = len(byCategory[CategoryDealbreaker])
	profile.LifestyleAnswered = len(byCategory[CategoryLifestyle])

	profile.BigFiveComplete = profile.BigFiveAnswered >= table[CategoryBigFive].MinForCompletion
	profile.AttachmentComplete = profile.AttachmentAnswered >= table[CategoryAttachment].MinForCompletion
	profile.ValuesComplete = profile.ValuesAnswered >= table[CategoryValues].MinForCompletion
	profile.DealbreakerComplete = profile.DealbreakerAnswered >= table[CategoryDealbreaker].MinForCompletion
	profile.LifestyleComplete = profile.LifestyleAnswered >= table[CategoryLifestyle].MinForCompletion

	// The reflection category is optional and never blocks completion;
	// lifestyle is scored but not required for the overall flag either.
	profile.ProfileComplete = profile.BigFiveComplete &&
		profile.AttachmentComplete &&
		profile.ValuesComplete &&
		profile.DealbreakerComplete

	if profile.BigFiveComplete {
		computeTraitScores(profile, byCategory[CategoryBigFive])
	}
	if profile.AttachmentComplete {
		computeAttachmentScores(profile, byCategory[CategoryAttachment])
	}
	if profile.ValuesComplete {
		profile.ValuesProgressiveScore = dimensionScore(byCategory[CategoryValues], "progressive")
		profile.ValuesEgalitarianScore = dimensionScore(byCategory[CategoryValues], "egalitarian")
	}
	if profile.LifestyleComplete {
		profile.LifestyleSocialScore = dimensionScore(byCategory[CategoryLifestyle], "social")
		profile.LifestyleHealthScore = dimensionScore(byCategory[CategoryLifestyle], "health")
		profile.LifestyleWorkLifeScore = dimensionScore(byCategory[CategoryLifestyle], "worklife")
		profile.LifestyleFinanceScore = dimensionScore(byCategory[CategoryLifestyle], "finance")
	}

	profile.DealbreakerFlags = computeDealbreakerFlags(byCategory[CategoryDealbreaker])

	return profile
}

// computeTraitScores scores each Big Five domain using plus/minus
// keying: minus-keyed items are reversed (6 - raw), the two keyed means
// are averaged, and the result rescales from [1,5] to [0,100]. A domain
// with no answers stays unknown.
func computeTraitScores(profile *Profile, answers []*Answer) {
	for _, domain := range traitDomains {
		var plusSum, minusSum float64
		var plusN, minusN int

		for _, ans := range answers {
			if ans.Question.Domain == nil || *ans.Question.Domain != domain || ans.Response.Numeric == nil {
				continue
			}
			if ans.Question.Keyed != nil && *ans.Question.Keyed == "minus" {
				minusSum += float64(*ans.Response.Numeric)
				minusN++
			} else {
				plusSum += float64(*ans.Response.Numeric)
				plusN++
			}
		}

		if plusN == 0 && minusN == 0 {
			continue
		}

		plusMean := scaleMidpoint
		if plusN > 0 {
			plusMean = plusSum / float64(plusN)
		}
		minusMean := scaleMidpoint
		if minusN > 0 {
			minusMean = 6.0 - minusSum/float64(minusN)
		}

		score := ((plusMean+minusMean)/2.0 - 1) * 25

		switch domain {
		case "O":
			profile.OpennessScore = &score
		case "C":
			profile.ConscientiousnessScore = &score
		case "E":
			profile.ExtraversionScore = &score
		case "A":
			profile.AgreeablenessScore = &score
		case "N":
			profile.NeuroticismScore = &score
			stability := 100 - score
			profile.EmotionalStability = &stability
		}
	}
}

// computeAttachmentScores derives the anxiety and avoidance axes and
// classifies the attachment style. The low/high cut sits at 3.0 on the
// raw 1-5 scale.
func computeAttachmentScores(profile *Profile, answers []*Answer) {
	anxietyRaw := rawDimensionMean(answers, "anxiety")
	avoidanceRaw := rawDimensionMean(answers, "avoidance")

	if anxietyRaw != nil {
		score := (*anxietyRaw - 1) * 25
		profile.AttachmentAnxietyScore = &score
	}
	if avoidanceRaw != nil {
		score := (*avoidanceRaw - 1) * 25
		profile.AttachmentAvoidanceScore = &score
	}

	if anxietyRaw == nil || avoidanceRaw == nil {
		return
	}

	lowAnxiety := *anxietyRaw < attachmentLowMark
	lowAvoidance := *avoidanceRaw < attachmentLowMark

	var style AttachmentStyle
	switch {
	case lowAnxiety && lowAvoidance:
		style = StyleSecure
	case !lowAnxiety && lowAvoidance:
		style = StyleAnxiousPreoccupied
	case lowAnxiety && !lowAvoidance:
		style = StyleDismissiveAvoidant
	default:
		style = StyleFearfulAvoidant
	}
	profile.AttachmentStyle = &style
}

// dimensionScore is the rescaled mean for one declared sub-dimension,
// or nil when the dimension has no numeric answers.
func dimensionScore(answers []*Answer, dimension string) *float64 {
	raw := rawDimensionMean(answers, dimension)
	if raw == nil {
		return nil
	}
	score := (*raw - 1) * 25
	return &score
}

func rawDimensionMean(answers []*Answer, dimension string) *float64 {
	var sum float64
	var n int
	for _, ans := range answers {
		if ans.Question.Dimension == nil || *ans.Question.Dimension != dimension || ans.Response.Numeric == nil {
			continue
		}
		sum += float64(*ans.Response.Numeric)
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// computeDealbreakerFlags sets one bit per answered dealbreaker
// question whose answer matches the question's red-flag trigger value.
func computeDealbreakerFlags(answers []*Answer) FlagSet {
	var flags FlagSet
	for _, ans := range answers {
		q := ans.Question
		if q.RedFlagValue == nil || q.FlagName == nil || ans.Response.Numeric == nil {
			continue
		}
		if *ans.Response.Numeric != *q.RedFlagValue {
			continue
		}
		if bit, ok := FlagByName(*q.FlagName); ok {
			flags = flags.With(bit)
		}
	}
	return flags
}
