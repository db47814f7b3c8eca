// internal/matching/calculator.go
// Local fallback scoring used whenever the external scorer is
// unreachable. Deterministic for a fixed pair of profile snapshots, so
// duplicate computation under concurrency is wasted work, never
// corruption.

package matching

import (
	"math"

	"github.com/aura-collective/aura-backend/internal/assessment"
	"github.com/aura-collective/aura-backend/internal/political"
)

// Overall score weights. Attraction, circumstantial, and growth are
// placeholders held at the neutral midpoint until those signal sources
// exist.
const (
	weightPersonality    = 0.25
	weightValues         = 0.25
	weightLifestyle      = 0.20
	weightAttraction     = 0.15
	weightCircumstantial = 0.10
	weightGrowth         = 0.05

	neutralScore = 50.0

	attachmentBlendTrait = 0.8
	attachmentBlendBonus = 0.2
)

// computeLocalScore runs the full fallback algorithm. Either profile
// may be nil (no assessment yet); econ is the economic-compatibility
// fallback used when comprehensive values data is missing.
func computeLocalScore(profA, profB *assessment.Profile, econ float64, snapA, snapB *political.Snapshot) *PairScore {
	score := &PairScore{}

	// Shared active dealbreaker flags zero everything and short-circuit.
	if profA != nil && profB != nil && profA.DealbreakerFlags.Conflicts(profB.DealbreakerFlags) {
		return score
	}

	personality := neutralScore
	if profA != nil && profB != nil && profA.BigFiveComplete && profB.BigFiveComplete {
		personality = bigFiveCompatibility(profA, profB)
		if profA.AttachmentStyle != nil && profB.AttachmentStyle != nil {
			bonus := attachmentCompatibility(*profA.AttachmentStyle, *profB.AttachmentStyle)
			personality = personality*attachmentBlendTrait + bonus*attachmentBlendBonus
		}
	}

	values := econ
	if profA != nil && profB != nil && profA.ValuesComplete && profB.ValuesComplete {
		values = valuesCompatibility(profA, profB)
	}

	lifestyle := neutralScore
	if profA != nil && profB != nil && profA.LifestyleComplete && profB.LifestyleComplete {
		lifestyle = lifestyleCompatibility(profA, profB)
	}

	score.PersonalityScore = personality
	score.ValuesScore = values
	score.LifestyleScore = lifestyle
	score.AttractionScore = neutralScore
	score.CircumstantialScore = neutralScore
	score.GrowthScore = neutralScore

	score.OverallScore = personality*weightPersonality +
		values*weightValues +
		lifestyle*weightLifestyle +
		neutralScore*weightAttraction +
		neutralScore*weightCircumstantial +
		neutralScore*weightGrowth

	score.EnemyScore = enemyScore(profA, profB, score, snapA, snapB)

	return score
}

// bigFiveCompatibility averages the absolute difference over the
// domains both profiles have, rescaled so identical profiles hit 100.
func bigFiveCompatibility(a, b *assessment.Profile) float64 {
	pairs := [][2]*float64{
		{a.OpennessScore, b.OpennessScore},
		{a.ConscientiousnessScore, b.ConscientiousnessScore},
		{a.ExtraversionScore, b.ExtraversionScore},
		{a.AgreeablenessScore, b.AgreeablenessScore},
		{a.EmotionalStability, b.EmotionalStability},
	}
	return meanDifferenceScore(pairs)
}

func valuesCompatibility(a, b *assessment.Profile) float64 {
	pairs := [][2]*float64{
		{a.ValuesProgressiveScore, b.ValuesProgressiveScore},
		{a.ValuesEgalitarianScore, b.ValuesEgalitarianScore},
	}
	return meanDifferenceScore(pairs)
}

func lifestyleCompatibility(a, b *assessment.Profile) float64 {
	pairs := [][2]*float64{
		{a.LifestyleSocialScore, b.LifestyleSocialScore},
		{a.LifestyleHealthScore, b.LifestyleHealthScore},
		{a.LifestyleWorkLifeScore, b.LifestyleWorkLifeScore},
		{a.LifestyleFinanceScore, b.LifestyleFinanceScore},
	}
	return meanDifferenceScore(pairs)
}

// meanDifferenceScore is 100 minus the mean absolute difference over
// the dimension pairs present on both sides; neutral when none are.
func meanDifferenceScore(pairs [][2]*float64) float64 {
	var totalDiff float64
	var count int
	for _, pair := range pairs {
		if pair[0] == nil || pair[1] == nil {
			continue
		}
		totalDiff += math.Abs(*pair[0] - *pair[1])
		count++
	}
	if count == 0 {
		return neutralScore
	}
	return 100 - totalDiff/float64(count)
}

// attachmentCompatibility is the pairing bonus blended into the
// personality score. A secure partner stabilizes; the anxious-avoidant
// pairing is the classic pursue-withdraw trap.
func attachmentCompatibility(a, b assessment.AttachmentStyle) float64 {
	secureA := a == assessment.StyleSecure
	secureB := b == assessment.StyleSecure

	switch {
	case secureA && secureB:
		return 100
	case secureA || secureB:
		return 80
	case anxiousAvoidantPair(a, b):
		return 30
	case a == b:
		return 50
	default:
		return 40
	}
}

// enemyScore blends up to five incompatibility factors, each included
// only when the underlying data exists for both users, normalized by
// the included weights and clamped to [0,100].
func enemyScore(profA, profB *assessment.Profile, score *PairScore, snapA, snapB *political.Snapshot) float64 {
	var sum float64
	var weights int

	if profA != nil && profB != nil {
		sum += dealbreakerConflict(profA.DealbreakerFlags, profB.DealbreakerFlags) * 3.0
		weights += 3
	}

	sum += math.Max(0, neutralScore-score.ValuesScore) * 2
	weights++

	if conflict := politicalConflict(snapA, snapB); conflict > 0 {
		sum += conflict
		weights++
	}

	if profA != nil && profB != nil && profA.AttachmentStyle != nil && profB.AttachmentStyle != nil {
		sum += attachmentClash(*profA.AttachmentStyle, *profB.AttachmentStyle)
		weights++
	}

	sum += math.Max(0, neutralScore-score.LifestyleScore) * 2
	weights++

	if weights == 0 {
		return 0
	}
	return math.Min(100, sum/float64(weights))
}

// dealbreakerConflict is the share of activated flags the two users do
// NOT share: XOR bit count over OR bit count, scaled to 0-100.
func dealbreakerConflict(flagsA, flagsB assessment.FlagSet) float64 {
	total := flagsA.Union(flagsB).Count()
	if total == 0 {
		return 0
	}
	conflicting := flagsA.Diff(flagsB).Count()
	return float64(conflicting) * 100.0 / float64(total)
}

// politicalConflict averages the economic-score gap with the
// orientation distance scaled to 0-100.
func politicalConflict(snapA, snapB *political.Snapshot) float64 {
	if snapA == nil || snapB == nil {
		return 0
	}

	var conflict float64
	if snapA.EconomicValuesScore != nil && snapB.EconomicValuesScore != nil {
		conflict = math.Abs(*snapA.EconomicValuesScore - *snapB.EconomicValuesScore)
	}

	if snapA.OrientationOrdinal >= 0 && snapB.OrientationOrdinal >= 0 {
		distance := math.Abs(float64(snapA.OrientationOrdinal - snapB.OrientationOrdinal))
		orientationDiff := distance * 100.0 / political.MaxOrdinalDistance
		conflict = (conflict + orientationDiff) / 2
	}

	return conflict
}

// attachmentClash penalizes unstable pairings in the enemy score.
func attachmentClash(a, b assessment.AttachmentStyle) float64 {
	switch {
	case anxiousAvoidantPair(a, b):
		return 80
	case a == assessment.StyleFearfulAvoidant || b == assessment.StyleFearfulAvoidant:
		return 50
	case a != assessment.StyleSecure && b != assessment.StyleSecure:
		return 30
	default:
		return 0
	}
}

func anxiousAvoidantPair(a, b assessment.AttachmentStyle) bool {
	return (a == assessment.StyleAnxiousPreoccupied && b == assessment.StyleDismissiveAvoidant) ||
		(a == assessment.StyleDismissiveAvoidant && b == assessment.StyleAnxiousPreoccupied)
}
