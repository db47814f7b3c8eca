// internal/matching/pipeline.go
// The daily recommendation pipeline: eligibility gates, quota, the
// external matchmaker with local ranking as fallback, location
// filtering, and the importance-weighted match percentage overlay.

package matching

import (
	"context"
	"log"
	"time"

	"github.com/aura-collective/aura-backend/internal/location"
)

// rankedFetchMultiple oversamples the local ranking so location and
// already-shown filtering still leaves enough candidates.
const rankedFetchMultiple = 5

func (s *service) DailyMatches(ctx context.Context, userID int64) (*DailyMatchesResponse, error) {
	intakeDone, err := s.intake.IsIntakeComplete(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !intakeDone {
		gateRejectionsTotal.WithLabelValues("intake").Inc()
		return &DailyMatchesResponse{
			Matches:     []*MatchRecommendation{},
			Gated:       true,
			GateMessage: "Finish your intake steps to start receiving matches.",
		}, nil
	}

	if s.cfg.PoliticalAssessmentRequired {
		allowed, err := s.values.CanAccessMatching(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			gateRejectionsTotal.WithLabelValues("values").Inc()
			message, err := s.values.GateStatusMessage(ctx, userID)
			if err != nil {
				return nil, err
			}
			return &DailyMatchesResponse{
				Matches:     []*MatchRecommendation{},
				Gated:       true,
				GateMessage: message,
			}, nil
		}
	}

	today := midnight(s.now())
	quota, err := s.repo.QuotaForDay(ctx, userID, today, s.cfg.DailyMatchLimit)
	if err != nil {
		return nil, err
	}
	if quota.ReachedLimit() {
		resetsAt := today.AddDate(0, 0, 1)
		return &DailyMatchesResponse{
			Matches:           []*MatchRecommendation{},
			Remaining:         0,
			DailyLimitReached: true,
			ResetsAt:          &resetsAt,
		}, nil
	}

	limit := quota.Remaining()
	shown := quota.ShownSet()

	recommendations := s.matchesFromAI(ctx, userID, limit, shown)
	if recommendations == nil {
		fallbackActivationsTotal.WithLabelValues("daily").Inc()
		recommendations, err = s.matchesFromLocalRanking(ctx, userID, limit, shown)
		if err != nil {
			return nil, err
		}
	}

	s.augmentRecommendations(ctx, userID, recommendations)

	shownIDs := make([]int64, 0, len(recommendations))
	for _, rec := range recommendations {
		shownIDs = append(shownIDs, rec.UserID)
	}
	if err := s.repo.RecordShown(ctx, quota.ID, shownIDs); err != nil {
		if err == ErrQuotaExceeded {
			resetsAt := today.AddDate(0, 0, 1)
			return &DailyMatchesResponse{
				Matches:           []*MatchRecommendation{},
				Remaining:         0,
				DailyLimitReached: true,
				ResetsAt:          &resetsAt,
			}, nil
		}
		return nil, err
	}

	matchesServedTotal.Add(float64(len(recommendations)))

	return &DailyMatchesResponse{
		Matches:   recommendations,
		Remaining: limit - len(recommendations),
	}, nil
}

// matchesFromAI asks the external matchmaker for today's candidates.
// A nil return means the caller should fall back to local ranking; an
// empty slice is a valid "no candidates" answer.
func (s *service) matchesFromAI(ctx context.Context, userID int64, limit int, shown map[int64]bool) []*MatchRecommendation {
	if s.ai == nil {
		return nil
	}

	candidates, err := s.ai.DailyCandidates(ctx, userID, limit)
	if err != nil {
		log.Printf("matchmaker unavailable for user %d, using local ranking: %v", userID, err)
		return nil
	}

	recommendations := make([]*MatchRecommendation, 0, len(candidates))
	for _, candidate := range candidates {
		if len(recommendations) >= limit {
			break
		}
		if candidate.UserID == userID || shown[candidate.UserID] {
			continue
		}

		rec := &MatchRecommendation{
			UserID:             candidate.UserID,
			UserUUID:           candidate.UserUUID,
			CompatibilityScore: candidate.CompatibilityScore,
			Reason:             candidate.Reason,
		}
		if candidate.EnemyScore != nil {
			rec.EnemyScore = *candidate.EnemyScore
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations
}

// matchesFromLocalRanking serves the day from stored pair scores,
// ranked by overall score and filtered by the user's location
// preferences.
func (s *service) matchesFromLocalRanking(ctx context.Context, userID int64, limit int, shown map[int64]bool) ([]*MatchRecommendation, error) {
	scores, err := s.repo.RankedPairScores(ctx, userID, s.cfg.MinimumCompatibility, limit*rankedFetchMultiple)
	if err != nil {
		return nil, err
	}

	prefs, err := s.travel.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommendations := make([]*MatchRecommendation, 0, limit)
	for _, score := range scores {
		if len(recommendations) >= limit {
			break
		}
		if score.UserBID == userID || shown[score.UserBID] {
			continue
		}

		travel, err := s.travel.TravelTime(ctx, userID, score.UserBID)
		if err != nil {
			log.Printf("travel estimate failed for pair (%d, %d): %v", userID, score.UserBID, err)
			travel = nil
		}
		if !passesLocationFilter(prefs, travel, score.OverallScore) {
			continue
		}

		recommendations = append(recommendations, &MatchRecommendation{
			UserID:             score.UserBID,
			CompatibilityScore: score.OverallScore,
			EnemyScore:         score.EnemyScore,
			TravelTime:         travel,
		})
	}

	return recommendations, nil
}

// passesLocationFilter applies the user's travel and overlap
// preferences. An exceptional score bypasses both checks when the user
// allows it; unknown travel times are never filtered.
func passesLocationFilter(prefs *location.Preferences, travel *location.TravelTimeInfo, score float64) bool {
	if prefs == nil || travel == nil {
		return true
	}

	exceptional := prefs.ShowExceptionalMatches && score >= prefs.ExceptionalMatchThreshold*100

	if prefs.RequireAreaOverlap && !travel.HasOverlappingAreas && !exceptional {
		return false
	}

	if travel.Minutes >= 0 && travel.Minutes > prefs.MaxTravelMinutes && !exceptional {
		return false
	}

	return true
}

// augmentRecommendations fills in account details, travel estimates,
// the importance-weighted match percentage, and the per-category
// breakdown with its derived conversation hints. Each enrichment is
// best-effort; a failure leaves its field empty rather than dropping
// the recommendation.
func (s *service) augmentRecommendations(ctx context.Context, userID int64, recommendations []*MatchRecommendation) {
	for _, rec := range recommendations {
		if user, err := s.repo.UserSnapshot(ctx, rec.UserID); err == nil {
			rec.UserUUID = user.UUID
			rec.DisplayName = user.DisplayName
			rec.Gender = user.Gender
			rec.Age = user.Age
			rec.Interests = user.Interests
		}

		if rec.TravelTime == nil {
			if travel, err := s.travel.TravelTime(ctx, userID, rec.UserID); err == nil {
				rec.TravelTime = travel
			}
		}

		explanation, err := s.profiles.MatchExplanation(ctx, userID, rec.UserID)
		if err != nil || explanation.Match == nil {
			log.Printf("match percentage unavailable for pair (%d, %d): %v", userID, rec.UserID, err)
			continue
		}

		match := explanation.Match
		rec.MatchPercentage = &match.MatchPercentage
		rec.HasEnoughData = match.HasEnoughData
		rec.CategoryBreakdown = explanation.CategoryBreakdown
		rec.TopCompatibilityAreas = topBreakdownAreas(explanation.CategoryBreakdown)
		rec.AreasToDiscuss = breakdownAreasToDiscuss(explanation.CategoryBreakdown)
		rec.MatchInsight = matchInsight(match)
		matchPercentages.Observe(match.MatchPercentage)
	}
}

// midnight truncates to the start of the local calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
