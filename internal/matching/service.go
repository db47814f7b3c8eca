// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/aura-collective/aura-backend/internal/assessment"
	"github.com/aura-collective/aura-backend/internal/config"
	"github.com/aura-collective/aura-backend/internal/location"
	"github.com/aura-collective/aura-backend/internal/political"
)

var (
	ErrScoreNotFound = errors.New("pair score not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrQuotaExceeded = errors.New("daily match quota exceeded")
	ErrInvalidUUID   = errors.New("invalid user uuid")
	ErrSelfMatch     = errors.New("cannot match a user with themselves")
)

// ProfileProvider is the slice of the assessment service the matcher
// needs. Satisfied by assessment.Service.
type ProfileProvider interface {
	Profile(ctx context.Context, userID int64) (*assessment.Profile, error)
	MatchExplanation(ctx context.Context, userA, userB int64) (*assessment.MatchExplanation, error)
}

// IntakeGate reports onboarding completion. Satisfied by intake.Service.
type IntakeGate interface {
	IsIntakeComplete(ctx context.Context, userID int64) (bool, error)
}

// ValuesGate is the slice of the political assessment service the
// matcher needs. Satisfied by political.Service.
type ValuesGate interface {
	CanAccessMatching(ctx context.Context, userID int64) (bool, error)
	GateStatusMessage(ctx context.Context, userID int64) (string, error)
	EconomicCompatibility(ctx context.Context, userA, userB int64) (float64, error)
	Snapshot(ctx context.Context, userID int64) (*political.Snapshot, error)
}

// TravelEstimator is the slice of the location service the matcher
// needs. Satisfied by location.Service.
type TravelEstimator interface {
	TravelTime(ctx context.Context, userA, userB int64) (*location.TravelTimeInfo, error)
	Preferences(ctx context.Context, userID int64) (*location.Preferences, error)
}

type Service interface {
	// Compatibility returns the cached pair score for requester and
	// target, computing and storing it on first access.
	Compatibility(ctx context.Context, userA, userB int64) (*PairScore, error)
	CompatibilityByUUID(ctx context.Context, userA int64, targetUUID string) (*CompatibilityResponse, error)

	// DailyMatches runs the gated daily recommendation pipeline.
	DailyMatches(ctx context.Context, userID int64) (*DailyMatchesResponse, error)

	// InvalidateUser drops every stored score involving the user so the
	// next request recomputes against current profile data.
	InvalidateUser(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	repo     Repository
	cache    pairScoreCache
	ai       AIClient
	profiles ProfileProvider
	intake   IntakeGate
	values   ValuesGate
	travel   TravelEstimator
	cfg      *config.Config

	now func() time.Time
}

func NewService(
	repo Repository,
	redisClient *redis.Client,
	ai AIClient,
	profiles ProfileProvider,
	intakeGate IntakeGate,
	valuesGate ValuesGate,
	travel TravelEstimator,
	cfg *config.Config,
) Service {
	return &service{
		repo:     repo,
		cache:    newScoreCache(redisClient, cfg.PairScoreMaxAgeDays),
		ai:       ai,
		profiles: profiles,
		intake:   intakeGate,
		values:   valuesGate,
		travel:   travel,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *service) Compatibility(ctx context.Context, userA, userB int64) (*PairScore, error) {
	if userA == userB {
		return nil, ErrSelfMatch
	}

	if cached := s.cache.Get(ctx, userA, userB); cached != nil && !s.stale(cached) {
		return cached, nil
	}

	stored, err := s.repo.PairScore(ctx, userA, userB)
	if err == nil && !s.stale(stored) {
		s.cache.Set(ctx, stored)
		return stored, nil
	}
	if err != nil && err != ErrScoreNotFound {
		return nil, err
	}
	if err == nil {
		// Stale row: drop it so the fresh score can be stored.
		if delErr := s.repo.DeletePairScore(ctx, userA, userB); delErr != nil {
			return nil, delErr
		}
		s.cache.Delete(ctx, userA, userB)
	}

	score, err := s.computeScore(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	score.UserAID = userA
	score.UserBID = userB

	saved, err := s.repo.SavePairScore(ctx, score)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, saved)
	compatibilityScores.Observe(saved.OverallScore)
	return saved, nil
}

func (s *service) CompatibilityByUUID(ctx context.Context, userA int64, targetUUID string) (*CompatibilityResponse, error) {
	if _, err := uuid.Parse(targetUUID); err != nil {
		return nil, ErrInvalidUUID
	}

	target, err := s.repo.UserByUUID(ctx, targetUUID)
	if err != nil {
		return nil, err
	}

	score, err := s.Compatibility(ctx, userA, target.ID)
	if err != nil {
		return nil, err
	}

	return &CompatibilityResponse{
		UserUUID:    target.UUID,
		Score:       score,
		Explanation: BuildExplanation(score),
	}, nil
}

func (s *service) InvalidateUser(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.repo.DeletePairScoresForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	// The cache holds the same pairs; leaving them behind would keep
	// serving the score the delete just invalidated.
	for _, ref := range deleted {
		s.cache.Delete(ctx, ref.UserAID, ref.UserBID)
	}

	return int64(len(deleted)), nil
}

// computeScore prefers the external scorer and falls back to the local
// algorithm on any failure.
func (s *service) computeScore(ctx context.Context, userA, userB int64) (*PairScore, error) {
	profA := s.loadProfile(ctx, userA)
	profB := s.loadProfile(ctx, userB)
	snapA := s.loadSnapshot(ctx, userA)
	snapB := s.loadSnapshot(ctx, userB)

	if s.ai != nil {
		payloadA := NewProfilePayload(s.loadUser(ctx, userA), profA, snapA)
		payloadB := NewProfilePayload(s.loadUser(ctx, userB), profB, snapB)

		score, err := s.ai.CalculateScore(ctx, payloadA, payloadB)
		if err == nil {
			return score, nil
		}
		log.Printf("scoring service unavailable for pair (%d, %d), using local fallback: %v", userA, userB, err)
		fallbackActivationsTotal.WithLabelValues("compatibility").Inc()
	}

	econ, err := s.values.EconomicCompatibility(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	return computeLocalScore(profA, profB, econ, snapA, snapB), nil
}

func (s *service) stale(score *PairScore) bool {
	if s.cfg.PairScoreMaxAgeDays <= 0 {
		return false
	}
	maxAge := time.Duration(s.cfg.PairScoreMaxAgeDays) * 24 * time.Hour
	return s.now().Sub(score.CalculatedAt) > maxAge
}

// loadProfile treats a missing assessment profile as nil rather than
// an error; the scorers handle nil sides.
func (s *service) loadProfile(ctx context.Context, userID int64) *assessment.Profile {
	profile, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		if err != assessment.ErrProfileNotFound {
			log.Printf("failed to load assessment profile for user %d: %v", userID, err)
		}
		return nil
	}
	return profile
}

func (s *service) loadSnapshot(ctx context.Context, userID int64) *political.Snapshot {
	snap, err := s.values.Snapshot(ctx, userID)
	if err != nil {
		log.Printf("failed to load values snapshot for user %d: %v", userID, err)
		return nil
	}
	return snap
}

func (s *service) loadUser(ctx context.Context, userID int64) *UserSnapshot {
	user, err := s.repo.UserSnapshot(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}
