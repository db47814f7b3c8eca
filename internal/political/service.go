// internal/political/service.go
// Values gate consulted by the recommendation pipeline, plus the
// economic-compatibility fallback used when comprehensive values data
// is missing for either user in a pair.

package political

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	ErrAssessmentNotFound = errors.New("political assessment not found")
	ErrInvalidOrientation = errors.New("unknown political orientation")
)

// Pairs with no economic data on either side score neutral.
const neutralEconomicCompatibility = 50.0

type Service interface {
	SubmitAssessment(ctx context.Context, userID int64, dto *SubmitAssessmentDTO) (*Assessment, error)
	AssessmentByUser(ctx context.Context, userID int64) (*Assessment, error)

	// Gate contract consumed by the matching pipeline.
	CanAccessMatching(ctx context.Context, userID int64) (bool, error)
	GateStatusMessage(ctx context.Context, userID int64) (string, error)

	// Scoring contracts consumed by the pairwise calculator.
	EconomicCompatibility(ctx context.Context, userA, userB int64) (float64, error)
	Snapshot(ctx context.Context, userID int64) (*Snapshot, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SubmitAssessment(ctx context.Context, userID int64, dto *SubmitAssessmentDTO) (*Assessment, error) {
	assessment, err := s.repo.AssessmentByUser(ctx, userID)
	if err == ErrAssessmentNotFound {
		assessment = &Assessment{UserID: userID, GateStatus: GatePendingAssessment}
	} else if err != nil {
		return nil, err
	}

	if dto.Orientation != nil {
		o := Orientation(*dto.Orientation)
		if o.Ordinal() < 0 {
			return nil, ErrInvalidOrientation
		}
		assessment.Orientation = &o
	}

	assessment.WealthRedistributionView = dto.WealthRedistributionView
	assessment.WorkerOwnershipView = dto.WorkerOwnershipView
	assessment.UniversalServicesView = dto.UniversalServicesView
	assessment.HousingRightsView = dto.HousingRightsView
	assessment.WealthConcentrationView = dto.WealthConcentrationView
	assessment.MeritocracyBeliefView = dto.MeritocracyBeliefView

	assessment.EconomicValuesScore = assessment.computeEconomicScore()

	if assessment.EconomicValuesScore != nil && assessment.Orientation != nil {
		now := time.Now()
		assessment.CompletedAt = &now
		assessment.GateStatus = GateApproved
	}

	if err := s.repo.SaveAssessment(ctx, assessment); err != nil {
		return nil, err
	}

	return assessment, nil
}

func (s *service) AssessmentByUser(ctx context.Context, userID int64) (*Assessment, error) {
	return s.repo.AssessmentByUser(ctx, userID)
}

func (s *service) CanAccessMatching(ctx context.Context, userID int64) (bool, error) {
	assessment, err := s.repo.AssessmentByUser(ctx, userID)
	if err == ErrAssessmentNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return assessment.GateStatus == GateApproved, nil
}

func (s *service) GateStatusMessage(ctx context.Context, userID int64) (string, error) {
	assessment, err := s.repo.AssessmentByUser(ctx, userID)
	if err == ErrAssessmentNotFound {
		return "Please complete the values assessment to access matching.", nil
	}
	if err != nil {
		return "", err
	}

	switch assessment.GateStatus {
	case GatePendingAssessment:
		return "Please complete the values assessment.", nil
	case GateApproved:
		return "Your profile is approved for matching.", nil
	case GateUnderReview:
		return "Your values assessment is under review. Please check back later.", nil
	case GateRejected:
		return "Your values assessment did not meet the requirements for matching.", nil
	}
	return "Please complete the values assessment.", nil
}

// EconomicCompatibility is 100 minus the absolute difference of the
// two economic scores; neutral 50 when either side is unassessed.
func (s *service) EconomicCompatibility(ctx context.Context, userA, userB int64) (float64, error) {
	snapA, err := s.Snapshot(ctx, userA)
	if err != nil {
		return 0, err
	}
	snapB, err := s.Snapshot(ctx, userB)
	if err != nil {
		return 0, err
	}

	if snapA.EconomicValuesScore == nil || snapB.EconomicValuesScore == nil {
		return neutralEconomicCompatibility, nil
	}

	return 100 - math.Abs(*snapA.EconomicValuesScore-*snapB.EconomicValuesScore), nil
}

func (s *service) Snapshot(ctx context.Context, userID int64) (*Snapshot, error) {
	assessment, err := s.repo.AssessmentByUser(ctx, userID)
	if err == ErrAssessmentNotFound {
		return &Snapshot{OrientationOrdinal: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		EconomicValuesScore: assessment.EconomicValuesScore,
		OrientationOrdinal:  -1,
	}
	if assessment.Orientation != nil {
		snap.OrientationOrdinal = assessment.Orientation.Ordinal()
	}

	return snap, nil
}
