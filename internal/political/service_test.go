package political

import (
	"context"
	"testing"
)

type fakeRepository struct {
	assessments map[int64]*Assessment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{assessments: make(map[int64]*Assessment)}
}

func (f *fakeRepository) AssessmentByUser(_ context.Context, userID int64) (*Assessment, error) {
	a, ok := f.assessments[userID]
	if !ok {
		return nil, ErrAssessmentNotFound
	}
	return a, nil
}

func (f *fakeRepository) SaveAssessment(_ context.Context, a *Assessment) error {
	f.assessments[a.UserID] = a
	return nil
}

func intptr(n int) *int       { return &n }
func strptr(s string) *string { return &s }
func fptr(v float64) *float64 { return &v }

func TestSubmitAssessmentApprovesCompleteSubmission(t *testing.T) {
	svc := NewService(newFakeRepository())

	assessment, err := svc.SubmitAssessment(context.Background(), 1, &SubmitAssessmentDTO{
		Orientation:              strptr("LEFT"),
		WealthRedistributionView: intptr(5),
		WorkerOwnershipView:      intptr(3),
	})
	if err != nil {
		t.Fatalf("SubmitAssessment: %v", err)
	}

	if assessment.GateStatus != GateApproved {
		t.Fatalf("gate status = %s, want APPROVED", assessment.GateStatus)
	}
	// Mean of 5 and 3 is 4, rescaled to 75.
	if assessment.EconomicValuesScore == nil || *assessment.EconomicValuesScore != 75 {
		t.Fatalf("economic score = %v, want 75", assessment.EconomicValuesScore)
	}

	ok, err := svc.CanAccessMatching(context.Background(), 1)
	if err != nil || !ok {
		t.Fatalf("CanAccessMatching = %v, %v, want true", ok, err)
	}
}

func TestCanAccessMatchingWithoutAssessment(t *testing.T) {
	svc := NewService(newFakeRepository())

	ok, err := svc.CanAccessMatching(context.Background(), 42)
	if err != nil {
		t.Fatalf("CanAccessMatching: %v", err)
	}
	if ok {
		t.Fatalf("user without assessment can access matching")
	}

	msg, err := svc.GateStatusMessage(context.Background(), 42)
	if err != nil || msg == "" {
		t.Fatalf("GateStatusMessage = %q, %v", msg, err)
	}
}

func TestEconomicCompatibility(t *testing.T) {
	repo := newFakeRepository()
	repo.assessments[1] = &Assessment{UserID: 1, EconomicValuesScore: fptr(80), GateStatus: GateApproved}
	repo.assessments[2] = &Assessment{UserID: 2, EconomicValuesScore: fptr(30), GateStatus: GateApproved}
	svc := NewService(repo)

	got, err := svc.EconomicCompatibility(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("EconomicCompatibility: %v", err)
	}
	if got != 50 {
		t.Fatalf("compatibility = %v, want 50", got)
	}
}

func TestEconomicCompatibilityNeutralWhenUnassessed(t *testing.T) {
	repo := newFakeRepository()
	repo.assessments[1] = &Assessment{UserID: 1, EconomicValuesScore: fptr(80), GateStatus: GateApproved}
	svc := NewService(repo)

	got, err := svc.EconomicCompatibility(context.Background(), 1, 99)
	if err != nil {
		t.Fatalf("EconomicCompatibility: %v", err)
	}
	if got != neutralEconomicCompatibility {
		t.Fatalf("compatibility = %v, want neutral %v", got, neutralEconomicCompatibility)
	}
}

func TestSnapshotOrdinal(t *testing.T) {
	repo := newFakeRepository()
	orientation := OrientationFarRight
	repo.assessments[1] = &Assessment{UserID: 1, Orientation: &orientation}
	svc := NewService(repo)

	snap, err := svc.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.OrientationOrdinal != 4 {
		t.Fatalf("ordinal = %d, want 4", snap.OrientationOrdinal)
	}

	missing, err := svc.Snapshot(context.Background(), 2)
	if err != nil {
		t.Fatalf("Snapshot missing: %v", err)
	}
	if missing.OrientationOrdinal != -1 || missing.EconomicValuesScore != nil {
		t.Fatalf("missing snapshot = %+v, want empty", missing)
	}
}
