package intake

import (
	"context"
	"testing"
)

type fakeRepository struct {
	rows map[int64]*Progress
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[int64]*Progress)}
}

func (f *fakeRepository) ProgressByUser(_ context.Context, userID int64) (*Progress, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, ErrProgressNotFound
	}
	return p, nil
}

func (f *fakeRepository) SaveProgress(_ context.Context, p *Progress) error {
	f.rows[p.UserID] = p
	return nil
}

func TestIntakeIncompleteByDefault(t *testing.T) {
	svc := NewService(newFakeRepository())

	complete, err := svc.IsIntakeComplete(context.Background(), 1)
	if err != nil {
		t.Fatalf("IsIntakeComplete: %v", err)
	}
	if complete {
		t.Fatalf("new user reported intake complete")
	}
}

func TestStepsCompleteInOrder(t *testing.T) {
	svc := NewService(newFakeRepository())
	ctx := context.Background()

	if _, err := svc.CompleteStep(ctx, 1, StepVideo); err != ErrStepOutOfOrder {
		t.Fatalf("video before questions: err = %v, want ErrStepOutOfOrder", err)
	}

	if _, err := svc.CompleteStep(ctx, 1, StepQuestions); err != nil {
		t.Fatalf("questions step: %v", err)
	}
	if _, err := svc.CompleteStep(ctx, 1, StepPhotos); err != ErrStepOutOfOrder {
		t.Fatalf("photos before video: err = %v, want ErrStepOutOfOrder", err)
	}
	if _, err := svc.CompleteStep(ctx, 1, StepVideo); err != nil {
		t.Fatalf("video step: %v", err)
	}

	progress, err := svc.CompleteStep(ctx, 1, StepPhotos)
	if err != nil {
		t.Fatalf("photos step: %v", err)
	}

	if !progress.IntakeComplete {
		t.Fatalf("intake not complete after all steps")
	}
	if progress.CompletedAt == nil {
		t.Fatalf("completed_at not stamped")
	}

	complete, err := svc.IsIntakeComplete(ctx, 1)
	if err != nil || !complete {
		t.Fatalf("IsIntakeComplete = %v, %v, want true", complete, err)
	}
}

func TestUnknownStepRejected(t *testing.T) {
	svc := NewService(newFakeRepository())

	if _, err := svc.CompleteStep(context.Background(), 1, Step("SELFIE")); err != ErrUnknownStep {
		t.Fatalf("err = %v, want ErrUnknownStep", err)
	}
}
