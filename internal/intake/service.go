// internal/intake/service.go
// Intake completion gate consumed by the recommendation pipeline.
// Steps complete strictly in order: questions, video, photos.

package intake

import (
	"context"
	"errors"
)

var (
	ErrProgressNotFound = errors.New("intake progress not found")
	ErrStepOutOfOrder   = errors.New("previous intake step not complete")
	ErrUnknownStep      = errors.New("unknown intake step")
)

type Service interface {
	IsIntakeComplete(ctx context.Context, userID int64) (bool, error)
	Progress(ctx context.Context, userID int64) (*Progress, error)
	CompleteStep(ctx context.Context, userID int64, step Step) (*Progress, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) IsIntakeComplete(ctx context.Context, userID int64) (bool, error) {
	progress, err := s.repo.ProgressByUser(ctx, userID)
	if err == ErrProgressNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return progress.IntakeComplete, nil
}

func (s *service) Progress(ctx context.Context, userID int64) (*Progress, error) {
	progress, err := s.repo.ProgressByUser(ctx, userID)
	if err == ErrProgressNotFound {
		progress = &Progress{UserID: userID}
		if err := s.repo.SaveProgress(ctx, progress); err != nil {
			return nil, err
		}
		return progress, nil
	}
	return progress, err
}

func (s *service) CompleteStep(ctx context.Context, userID int64, step Step) (*Progress, error) {
	progress, err := s.Progress(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch step {
	case StepQuestions:
		progress.QuestionsComplete = true
	case StepVideo:
		if !progress.QuestionsComplete {
			return nil, ErrStepOutOfOrder
		}
		progress.VideoIntroComplete = true
	case StepPhotos:
		if !progress.VideoIntroComplete {
			return nil, ErrStepOutOfOrder
		}
		progress.PhotosComplete = true
	default:
		return nil, ErrUnknownStep
	}

	progress.recalculate()

	if err := s.repo.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	return progress, nil
}
