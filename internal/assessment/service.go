// internal/assessment/service.go

package assessment

import (
	"context"
	"errors"
	"log"
)

var (
	ErrQuestionNotFound = errors.New("assessment question not found")
	ErrProfileNotFound  = errors.New("assessment profile not found")
	ErrInvalidCategory  = errors.New("unknown assessment category")
	ErrInvalidResponse  = errors.New("response does not match the question's scale")
)

type Service interface {
	// Question bank
	LoadQuestionBank(ctx context.Context) (int, error)
	QuestionsByCategory(ctx context.Context, category string) ([]*Question, error)

	// Answers
	SubmitResponses(ctx context.Context, userID int64, submissions []*SubmitResponseDTO) (*SubmitResult, error)
	ResetCategory(ctx context.Context, userID int64, category string) (*Profile, error)

	// Reads
	Progress(ctx context.Context, userID int64) (*ProgressReport, error)
	Results(ctx context.Context, userID int64) (*ResultsReport, error)
	Profile(ctx context.Context, userID int64) (*Profile, error)
	Answers(ctx context.Context, userID int64) ([]*Answer, error)

	// Pairwise
	Match(ctx context.Context, userA, userB int64) (*MatchResult, error)
	MatchExplanation(ctx context.Context, userA, userB int64) (*MatchExplanation, error)
}

type service struct {
	repo       Repository
	loader     *Loader
	aggregator *Aggregator
	matcher    *MatchCalculator
	table      map[Category]CategoryInfo
}

func NewService(repo Repository, questionBankPath string, cfg Config) Service {
	table := NewCategoryTable(cfg)
	return &service{
		repo:       repo,
		loader:     NewLoader(repo, questionBankPath),
		aggregator: NewAggregator(repo, table),
		matcher:    NewMatchCalculator(repo),
		table:      table,
	}
}

func (s *service) LoadQuestionBank(ctx context.Context) (int, error) {
	return s.loader.Load(ctx)
}

func (s *service) QuestionsByCategory(ctx context.Context, category string) ([]*Question, error) {
	cat, ok := ValidCategory(category)
	if !ok {
		return nil, ErrInvalidCategory
	}
	return s.repo.QuestionsByCategory(ctx, cat)
}

func (s *service) SubmitResponses(ctx context.Context, userID int64, submissions []*SubmitResponseDTO) (*SubmitResult, error) {
	saved := 0

	for _, sub := range submissions {
		question, err := s.repo.QuestionByExternalID(ctx, sub.QuestionID)
		if err == ErrQuestionNotFound {
			log.Printf("Question not found: %s", sub.QuestionID)
			continue
		}
		if err != nil {
			return nil, err
		}

		resp := &Response{
			UserID:     userID,
			QuestionID: question.ID,
			Category:   question.Category,
			Importance: sub.Importance,
		}

		// A free-text question never carries a numeric response and
		// vice versa.
		if question.Scale == ScaleFreeText {
			if sub.TextResponse == nil {
				return nil, ErrInvalidResponse
			}
			resp.Text = sub.TextResponse
		} else {
			if sub.NumericResponse == nil {
				return nil, ErrInvalidResponse
			}
			resp.Numeric = sub.NumericResponse
		}

		if err := s.repo.UpsertResponse(ctx, resp); err != nil {
			return nil, err
		}
		saved++
	}

	profile, err := s.aggregator.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		SavedQuestions:  saved,
		ProfileComplete: profile.ProfileComplete,
	}, nil
}

func (s *service) ResetCategory(ctx context.Context, userID int64, category string) (*Profile, error) {
	cat, ok := ValidCategory(category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	if err := s.repo.DeleteResponsesByCategory(ctx, userID, cat); err != nil {
		return nil, err
	}

	return s.aggregator.Recompute(ctx, userID)
}

func (s *service) Progress(ctx context.Context, userID int64) (*ProgressReport, error) {
	profile, err := s.repo.ProfileByUser(ctx, userID)
	if err != nil && err != ErrProfileNotFound {
		return nil, err
	}

	report := &ProgressReport{
		Categories: make(map[Category]*CategoryProgress, len(Categories)),
	}

	for _, category := range Categories {
		total, err := s.repo.CountQuestionsByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		answered, err := s.repo.CountResponsesByCategory(ctx, userID, category)
		if err != nil {
			return nil, err
		}

		percentage := 0.0
		if total > 0 {
			percentage = float64(answered) * 100.0 / float64(total)
		}

		report.Categories[category] = &CategoryProgress{
			DisplayName: s.table[category].DisplayName,
			Total:       total,
			Answered:    answered,
			Percentage:  roundTenth(percentage),
			Complete:    categoryComplete(profile, category, s.table),
		}
	}

	report.ProfileComplete = profile != nil && profile.ProfileComplete

	return report, nil
}

func (s *service) Results(ctx context.Context, userID int64) (*ResultsReport, error) {
	profile, err := s.repo.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ResultsReport{
		Profile:         profile,
		ProfileComplete: profile.ProfileComplete,
	}
	if profile.DealbreakerComplete {
		report.DealbreakerFlags = profile.DealbreakerFlags.Names()
	}

	return report, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.ProfileByUser(ctx, userID)
}

func (s *service) Answers(ctx context.Context, userID int64) ([]*Answer, error) {
	return s.repo.AnswersByUser(ctx, userID)
}

func (s *service) Match(ctx context.Context, userA, userB int64) (*MatchResult, error) {
	return s.matcher.Match(ctx, userA, userB)
}

func (s *service) MatchExplanation(ctx context.Context, userA, userB int64) (*MatchExplanation, error) {
	match, err := s.matcher.Match(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.matcher.Breakdown(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	named := make(map[string]float64, len(breakdown))
	for category, score := range breakdown {
		named[s.table[category].DisplayName] = score
	}

	return &MatchExplanation{
		Match:             match,
		CategoryBreakdown: named,
	}, nil
}

// categoryComplete consults the profile's completion flags through the
// category table. The optional reflection category is always complete.
func categoryComplete(profile *Profile, category Category, table map[Category]CategoryInfo) bool {
	if table[category].Optional {
		return true
	}
	if profile == nil {
		return false
	}

	switch category {
	case CategoryBigFive:
		return profile.BigFiveComplete
	case CategoryAttachment:
		return profile.AttachmentComplete
	case CategoryValues:
		return profile.ValuesComplete
	case CategoryDealbreaker:
		return profile.DealbreakerComplete
	case CategoryLifestyle:
		return profile.LifestyleComplete
	}
	return false
}
