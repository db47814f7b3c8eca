// internal/intake/models.go

package intake

import "time"

// Step is one stage of the onboarding flow. Steps complete in order:
// questions, then video introduction, then photos.
type Step string

const (
	StepQuestions Step = "QUESTIONS"
	StepVideo     Step = "VIDEO"
	StepPhotos    Step = "PHOTOS"
)

// Progress tracks a user's path through intake. The media steps are
// recorded here when the upload systems report completion; this
// package only cares about the resulting booleans.
type Progress struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	QuestionsComplete  bool `json:"questions_complete" db:"questions_complete"`
	VideoIntroComplete bool `json:"video_intro_complete" db:"video_intro_complete"`
	PhotosComplete     bool `json:"photos_complete" db:"photos_complete"`
	IntakeComplete     bool `json:"intake_complete" db:"intake_complete"`

	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// recalculate refreshes the overall flag from the step flags.
func (p *Progress) recalculate() {
	complete := p.QuestionsComplete && p.VideoIntroComplete && p.PhotosComplete
	if complete && !p.IntakeComplete {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.IntakeComplete = complete
}
