// internal/assessment/dto.go

package assessment

// SubmitResponseDTO is one answer in a submission batch. QuestionID is
// the question's external id from the bank file.
type SubmitResponseDTO struct {
	QuestionID      string  `json:"question_id" validate:"required"`
	NumericResponse *int    `json:"numeric_response,omitempty" validate:"omitempty,min=0,max=5"`
	TextResponse    *string `json:"text_response,omitempty" validate:"omitempty,max=2000"`
	Importance      *string `json:"importance,omitempty" validate:"omitempty,oneof=irrelevant a_little somewhat very mandatory"`
}

// SubmitResponsesDTO is the request body for a submission batch.
type SubmitResponsesDTO struct {
	Responses []*SubmitResponseDTO `json:"responses" validate:"required,min=1,dive"`
}

// SubmitResult reports what a submission changed.
type SubmitResult struct {
	SavedQuestions  int  `json:"saved_questions"`
	ProfileComplete bool `json:"profile_complete"`
}

// CategoryProgress is one category's answered/total standing.
type CategoryProgress struct {
	DisplayName string  `json:"display_name"`
	Total       int     `json:"total"`
	Answered    int     `json:"answered"`
	Percentage  float64 `json:"percentage"`
	Complete    bool    `json:"complete"`
}

// ProgressReport covers every category plus the overall flag.
type ProgressReport struct {
	Categories      map[Category]*CategoryProgress `json:"categories"`
	ProfileComplete bool                           `json:"profile_complete"`
}

// ResultsReport returns the aggregated profile with flag names spelled
// out for the client.
type ResultsReport struct {
	Profile          *Profile `json:"profile"`
	DealbreakerFlags []string `json:"dealbreaker_flags,omitempty"`
	ProfileComplete  bool     `json:"profile_complete"`
}

// MatchExplanation is the match result plus a per-category breakdown
// keyed by display name.
type MatchExplanation struct {
	Match             *MatchResult       `json:"match"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
}
