package political

// SubmitAssessmentDTO carries the values-assessment answers. Views are
// 1-5 agreement answers.
type SubmitAssessmentDTO struct {
	Orientation              *string `json:"orientation,omitempty" validate:"omitempty,oneof=FAR_LEFT LEFT CENTER RIGHT FAR_RIGHT"`
	WealthRedistributionView *int    `json:"wealth_redistribution_view,omitempty" validate:"omitempty,min=1,max=5"`
	WorkerOwnershipView      *int    `json:"worker_ownership_view,omitempty" validate:"omitempty,min=1,max=5"`
	UniversalServicesView    *int    `json:"universal_services_view,omitempty" validate:"omitempty,min=1,max=5"`
	HousingRightsView        *int    `json:"housing_rights_view,omitempty" validate:"omitempty,min=1,max=5"`
	WealthConcentrationView  *int    `json:"wealth_concentration_view,omitempty" validate:"omitempty,min=1,max=5"`
	MeritocracyBeliefView    *int    `json:"meritocracy_belief_view,omitempty" validate:"omitempty,min=1,max=5"`
}
