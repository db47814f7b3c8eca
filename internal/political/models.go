// internal/political/models.go

package political

import "time"

// GateStatus is where a user stands in the values-gate flow. Matching
// is only reachable from APPROVED.
type GateStatus string

const (
	GatePendingAssessment GateStatus = "PENDING_ASSESSMENT"
	GateApproved          GateStatus = "APPROVED"
	GateUnderReview       GateStatus = "UNDER_REVIEW"
	GateRejected          GateStatus = "REJECTED"
)

// Orientation is a coarse political self-placement. Ordinal distance
// between two orientations feeds the enemy-score political factor.
type Orientation string

const (
	OrientationFarLeft  Orientation = "FAR_LEFT"
	OrientationLeft     Orientation = "LEFT"
	OrientationCenter   Orientation = "CENTER"
	OrientationRight    Orientation = "RIGHT"
	OrientationFarRight Orientation = "FAR_RIGHT"
)

var orientationOrdinals = map[Orientation]int{
	OrientationFarLeft:  0,
	OrientationLeft:     1,
	OrientationCenter:   2,
	OrientationRight:    3,
	OrientationFarRight: 4,
}

// MaxOrdinalDistance is the spread of the orientation scale.
const MaxOrdinalDistance = 4

// Ordinal returns the orientation's position on the scale, or -1 for
// an unknown value.
func (o Orientation) Ordinal() int {
	if n, ok := orientationOrdinals[o]; ok {
		return n
	}
	return -1
}

// Assessment holds one user's values assessment. The six view fields
// are 1-5 answers; EconomicValuesScore is their rescaled mean (0-100).
type Assessment struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	Orientation *Orientation `json:"orientation,omitempty" db:"orientation"`

	WealthRedistributionView *int `json:"wealth_redistribution_view,omitempty" db:"wealth_redistribution_view"`
	WorkerOwnershipView      *int `json:"worker_ownership_view,omitempty" db:"worker_ownership_view"`
	UniversalServicesView    *int `json:"universal_services_view,omitempty" db:"universal_services_view"`
	HousingRightsView        *int `json:"housing_rights_view,omitempty" db:"housing_rights_view"`
	WealthConcentrationView  *int `json:"wealth_concentration_view,omitempty" db:"wealth_concentration_view"`
	MeritocracyBeliefView    *int `json:"meritocracy_belief_view,omitempty" db:"meritocracy_belief_view"`

	EconomicValuesScore *float64   `json:"economic_values_score,omitempty" db:"economic_values_score"`
	GateStatus          GateStatus `json:"gate_status" db:"gate_status"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Snapshot is the slice of assessment data the enemy-score calculator
// consumes: the economic score and the orientation's ordinal.
type Snapshot struct {
	EconomicValuesScore *float64
	OrientationOrdinal  int // -1 when unset
}

// computeEconomicScore averages the answered view fields and rescales
// from [1,5] to [0,100]. Nil when nothing is answered.
func (a *Assessment) computeEconomicScore() *float64 {
	views := []*int{
		a.WealthRedistributionView,
		a.WorkerOwnershipView,
		a.UniversalServicesView,
		a.HousingRightsView,
		a.WealthConcentrationView,
		a.MeritocracyBeliefView,
	}

	var sum float64
	var n int
	for _, v := range views {
		if v != nil {
			sum += float64(*v)
			n++
		}
	}
	if n == 0 {
		return nil
	}

	score := (sum/float64(n) - 1) * 25
	return &score
}
