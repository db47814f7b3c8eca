// internal/political/repository.go

package political

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	AssessmentByUser(ctx context.Context, userID int64) (*Assessment, error)
	SaveAssessment(ctx context.Context, a *Assessment) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AssessmentByUser(ctx context.Context, userID int64) (*Assessment, error) {
	var a Assessment
	query := `SELECT * FROM political_assessments WHERE user_id = $1`

	err := r.db.GetContext(ctx, &a, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *postgresRepository) SaveAssessment(ctx context.Context, a *Assessment) error {
	query := `
        INSERT INTO political_assessments (
            user_id, orientation,
            wealth_redistribution_view, worker_ownership_view,
            universal_services_view, housing_rights_view,
            wealth_concentration_view, meritocracy_belief_view,
            economic_values_score, gate_status, completed_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (user_id) DO UPDATE SET
            orientation = EXCLUDED.orientation,
            wealth_redistribution_view = EXCLUDED.wealth_redistribution_view,
            worker_ownership_view = EXCLUDED.worker_ownership_view,
            universal_services_view = EXCLUDED.universal_services_view,
            housing_rights_view = EXCLUDED.housing_rights_view,
            wealth_concentration_view = EXCLUDED.wealth_concentration_view,
            meritocracy_belief_view = EXCLUDED.meritocracy_belief_view,
            economic_values_score = EXCLUDED.economic_values_score,
            gate_status = EXCLUDED.gate_status,
            completed_at = EXCLUDED.completed_at,
            updated_at = CURRENT_TIMESTAMP
        RETURNING id, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		a.UserID, a.Orientation,
		a.WealthRedistributionView, a.WorkerOwnershipView,
		a.UniversalServicesView, a.HousingRightsView,
		a.WealthConcentrationView, a.MeritocracyBeliefView,
		a.EconomicValuesScore, a.GateStatus, a.CompletedAt,
	).Scan(&a.ID, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save political assessment user=%d: %w", a.UserID, err)
	}

	return nil
}
