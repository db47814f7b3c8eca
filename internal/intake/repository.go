// internal/intake/repository.go

package intake

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	ProgressByUser(ctx context.Context, userID int64) (*Progress, error)
	SaveProgress(ctx context.Context, p *Progress) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ProgressByUser(ctx context.Context, userID int64) (*Progress, error) {
	var p Progress
	query := `SELECT * FROM intake_progress WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) SaveProgress(ctx context.Context, p *Progress) error {
	query := `
        INSERT INTO intake_progress (
            user_id, questions_complete, video_intro_complete,
            photos_complete, intake_complete, completed_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id) DO UPDATE SET
            questions_complete = EXCLUDED.questions_complete,
            video_intro_complete = EXCLUDED.video_intro_complete,
            photos_complete = EXCLUDED.photos_complete,
            intake_complete = EXCLUDED.intake_complete,
            completed_at = EXCLUDED.completed_at
        RETURNING id, started_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.QuestionsComplete, p.VideoIntroComplete,
		p.PhotosComplete, p.IntakeComplete, p.CompletedAt,
	).Scan(&p.ID, &p.StartedAt)
	if err != nil {
		return fmt.Errorf("save intake progress user=%d: %w", p.UserID, err)
	}

	return nil
}
