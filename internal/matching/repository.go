// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository is the persistence contract for pair scores, daily
// quotas, and the user snapshots the pipeline needs.
type Repository interface {
	// Pair scores
	PairScore(ctx context.Context, userA, userB int64) (*PairScore, error)
	SavePairScore(ctx context.Context, score *PairScore) (*PairScore, error)
	RankedPairScores(ctx context.Context, userA int64, minScore float64, limit int) ([]*PairScore, error)
	DeletePairScore(ctx context.Context, userA, userB int64) error
	DeletePairScoresForUser(ctx context.Context, userID int64) ([]PairRef, error)

	// Daily quotas
	QuotaForDay(ctx context.Context, userID int64, day time.Time, limit int) (*DailyQuota, error)
	RecordShown(ctx context.Context, quotaID int64, shownIDs []int64) error

	// Users
	UserSnapshot(ctx context.Context, userID int64) (*UserSnapshot, error)
	UserByUUID(ctx context.Context, userUUID string) (*UserSnapshot, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) PairScore(ctx context.Context, userA, userB int64) (*PairScore, error) {
	var score PairScore
	query := `SELECT * FROM pair_scores WHERE user_a_id = $1 AND user_b_id = $2`

	err := r.db.GetContext(ctx, &score, query, userA, userB)
	if err == sql.ErrNoRows {
		return nil, ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pair score: %w", err)
	}

	return &score, nil
}

// SavePairScore inserts the score if the pair has none yet. On
// conflict the existing row wins and is returned, so concurrent
// computations of the same pair converge on one stored result.
func (r *postgresRepository) SavePairScore(ctx context.Context, score *PairScore) (*PairScore, error) {
	query := `
		INSERT INTO pair_scores (
			user_a_id, user_b_id,
			personality_score, values_score, lifestyle_score,
			attraction_score, circumstantial_score, growth_score,
			overall_score, enemy_score, explanation_json, calculated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
		)
		ON CONFLICT (user_a_id, user_b_id) DO NOTHING
		RETURNING id, calculated_at`

	err := r.db.QueryRowContext(ctx, query,
		score.UserAID, score.UserBID,
		score.PersonalityScore, score.ValuesScore, score.LifestyleScore,
		score.AttractionScore, score.CircumstantialScore, score.GrowthScore,
		score.OverallScore, score.EnemyScore, score.ExplanationJSON,
	).Scan(&score.ID, &score.CalculatedAt)

	if err == sql.ErrNoRows {
		// Another request stored this pair first.
		return r.PairScore(ctx, score.UserAID, score.UserBID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save pair score: %w", err)
	}

	return score, nil
}

func (r *postgresRepository) RankedPairScores(ctx context.Context, userA int64, minScore float64, limit int) ([]*PairScore, error) {
	var scores []*PairScore
	query := `
		SELECT * FROM pair_scores
		WHERE user_a_id = $1 AND overall_score >= $2
		ORDER BY overall_score DESC
		LIMIT $3`

	err := r.db.SelectContext(ctx, &scores, query, userA, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranked pair scores: %w", err)
	}

	return scores, nil
}

// DeletePairScore removes a single stale pair row.
func (r *postgresRepository) DeletePairScore(ctx context.Context, userA, userB int64) error {
	query := `DELETE FROM pair_scores WHERE user_a_id = $1 AND user_b_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userA, userB); err != nil {
		return fmt.Errorf("failed to delete pair score: %w", err)
	}
	return nil
}

// DeletePairScoresForUser removes stored scores in both directions and
// returns the deleted pairs so the caller can purge matching cache
// entries. Called when a profile change invalidates prior computations.
func (r *postgresRepository) DeletePairScoresForUser(ctx context.Context, userID int64) ([]PairRef, error) {
	var deleted []PairRef
	query := `
		DELETE FROM pair_scores
		WHERE user_a_id = $1 OR user_b_id = $1
		RETURNING user_a_id, user_b_id`

	if err := r.db.SelectContext(ctx, &deleted, query, userID); err != nil {
		return nil, fmt.Errorf("failed to delete pair scores: %w", err)
	}

	return deleted, nil
}

// QuotaForDay returns the user's quota row for the given day, creating
// it with a zero count on first access. The unique (user_id, match_date)
// constraint makes concurrent first access converge on one row.
func (r *postgresRepository) QuotaForDay(ctx context.Context, userID int64, day time.Time, limit int) (*DailyQuota, error) {
	insert := `
		INSERT INTO daily_match_quotas (user_id, match_date, matches_shown, match_limit)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id, match_date) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, userID, day, limit); err != nil {
		return nil, fmt.Errorf("failed to create daily quota: %w", err)
	}

	var quota DailyQuota
	query := `SELECT * FROM daily_match_quotas WHERE user_id = $1 AND match_date = $2`
	if err := r.db.GetContext(ctx, &quota, query, userID, day); err != nil {
		return nil, fmt.Errorf("failed to get daily quota: %w", err)
	}

	return &quota, nil
}

// RecordShown appends the newly shown users and bumps the counter
// under a row lock. ErrQuotaExceeded means another request consumed
// the remaining budget first.
func (r *postgresRepository) RecordShown(ctx context.Context, quotaID int64, shownIDs []int64) error {
	if len(shownIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var quota DailyQuota
	query := `SELECT * FROM daily_match_quotas WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &quota, query, quotaID); err != nil {
		return fmt.Errorf("failed to lock daily quota: %w", err)
	}

	if quota.MatchesShown+len(shownIDs) > quota.MatchLimit {
		return ErrQuotaExceeded
	}

	shown := quota.ShownSet()
	merged := make([]int64, 0, len(shown)+len(shownIDs))
	for id := range shown {
		merged = append(merged, id)
	}
	for _, id := range shownIDs {
		if !shown[id] {
			merged = append(merged, id)
		}
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode shown users: %w", err)
	}

	update := `
		UPDATE daily_match_quotas
		SET matches_shown = matches_shown + $1, shown_user_ids = $2, updated_at = NOW()
		WHERE id = $3`
	if _, err := tx.ExecContext(ctx, update, len(shownIDs), string(encoded), quotaID); err != nil {
		return fmt.Errorf("failed to update daily quota: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) UserSnapshot(ctx context.Context, userID int64) (*UserSnapshot, error) {
	var user UserSnapshot
	query := `SELECT id, uuid, display_name, gender, age, interests FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	decodeInterests(&user)
	return &user, nil
}

func (r *postgresRepository) UserByUUID(ctx context.Context, userUUID string) (*UserSnapshot, error) {
	var user UserSnapshot
	query := `SELECT id, uuid, display_name, gender, age, interests FROM users WHERE uuid = $1`

	err := r.db.GetContext(ctx, &user, query, userUUID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	decodeInterests(&user)
	return &user, nil
}

func decodeInterests(user *UserSnapshot) {
	if user.InterestsJSON == nil || *user.InterestsJSON == "" {
		return
	}
	// Malformed rows just lose their interest list.
	_ = json.Unmarshal([]byte(*user.InterestsJSON), &user.Interests)
}
