// internal/location/repository.go

package location

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	AreasByUser(ctx context.Context, userID int64) ([]*Area, error)
	ReplaceAreas(ctx context.Context, userID int64, areas []*Area) error
	OverlappingCities(ctx context.Context, userA, userB int64) ([]string, error)

	BestCentroid(ctx context.Context, neighborhood *string, city, state string) (*Centroid, error)

	PreferencesByUser(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AreasByUser(ctx context.Context, userID int64) ([]*Area, error) {
	var areas []*Area
	query := `SELECT * FROM user_location_areas WHERE user_id = $1 ORDER BY display_order`

	err := r.db.SelectContext(ctx, &areas, query, userID)
	return areas, err
}

func (r *postgresRepository) ReplaceAreas(ctx context.Context, userID int64, areas []*Area) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_location_areas WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear areas user=%d: %w", userID, err)
	}

	insert := `
        INSERT INTO user_location_areas (user_id, neighborhood, city, state, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	for i, area := range areas {
		area.UserID = userID
		area.DisplayOrder = i
		err := tx.QueryRowxContext(ctx, insert,
			area.UserID, area.Neighborhood, area.City, area.State, area.DisplayOrder,
		).Scan(&area.ID, &area.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert area user=%d: %w", userID, err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) OverlappingCities(ctx context.Context, userA, userB int64) ([]string, error) {
	var cities []string
	query := `
        SELECT DISTINCT a.city
        FROM user_location_areas a
        JOIN user_location_areas b ON a.city = b.city AND a.state = b.state
        WHERE a.user_id = $1 AND b.user_id = $2
    `

	err := r.db.SelectContext(ctx, &cities, query, userA, userB)
	return cities, err
}

// BestCentroid prefers a neighborhood-level centroid and falls back to
// the city-level one.
func (r *postgresRepository) BestCentroid(ctx context.Context, neighborhood *string, city, state string) (*Centroid, error) {
	var c Centroid

	if neighborhood != nil {
		query := `
            SELECT * FROM area_centroids
            WHERE neighborhood = $1 AND city = $2 AND state = $3
            LIMIT 1
        `
		err := r.db.GetContext(ctx, &c, query, neighborhood, city, state)
		if err == nil {
			return &c, nil
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
	}

	query := `
        SELECT * FROM area_centroids
        WHERE neighborhood IS NULL AND city = $1 AND state = $2
        LIMIT 1
    `
	err := r.db.GetContext(ctx, &c, query, city, state)
	if err == sql.ErrNoRows {
		return nil, ErrCentroidNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *postgresRepository) PreferencesByUser(ctx context.Context, userID int64) (*Preferences, error) {
	var p Preferences
	query := `SELECT * FROM user_location_preferences WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) SavePreferences(ctx context.Context, p *Preferences) error {
	query := `
        INSERT INTO user_location_preferences (
            user_id, max_travel_minutes, require_area_overlap,
            show_exceptional_matches, exceptional_match_threshold
        ) VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE SET
            max_travel_minutes = EXCLUDED.max_travel_minutes,
            require_area_overlap = EXCLUDED.require_area_overlap,
            show_exceptional_matches = EXCLUDED.show_exceptional_matches,
            exceptional_match_threshold = EXCLUDED.exceptional_match_threshold
        RETURNING id
    `

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID, p.MaxTravelMinutes, p.RequireAreaOverlap,
		p.ShowExceptionalMatches, p.ExceptionalMatchThreshold,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("save location preferences user=%d: %w", p.UserID, err)
	}

	return nil
}
