// internal/assessment/repository.go

package assessment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Questions
	InsertQuestionIfAbsent(ctx context.Context, q *Question) (bool, error)
	QuestionByExternalID(ctx context.Context, externalID string) (*Question, error)
	QuestionsByCategory(ctx context.Context, category Category) ([]*Question, error)
	CountQuestionsByCategory(ctx context.Context, category Category) (int, error)
	CountQuestions(ctx context.Context) (int, error)

	// Responses
	UpsertResponse(ctx context.Context, r *Response) error
	AnswersByUser(ctx context.Context, userID int64) ([]*Answer, error)
	CountResponsesByCategory(ctx context.Context, userID int64, category Category) (int, error)
	DeleteResponsesByCategory(ctx context.Context, userID int64, category Category) error

	// Profiles
	ProfileByUser(ctx context.Context, userID int64) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Question methods

func (r *postgresRepository) InsertQuestionIfAbsent(ctx context.Context, q *Question) (bool, error) {
	query := `
        INSERT INTO assessment_questions (
            external_id, text, category, scale, subcategory, domain, keyed,
            dimension, severity, red_flag_value, flag_name, display_order, active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (external_id) DO NOTHING
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		q.ExternalID, q.Text, q.Category, q.Scale, q.Subcategory, q.Domain,
		q.Keyed, q.Dimension, q.Severity, q.RedFlagValue, q.FlagName,
		q.DisplayOrder, q.Active,
	).Scan(&q.ID, &q.CreatedAt)
	if err == sql.ErrNoRows {
		// Conflict: the question already exists.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert question %s: %w", q.ExternalID, err)
	}

	return true, nil
}

func (r *postgresRepository) QuestionByExternalID(ctx context.Context, externalID string) (*Question, error) {
	var q Question
	query := `SELECT * FROM assessment_questions WHERE external_id = $1`

	err := r.db.GetContext(ctx, &q, query, externalID)
	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &q, nil
}

func (r *postgresRepository) QuestionsByCategory(ctx context.Context, category Category) ([]*Question, error) {
	var questions []*Question
	query := `
        SELECT * FROM assessment_questions
        WHERE category = $1 AND active = true
        ORDER BY display_order
    `

	err := r.db.SelectContext(ctx, &questions, query, category)
	return questions, err
}

func (r *postgresRepository) CountQuestionsByCategory(ctx context.Context, category Category) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assessment_questions WHERE category = $1 AND active = true`

	err := r.db.GetContext(ctx, &count, query, category)
	return count, err
}

func (r *postgresRepository) CountQuestions(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assessment_questions`)
	return count, err
}

// Response methods

func (r *postgresRepository) UpsertResponse(ctx context.Context, resp *Response) error {
	query := `
        INSERT INTO assessment_responses (
            user_id, question_id, category, numeric_response, text_response, importance
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id, question_id) DO UPDATE SET
            numeric_response = EXCLUDED.numeric_response,
            text_response = EXCLUDED.text_response,
            importance = EXCLUDED.importance,
            updated_at = CURRENT_TIMESTAMP
        RETURNING id, answered_at, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		resp.UserID, resp.QuestionID, resp.Category,
		resp.Numeric, resp.Text, resp.Importance,
	).Scan(&resp.ID, &resp.AnsweredAt, &resp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert response user=%d question=%d: %w", resp.UserID, resp.QuestionID, err)
	}

	return nil
}

func (r *postgresRepository) AnswersByUser(ctx context.Context, userID int64) ([]*Answer, error) {
	var responses []*Response
	query := `SELECT * FROM assessment_responses WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &responses, query, userID); err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, nil
	}

	questionIDs := make([]int64, 0, len(responses))
	for _, resp := range responses {
		questionIDs = append(questionIDs, resp.QuestionID)
	}

	qquery, args, err := sqlx.In(`SELECT * FROM assessment_questions WHERE id IN (?)`, questionIDs)
	if err != nil {
		return nil, err
	}
	qquery = r.db.Rebind(qquery)

	var questions []*Question
	if err := r.db.SelectContext(ctx, &questions, qquery, args...); err != nil {
		return nil, err
	}

	byID := make(map[int64]*Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answers := make([]*Answer, 0, len(responses))
	for _, resp := range responses {
		q, ok := byID[resp.QuestionID]
		if !ok {
			continue
		}
		answers = append(answers, &Answer{Response: resp, Question: q})
	}

	return answers, nil
}

func (r *postgresRepository) CountResponsesByCategory(ctx context.Context, userID int64, category Category) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assessment_responses WHERE user_id = $1 AND category = $2`

	err := r.db.GetContext(ctx, &count, query, userID, category)
	return count, err
}

func (r *postgresRepository) DeleteResponsesByCategory(ctx context.Context, userID int64, category Category) error {
	query := `DELETE FROM assessment_responses WHERE user_id = $1 AND category = $2`

	_, err := r.db.ExecContext(ctx, query, userID, category)
	return err
}

// Profile methods

func (r *postgresRepository) ProfileByUser(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	query := `SELECT * FROM assessment_profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) SaveProfile(ctx context.Context, p *Profile) error {
	query := `
        INSERT INTO assessment_profiles (
            user_id,
            openness_score, conscientiousness_score, extraversion_score,
            agreeableness_score, neuroticism_score, emotional_stability_score,
            attachment_anxiety_score, attachment_avoidance_score, attachment_style,
            values_progressive_score, values_egalitarian_score,
            lifestyle_social_score, lifestyle_health_score,
            lifestyle_worklife_score, lifestyle_finance_score,
            dealbreaker_flags,
            big_five_answered, attachment_answered, values_answered,
            dealbreaker_answered, lifestyle_answered,
            big_five_complete, attachment_complete, values_complete,
            dealbreaker_complete, lifestyle_complete, profile_complete
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
            $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
        )
        ON CONFLICT (user_id) DO UPDATE SET
            openness_score = EXCLUDED.openness_score,
            conscientiousness_score = EXCLUDED.conscientiousness_score,
            extraversion_score = EXCLUDED.extraversion_score,
            agreeableness_score = EXCLUDED.agreeableness_score,
            neuroticism_score = EXCLUDED.neuroticism_score,
            emotional_stability_score = EXCLUDED.emotional_stability_score,
            attachment_anxiety_score = EXCLUDED.attachment_anxiety_score,
            attachment_avoidance_score = EXCLUDED.attachment_avoidance_score,
            attachment_style = EXCLUDED.attachment_style,
            values_progressive_score = EXCLUDED.values_progressive_score,
            values_egalitarian_score = EXCLUDED.values_egalitarian_score,
            lifestyle_social_score = EXCLUDED.lifestyle_social_score,
            lifestyle_health_score = EXCLUDED.lifestyle_health_score,
            lifestyle_worklife_score = EXCLUDED.lifestyle_worklife_score,
            lifestyle_finance_score = EXCLUDED.lifestyle_finance_score,
            dealbreaker_flags = EXCLUDED.dealbreaker_flags,
            big_five_answered = EXCLUDED.big_five_answered,
            attachment_answered = EXCLUDED.attachment_answered,
            values_answered = EXCLUDED.values_answered,
            dealbreaker_answered = EXCLUDED.dealbreaker_answered,
            lifestyle_answered = EXCLUDED.lifestyle_answered,
            big_five_complete = EXCLUDED.big_five_complete,
            attachment_complete = EXCLUDED.attachment_complete,
            values_complete = EXCLUDED.values_complete,
            dealbreaker_complete = EXCLUDED.dealbreaker_complete,
            lifestyle_complete = EXCLUDED.lifestyle_complete,
            profile_complete = EXCLUDED.profile_complete,
            last_updated = CURRENT_TIMESTAMP
        RETURNING id, last_updated
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID,
		p.OpennessScore, p.ConscientiousnessScore, p.ExtraversionScore,
		p.AgreeablenessScore, p.NeuroticismScore, p.EmotionalStability,
		p.AttachmentAnxietyScore, p.AttachmentAvoidanceScore, p.AttachmentStyle,
		p.ValuesProgressiveScore, p.ValuesEgalitarianScore,
		p.LifestyleSocialScore, p.LifestyleHealthScore,
		p.LifestyleWorkLifeScore, p.LifestyleFinanceScore,
		p.DealbreakerFlags,
		p.BigFiveAnswered, p.AttachmentAnswered, p.ValuesAnswered,
		p.DealbreakerAnswered, p.LifestyleAnswered,
		p.BigFiveComplete, p.AttachmentComplete, p.ValuesComplete,
		p.DealbreakerComplete, p.LifestyleComplete, p.ProfileComplete,
	).Scan(&p.ID, &p.LastUpdated)
	if err != nil {
		return fmt.Errorf("save profile user=%d: %w", p.UserID, err)
	}

	return nil
}
