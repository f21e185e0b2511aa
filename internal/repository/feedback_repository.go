package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// FeedbackRepository persists human verdicts on triage suggestions and
// aggregates them into accuracy figures.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.AIFeedback) error
	Accuracy(ctx context.Context) (*domain.AccuracyMetrics, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.AIFeedback) error {
	const query = `
        INSERT INTO ai_feedback (ticket_id, analysis_id, feedback_type, is_correct, corrected_value, provided_by_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		feedback.TicketID,
		feedback.AnalysisID,
		feedback.FeedbackType,
		feedback.IsCorrect,
		feedback.CorrectedValue,
		feedback.ProvidedByID,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

// Accuracy computes overall and per-type correctness ratios in a single
// aggregate query. Types with no feedback report 0.
func (r *feedbackRepository) Accuracy(ctx context.Context) (*domain.AccuracyMetrics, error) {
	const query = `
        SELECT COUNT(*),
               COALESCE(AVG(CASE WHEN is_correct THEN 1.0 ELSE 0.0 END), 0),
               COALESCE(AVG(CASE WHEN is_correct THEN 1.0 ELSE 0.0 END) FILTER (WHERE feedback_type = 'category'), 0),
               COALESCE(AVG(CASE WHEN is_correct THEN 1.0 ELSE 0.0 END) FILTER (WHERE feedback_type = 'priority'), 0),
               COALESCE(AVG(CASE WHEN is_correct THEN 1.0 ELSE 0.0 END) FILTER (WHERE feedback_type = 'staff'), 0)
        FROM ai_feedback`

	var m domain.AccuracyMetrics
	if err := r.pool.QueryRow(ctx, query).Scan(
		&m.FeedbackCount,
		&m.Overall,
		&m.Category,
		&m.Priority,
		&m.Staff,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
