package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AnalysisRepository persists the single triage snapshot per ticket.
type AnalysisRepository interface {
	Upsert(ctx context.Context, analysis *domain.AIAnalysis) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.AIAnalysis, error)
}

type analysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository instantiates repository.
func NewAnalysisRepository(pool *pgxpool.Pool) AnalysisRepository {
	return &analysisRepository{pool: pool}
}

// Upsert overwrites the ticket's snapshot. History is intentionally not kept;
// the unique ticket_id constraint enforces the 1:1 shape.
func (r *analysisRepository) Upsert(ctx context.Context, analysis *domain.AIAnalysis) error {
	const query = `
        INSERT INTO ai_analyses (ticket_id, sentiment_score, category_confidence,
            suggested_category, suggested_priority, suggested_department_id,
            suggested_assignee_id, processing_ns)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (ticket_id) DO UPDATE SET
            sentiment_score = EXCLUDED.sentiment_score,
            category_confidence = EXCLUDED.category_confidence,
            suggested_category = EXCLUDED.suggested_category,
            suggested_priority = EXCLUDED.suggested_priority,
            suggested_department_id = EXCLUDED.suggested_department_id,
            suggested_assignee_id = EXCLUDED.suggested_assignee_id,
            processing_ns = EXCLUDED.processing_ns,
            updated_at = NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		analysis.TicketID,
		analysis.SentimentScore,
		analysis.CategoryConfidence,
		analysis.SuggestedCategory,
		analysis.SuggestedPriority,
		analysis.SuggestedDepartmentID,
		analysis.SuggestedAssigneeID,
		analysis.ProcessingTime.Nanoseconds(),
	).Scan(&analysis.ID, &analysis.CreatedAt, &analysis.UpdatedAt)
}

func (r *analysisRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.AIAnalysis, error) {
	const query = `
        SELECT id, ticket_id, sentiment_score, category_confidence,
               suggested_category, suggested_priority, suggested_department_id,
               suggested_assignee_id, processing_ns, created_at, updated_at
        FROM ai_analyses WHERE ticket_id=$1`

	var analysis domain.AIAnalysis
	var processingNs int64
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&analysis.ID,
		&analysis.TicketID,
		&analysis.SentimentScore,
		&analysis.CategoryConfidence,
		&analysis.SuggestedCategory,
		&analysis.SuggestedPriority,
		&analysis.SuggestedDepartmentID,
		&analysis.SuggestedAssigneeID,
		&processingNs,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
	); err != nil {
		return nil, err
	}
	analysis.ProcessingTime = time.Duration(processingNs)
	return &analysis, nil
}
