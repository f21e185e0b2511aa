package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EscalationRepository persists ticket escalation records.
type EscalationRepository interface {
	Create(ctx context.Context, escalation *domain.TicketEscalation) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEscalation, error)
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository instantiates repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

func (r *escalationRepository) Create(ctx context.Context, escalation *domain.TicketEscalation) error {
	const query = `
        INSERT INTO ticket_escalations (ticket_id, from_department_id, to_department_id,
            from_user_id, to_user_id, reason, is_auto)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		escalation.TicketID,
		escalation.FromDepartmentID,
		escalation.ToDepartmentID,
		escalation.FromUserID,
		escalation.ToUserID,
		escalation.Reason,
		escalation.IsAuto,
	).Scan(&escalation.ID, &escalation.CreatedAt)
}

func (r *escalationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEscalation, error) {
	const query = `
        SELECT id, ticket_id, from_department_id, to_department_id, from_user_id, to_user_id, reason, is_auto, created_at
        FROM ticket_escalations WHERE ticket_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketEscalation
	for rows.Next() {
		var e domain.TicketEscalation
		if err := rows.Scan(
			&e.ID,
			&e.TicketID,
			&e.FromDepartmentID,
			&e.ToDepartmentID,
			&e.FromUserID,
			&e.ToUserID,
			&e.Reason,
			&e.IsAuto,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
