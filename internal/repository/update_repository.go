package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UpdateRepository persists the append-only ticket audit trail.
type UpdateRepository interface {
	Create(ctx context.Context, update *domain.TicketUpdate) error
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketUpdate, error)
}

type updateRepository struct {
	pool *pgxpool.Pool
}

// NewUpdateRepository instantiates repository.
func NewUpdateRepository(pool *pgxpool.Pool) UpdateRepository {
	return &updateRepository{pool: pool}
}

func (r *updateRepository) Create(ctx context.Context, update *domain.TicketUpdate) error {
	const query = `
        INSERT INTO ticket_updates (ticket_id, updated_by_id, previous_status, status, comment, internal)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		update.TicketID,
		update.UpdatedByID,
		update.PreviousStatus,
		update.Status,
		update.Comment,
		update.Internal,
	).Scan(&update.ID, &update.CreatedAt)
}

func (r *updateRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketUpdate, error) {
	query := `
        SELECT id, ticket_id, updated_by_id, previous_status, status, comment, internal, created_at
        FROM ticket_updates WHERE ticket_id=$1`
	if !includeInternal {
		query += ` AND internal = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketUpdate
	for rows.Next() {
		var u domain.TicketUpdate
		if err := rows.Scan(
			&u.ID,
			&u.TicketID,
			&u.UpdatedByID,
			&u.PreviousStatus,
			&u.Status,
			&u.Comment,
			&u.Internal,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
