package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SystemLogRepository persists audit rows.
type SystemLogRepository interface {
	Create(ctx context.Context, entry *domain.SystemLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.SystemLog, error)
}

type systemLogRepository struct {
	pool *pgxpool.Pool
}

// NewSystemLogRepository instantiates repository.
func NewSystemLogRepository(pool *pgxpool.Pool) SystemLogRepository {
	return &systemLogRepository{pool: pool}
}

func (r *systemLogRepository) Create(ctx context.Context, entry *domain.SystemLog) error {
	const query = `
        INSERT INTO system_logs (user_id, level, component, action, details)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Level,
		entry.Component,
		entry.Action,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *systemLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.SystemLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, user_id, level, component, action, details, created_at
        FROM system_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SystemLog
	for rows.Next() {
		var entry domain.SystemLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Level,
			&entry.Component,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
