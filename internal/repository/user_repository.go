package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRepository defines persistence access for all principals: requesters,
// staff, admins and the assistant pseudo-user.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	FirstActiveStaff(ctx context.Context, departmentID *string) (*domain.User, error)
	EnsureAssistant(ctx context.Context) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, access_level, department_id, active, is_assistant, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, access_level, department_id, active, is_assistant)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AccessLevel,
		user.DepartmentID,
		user.Active,
		user.IsAssistant,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, access_level=$4,
            department_id=$5, active=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AccessLevel,
		user.DepartmentID,
		user.Active,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AccessLevel,
		&user.DepartmentID,
		&user.Active,
		&user.IsAssistant,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.AccessLevel,
			&user.DepartmentID,
			&user.Active,
			&user.IsAssistant,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

// FirstActiveStaff picks the auto-assignment target: the longest-tenured
// active staff member, scoped to a department when one is given.
func (r *userRepository) FirstActiveStaff(ctx context.Context, departmentID *string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
        WHERE active = TRUE AND is_assistant = FALSE AND access_level IN ('staff', 'admin')`
	args := []any{}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += ` AND department_id=$1`
	}
	query += ` ORDER BY created_at ASC LIMIT 1`
	return r.fetchSingle(ctx, query, args...)
}

// EnsureAssistant returns the assistant pseudo-user, creating it on first
// call. The upsert keeps concurrent startups from racing on the unique email.
func (r *userRepository) EnsureAssistant(ctx context.Context) (*domain.User, error) {
	const query = `
        INSERT INTO users (name, email, password_hash, access_level, active, is_assistant)
        VALUES ('AI Assistant', $1, '', 'staff', TRUE, TRUE)
        ON CONFLICT (email) DO UPDATE SET active = TRUE
        RETURNING ` + userColumns
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, domain.AssistantEmail).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AccessLevel,
		&user.DepartmentID,
		&user.Active,
		&user.IsAssistant,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
