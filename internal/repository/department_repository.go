package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DepartmentRepository exposes the department/category taxonomy.
type DepartmentRepository interface {
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	GetDepartmentByID(ctx context.Context, id string) (*domain.Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error)
	ListCategories(ctx context.Context, departmentID *string) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository instantiates repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM departments WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *departmentRepository) GetDepartmentByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM departments WHERE id=$1`
	var d domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepository) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM departments WHERE LOWER(name)=LOWER($1)`
	var d domain.Department
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepository) ListCategories(ctx context.Context, departmentID *string) ([]domain.Category, error) {
	query := `
        SELECT id, name, description, department_id, position, is_active, created_at, updated_at
        FROM categories WHERE is_active = TRUE`
	args := []any{}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += ` AND department_id=$1`
	}
	query += ` ORDER BY position ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DepartmentID, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *departmentRepository) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, name, description, department_id, position, is_active, created_at, updated_at
        FROM categories WHERE id=$1`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.DepartmentID, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCategoryByName resolves the triage suggestion (a free-text category
// name) to a taxonomy row, case-insensitively.
func (r *departmentRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	const query = `
        SELECT id, name, description, department_id, position, is_active, created_at, updated_at
        FROM categories WHERE LOWER(name)=LOWER($1) AND is_active = TRUE
        ORDER BY position ASC LIMIT 1`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&c.ID, &c.Name, &c.Description, &c.DepartmentID, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *departmentRepository) ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	const query = `
        SELECT id, name, category_id, is_active, created_at
        FROM sub_categories WHERE category_id=$1 AND is_active = TRUE ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SubCategory
	for rows.Next() {
		var s domain.SubCategory
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
