package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketScope restricts list visibility for non-admin callers. Zero value
// means unrestricted (admin).
type TicketScope struct {
	// CreatedByID limits results to the requester's own tickets.
	CreatedByID *string
	// StaffUserID with StaffDepartmentID limits results to tickets assigned
	// to the staff member or belonging to their department.
	StaffUserID       *string
	StaffDepartmentID *string
}

// TicketFilter captures search parameters for ticket listings.
type TicketFilter struct {
	Scope        TicketScope
	DepartmentID *string
	CategoryID   *string
	AssignedToID *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	IsEscalated  *bool
	SLABreach    *bool
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListOpenWithDeadlineBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// FormatTicketCode renders the public ticket identifier for a period and
// sequence number, e.g. TKT-202608-0042.
func FormatTicketCode(year int, month time.Month, seq int64) string {
	return fmt.Sprintf("TKT-%04d%02d-%04d", year, int(month), seq)
}

const ticketColumns = `id, code, title, description, status, priority, source,
       department_id, category_id, sub_category_id, created_by_id, assigned_to_id,
       created_at, updated_at, due_date, resolved_at, closed_at,
       first_assigned_at, first_response_at, sla_deadline,
       sla_breach, resolution_breach, ever_breached, is_escalated,
       first_response_ns, resolution_ns, assistant_turns`

// Create allocates the next per-month sequence number and inserts the ticket
// in one transaction, so concurrent creates can never mint the same code.
func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	const seqQuery = `
        INSERT INTO ticket_sequences (year, month, counter)
        VALUES ($1, $2, 1)
        ON CONFLICT (year, month)
        DO UPDATE SET counter = ticket_sequences.counter + 1
        RETURNING counter`

	var seq int64
	if err := tx.QueryRow(ctx, seqQuery, now.Year(), int(now.Month())).Scan(&seq); err != nil {
		return fmt.Errorf("allocate ticket sequence: %w", err)
	}
	ticket.Code = FormatTicketCode(now.Year(), now.Month(), seq)

	const query = `
        INSERT INTO tickets (code, title, description, status, priority, source,
            department_id, category_id, sub_category_id, created_by_id, assigned_to_id,
            due_date, resolved_at, closed_at, first_assigned_at, first_response_at,
            sla_deadline, sla_breach, resolution_breach, ever_breached, is_escalated,
            first_response_ns, resolution_ns, assistant_turns)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Code,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Source,
		ticket.DepartmentID,
		ticket.CategoryID,
		ticket.SubCategoryID,
		ticket.CreatedByID,
		ticket.AssignedToID,
		ticket.DueDate,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.FirstAssignedAt,
		ticket.FirstResponseAt,
		ticket.SLADeadline,
		ticket.SLABreach,
		ticket.ResolutionBreach,
		ticket.EverBreached,
		ticket.IsEscalated,
		durationNs(ticket.FirstResponseTime),
		durationNs(ticket.ResolutionTime),
		ticket.AssistantTurns,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4,
            department_id=$5, category_id=$6, sub_category_id=$7, assigned_to_id=$8,
            due_date=$9, resolved_at=$10, closed_at=$11, first_assigned_at=$12,
            first_response_at=$13, sla_deadline=$14, sla_breach=$15,
            resolution_breach=$16, ever_breached=$17, is_escalated=$18,
            first_response_ns=$19, resolution_ns=$20, assistant_turns=$21,
            updated_at=NOW()
        WHERE id=$22`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.DepartmentID,
		ticket.CategoryID,
		ticket.SubCategoryID,
		ticket.AssignedToID,
		ticket.DueDate,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.FirstAssignedAt,
		ticket.FirstResponseAt,
		ticket.SLADeadline,
		ticket.SLABreach,
		ticket.ResolutionBreach,
		ticket.EverBreached,
		ticket.IsEscalated,
		durationNs(ticket.FirstResponseTime),
		durationNs(ticket.ResolutionTime),
		ticket.AssistantTurns,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Scope.CreatedByID != nil {
		args = append(args, *filter.Scope.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id=$%d", len(args)))
	}
	if filter.Scope.StaffUserID != nil {
		args = append(args, *filter.Scope.StaffUserID)
		assigned := fmt.Sprintf("assigned_to_id=$%d", len(args))
		if filter.Scope.StaffDepartmentID != nil {
			args = append(args, *filter.Scope.StaffDepartmentID)
			clauses = append(clauses, fmt.Sprintf("(%s OR department_id=$%d)", assigned, len(args)))
		} else {
			clauses = append(clauses, assigned)
		}
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.IsEscalated != nil {
		args = append(args, *filter.IsEscalated)
		clauses = append(clauses, fmt.Sprintf("is_escalated=$%d", len(args)))
	}
	if filter.SLABreach != nil {
		args = append(args, *filter.SLABreach)
		clauses = append(clauses, fmt.Sprintf("sla_breach=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(code) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListOpenWithDeadlineBefore feeds the SLA sweep: open tickets whose deadline
// has passed and whose breach flag is not set yet.
func (r *ticketRepository) ListOpenWithDeadlineBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets
        WHERE status NOT IN ('resolved', 'closed')
          AND sla_deadline IS NOT NULL AND sla_deadline < $1
          AND sla_breach = FALSE
        ORDER BY sla_deadline ASC LIMIT %d`, ticketColumns, limit)

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type ticketScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row ticketScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var firstResponseNs, resolutionNs *int64
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Source,
		&ticket.DepartmentID,
		&ticket.CategoryID,
		&ticket.SubCategoryID,
		&ticket.CreatedByID,
		&ticket.AssignedToID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DueDate,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.FirstAssignedAt,
		&ticket.FirstResponseAt,
		&ticket.SLADeadline,
		&ticket.SLABreach,
		&ticket.ResolutionBreach,
		&ticket.EverBreached,
		&ticket.IsEscalated,
		&firstResponseNs,
		&resolutionNs,
		&ticket.AssistantTurns,
	); err != nil {
		return nil, err
	}
	ticket.FirstResponseTime = nsDuration(firstResponseNs)
	ticket.ResolutionTime = nsDuration(resolutionNs)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func durationNs(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ns := d.Nanoseconds()
	return &ns
}

func nsDuration(ns *int64) *time.Duration {
	if ns == nil {
		return nil
	}
	d := time.Duration(*ns)
	return &d
}
