package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// TicketFilter captures list query parameters.
type TicketFilter struct {
	CreatedBy  *string
	AssigneeID *string
	Statuses   []domain.TicketStatus
	Priorities []int
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	UpdateSchedule(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListActiveByIDs(ctx context.Context, ids []string) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	WithTx(tx pgx.Tx) TicketRepository
}

type ticketRepository struct {
	q Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(q Querier) TicketRepository {
	return &ticketRepository{q: q}
}

func (r *ticketRepository) WithTx(tx pgx.Tx) TicketRepository {
	return &ticketRepository{q: tx}
}

const ticketColumns = `id, title, description, priority, total_hours, hours_per_day, status,
               created_by, user_id, technical_user_id, functional_user_id,
               start_date, calculated_end_date, buffer_days, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, priority, total_hours, hours_per_day, status,
                             created_by, user_id, technical_user_id, functional_user_id, buffer_days)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.TotalHours,
		ticket.HoursPerDay,
		ticket.Status,
		ticket.CreatedBy,
		ticket.UserID,
		ticket.TechnicalUserID,
		ticket.FunctionalUserID,
		ticket.BufferDays,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, total_hours=$4, hours_per_day=$5,
            status=$6, user_id=$7, technical_user_id=$8, functional_user_id=$9, buffer_days=$10,
            start_date=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.q.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.TotalHours,
		ticket.HoursPerDay,
		ticket.Status,
		ticket.UserID,
		ticket.TechnicalUserID,
		ticket.FunctionalUserID,
		ticket.BufferDays,
		ticket.StartDate,
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

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateSchedule persists the scheduler-owned fields only.
func (r *ticketRepository) UpdateSchedule(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, start_date=$2, calculated_end_date=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.q.Exec(ctx, query, ticket.Status, ticket.StartDate, ticket.CalculatedEnd, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.q.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListActiveByIDs(ctx context.Context, ids []string) ([]domain.Ticket, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
        SELECT %s FROM tickets
        WHERE id = ANY($1) AND status IN ('pending','in_progress')
        ORDER BY id`, ticketColumns)
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
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
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY priority ASC, created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.TotalHours,
		&ticket.HoursPerDay,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.UserID,
		&ticket.TechnicalUserID,
		&ticket.FunctionalUserID,
		&ticket.StartDate,
		&ticket.CalculatedEnd,
		&ticket.BufferDays,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
