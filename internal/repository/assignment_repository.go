package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// AssignmentRepository encapsulates calendar block persistence.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	DeleteForTicketsAndUser(ctx context.Context, ticketIDs []string, userID string) error
	DeleteByTicket(ctx context.Context, ticketID string) error
	ListForUserOnDate(ctx context.Context, userID string, date time.Time) ([]domain.Assignment, error)
	ListForUserInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Assignment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error)
	SumHoursForUserOnDate(ctx context.Context, userID string, date time.Time) (float64, error)
	ExistsForTicketOnDate(ctx context.Context, ticketID, userID string, date time.Time) (bool, error)
	TicketIDsForUser(ctx context.Context, userID string) ([]string, error)
	WithTx(tx pgx.Tx) AssignmentRepository
}

type assignmentRepository struct {
	q Querier
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(q Querier) AssignmentRepository {
	return &assignmentRepository{q: q}
}

func (r *assignmentRepository) WithTx(tx pgx.Tx) AssignmentRepository {
	return &assignmentRepository{q: tx}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO ticket_assignments (ticket_id, user_id, assigned_date, start_minute, end_minute, hours)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		assignment.TicketID,
		assignment.UserID,
		assignment.Date,
		assignment.StartMinute,
		assignment.EndMinute,
		assignment.Hours,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM ticket_assignments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRepository) DeleteForTicketsAndUser(ctx context.Context, ticketIDs []string, userID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM ticket_assignments WHERE ticket_id = ANY($1) AND user_id=$2`,
		ticketIDs, userID)
	return err
}

func (r *assignmentRepository) DeleteByTicket(ctx context.Context, ticketID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM ticket_assignments WHERE ticket_id=$1`, ticketID)
	return err
}

const assignmentColumns = `a.id, a.ticket_id, a.user_id, a.assigned_date, a.start_minute, a.end_minute,
               a.hours, t.priority, a.created_at, a.updated_at`

func (r *assignmentRepository) ListForUserOnDate(ctx context.Context, userID string, date time.Time) ([]domain.Assignment, error) {
	query := `
        SELECT ` + assignmentColumns + `
        FROM ticket_assignments a
        JOIN tickets t ON t.id = a.ticket_id
        WHERE a.user_id=$1 AND a.assigned_date=$2
        ORDER BY a.start_minute, a.id`
	rows, err := r.q.Query(ctx, query, userID, domain.DateOnly(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *assignmentRepository) ListForUserInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Assignment, error) {
	query := `
        SELECT ` + assignmentColumns + `
        FROM ticket_assignments a
        JOIN tickets t ON t.id = a.ticket_id
        WHERE a.user_id=$1 AND a.assigned_date BETWEEN $2 AND $3
        ORDER BY a.assigned_date, a.start_minute`
	rows, err := r.q.Query(ctx, query, userID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error) {
	query := `
        SELECT ` + assignmentColumns + `
        FROM ticket_assignments a
        JOIN tickets t ON t.id = a.ticket_id
        WHERE a.ticket_id=$1
        ORDER BY a.assigned_date, a.start_minute`
	rows, err := r.q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *assignmentRepository) SumHoursForUserOnDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	var total float64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM ticket_assignments WHERE user_id=$1 AND assigned_date=$2`,
		userID, domain.DateOnly(date)).Scan(&total)
	return total, err
}

func (r *assignmentRepository) ExistsForTicketOnDate(ctx context.Context, ticketID, userID string, date time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM ticket_assignments WHERE ticket_id=$1 AND user_id=$2 AND assigned_date=$3)`,
		ticketID, userID, domain.DateOnly(date)).Scan(&exists)
	return exists, err
}

func (r *assignmentRepository) TicketIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT ticket_id FROM ticket_assignments WHERE user_id=$1 ORDER BY ticket_id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	var result []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(
			&a.ID,
			&a.TicketID,
			&a.UserID,
			&a.Date,
			&a.StartMinute,
			&a.EndMinute,
			&a.Hours,
			&a.TicketPriority,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.Date = domain.DateOnly(a.Date)
		result = append(result, a)
	}
	return result, rows.Err()
}
