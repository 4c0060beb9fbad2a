package scheduling

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// TicketStore is the ticket persistence surface the scheduling core depends
// on. Implemented by internal/repository over pgx and by in-memory fakes in
// tests.
type TicketStore interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// ListActiveByIDs returns the subset of the given tickets whose status is
	// pending or in_progress.
	ListActiveByIDs(ctx context.Context, ids []string) ([]domain.Ticket, error)
	// UpdateSchedule persists the scheduler-owned fields: status, start date
	// and calculated end date.
	UpdateSchedule(ctx context.Context, ticket *domain.Ticket) error
}

// AssignmentStore is the assignment persistence surface for the scheduling
// core.
type AssignmentStore interface {
	// ListForUserOnDate returns the user's blocks on a date with the owning
	// ticket's priority populated.
	ListForUserOnDate(ctx context.Context, userID string, date time.Time) ([]domain.Assignment, error)
	SumHoursForUserOnDate(ctx context.Context, userID string, date time.Time) (float64, error)
	ExistsForTicketOnDate(ctx context.Context, ticketID, userID string, date time.Time) (bool, error)
	// ListByTicket returns a ticket's blocks ordered by date ascending.
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Assignment, error)
	TicketIDsForUser(ctx context.Context, userID string) ([]string, error)
	Create(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	DeleteForTicketsAndUser(ctx context.Context, ticketIDs []string, userID string) error
}

// HolidayStore supplies the holiday records a WorkCalendar is built from.
type HolidayStore interface {
	ListAll(ctx context.Context) ([]domain.Holiday, error)
}
