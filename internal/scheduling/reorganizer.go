package scheduling

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// PackingStrategy orders tickets before a calendar recompute. The order fully
// determines which ticket claims the earliest slots; there is no backtracking
// afterwards.
type PackingStrategy interface {
	Order(tickets []domain.Ticket)
}

// PriorityStartOrder is the default strategy: priority ascending, then
// snapshotted start date ascending, then id for a deterministic tie-break.
type PriorityStartOrder struct{}

// Order sorts tickets in place.
func (PriorityStartOrder) Order(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := &tickets[i], &tickets[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		as, bs := startOrZero(a), startOrZero(b)
		if !as.Equal(bs) {
			return as.Before(bs)
		}
		return a.ID < b.ID
	})
}

func startOrZero(t *domain.Ticket) time.Time {
	if t.StartDate == nil {
		return time.Time{}
	}
	return *t.StartDate
}

// Reorganizer performs a full destructive recompute of one user's calendar:
// every active ticket with assignments is unscheduled and re-placed in
// strategy order from its snapshotted start date.
type Reorganizer struct {
	tickets     TicketStore
	assignments AssignmentStore
	scheduler   *Scheduler
	strategy    PackingStrategy
	logger      *zap.Logger
}

// NewReorganizer constructs a reorganizer. A nil strategy falls back to
// PriorityStartOrder.
func NewReorganizer(tickets TicketStore, assignments AssignmentStore, scheduler *Scheduler, strategy PackingStrategy, logger *zap.Logger) *Reorganizer {
	if strategy == nil {
		strategy = PriorityStartOrder{}
	}
	return &Reorganizer{
		tickets:     tickets,
		assignments: assignments,
		scheduler:   scheduler,
		strategy:    strategy,
		logger:      logger,
	}
}

// ReorganizeUserCalendar recomputes the user's calendar. Higher priority and
// earlier original start win the earliest slots; the recompute is greedy and
// makes no attempt at optimal packing.
func (r *Reorganizer) ReorganizeUserCalendar(ctx context.Context, userID string) error {
	ids, err := r.assignments.TicketIDsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tickets, err := r.tickets.ListActiveByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return nil
	}

	// Snapshot each ticket's start date before anything is deleted: the
	// scheduler rewrites StartDate as it re-places earlier tickets.
	origins := make(map[string]time.Time, len(tickets))
	for i := range tickets {
		origins[tickets[i].ID] = startOrZero(&tickets[i])
	}

	r.strategy.Order(tickets)

	ticketIDs := make([]string, len(tickets))
	for i := range tickets {
		ticketIDs[i] = tickets[i].ID
	}
	if err := r.assignments.DeleteForTicketsAndUser(ctx, ticketIDs, userID); err != nil {
		return err
	}

	for i := range tickets {
		ticket := &tickets[i]
		if err := r.scheduler.AssignTicketToUser(ctx, ticket, userID, origins[ticket.ID]); err != nil {
			return err
		}
	}

	r.logger.Debug("calendar reorganized",
		zap.String("user_id", userID),
		zap.Int("tickets", len(tickets)))
	return nil
}
