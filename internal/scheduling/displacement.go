package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// DisplacementEngine frees capacity on a day by relocating lower-priority
// blocks to later dates. Displacement is a single layer: a relocated block
// never displaces anything else.
type DisplacementEngine struct {
	tickets     TicketStore
	assignments AssignmentStore
	calendar    *WorkCalendar
	logger      *zap.Logger
}

// NewDisplacementEngine constructs the engine.
func NewDisplacementEngine(tickets TicketStore, assignments AssignmentStore, calendar *WorkCalendar, logger *zap.Logger) *DisplacementEngine {
	return &DisplacementEngine{
		tickets:     tickets,
		assignments: assignments,
		calendar:    calendar,
		logger:      logger,
	}
}

// FreeCapacity reports how many hours the candidate ticket may claim on the
// date, relocating displaceable blocks when the day is saturated. Priority-1
// candidates may displace every block on the day, including other priority-1
// work; all other candidates displace only strictly lower-priority blocks.
func (e *DisplacementEngine) FreeCapacity(ctx context.Context, candidate *domain.Ticket, blocks []domain.Assignment, userID string, date time.Time) (float64, error) {
	if len(blocks) == 0 {
		return MaxDailyHours, nil
	}

	load := sumHours(blocks)
	if available := MaxDailyHours - load; available > 0 {
		return available, nil
	}

	movable := make([]domain.Assignment, 0, len(blocks))
	for _, block := range blocks {
		if candidate.Priority == domain.PriorityHighest || block.TicketPriority > candidate.Priority {
			movable = append(movable, block)
		}
	}
	// Least-important blocks move first.
	sort.SliceStable(movable, func(i, j int) bool {
		return movable[i].TicketPriority > movable[j].TicketPriority
	})

	freed := 0.0
	remaining := load
	for _, block := range movable {
		if err := e.relocate(ctx, block, userID); err != nil {
			return 0, err
		}
		freed += block.Hours
		remaining -= block.Hours
		if MaxDailyHours-remaining > 0 {
			break
		}
	}
	if freed > MaxDailyHours {
		freed = MaxDailyHours
	}
	if freed > 0 {
		e.logger.Debug("displaced blocks to free capacity",
			zap.String("candidate_ticket_id", candidate.ID),
			zap.String("user_id", userID),
			zap.String("date", date.Format("2006-01-02")),
			zap.Float64("freed_hours", freed))
	}
	return freed, nil
}

// relocate deletes the block and re-creates it on the first later business
// day with room, scanning forward at most the search horizon. The relocated
// ticket's schedule bounds are recomputed afterwards.
func (e *DisplacementEngine) relocate(ctx context.Context, block domain.Assignment, userID string) error {
	ticket, err := e.tickets.GetByID(ctx, block.TicketID)
	if err != nil {
		return fmt.Errorf("load displaced ticket: %w", err)
	}
	if err := e.assignments.Delete(ctx, block.ID); err != nil {
		return fmt.Errorf("delete displaced block: %w", err)
	}

	current := domain.DateOnly(block.Date).AddDate(0, 0, 1)
	for attempts := 0; attempts < SearchHorizonDays; attempts++ {
		if !e.calendar.IsBusinessDay(current) {
			current = current.AddDate(0, 0, 1)
			continue
		}
		if ticket.Priority != domain.PriorityHighest {
			taken, err := e.assignments.ExistsForTicketOnDate(ctx, ticket.ID, userID, current)
			if err != nil {
				return err
			}
			if taken {
				current = current.AddDate(0, 0, 1)
				continue
			}
		}

		existing, err := e.assignments.ListForUserOnDate(ctx, userID, current)
		if err != nil {
			return err
		}
		if sumHours(existing)+block.Hours <= MaxDailyHours {
			slot, err := FindSlot(existing, block.Hours)
			if err != nil {
				return fmt.Errorf("relocating ticket %s to %s: %w", ticket.ID, current.Format("2006-01-02"), err)
			}
			moved := &domain.Assignment{
				TicketID:    ticket.ID,
				UserID:      userID,
				Date:        current,
				StartMinute: slot.StartMinute,
				EndMinute:   slot.EndMinute,
				Hours:       block.Hours,
			}
			if err := e.assignments.Create(ctx, moved); err != nil {
				return err
			}
			e.logger.Debug("relocated block",
				zap.String("ticket_id", ticket.ID),
				zap.String("user_id", userID),
				zap.String("from", block.Date.Format("2006-01-02")),
				zap.String("to", current.Format("2006-01-02")),
				zap.Float64("hours", block.Hours))
			return e.recalculateSchedule(ctx, ticket)
		}
		current = current.AddDate(0, 0, 1)
	}

	return &RelocationFailedError{
		TicketID: ticket.ID,
		UserID:   userID,
		Hours:    block.Hours,
		FromDate: domain.DateOnly(block.Date),
	}
}

// recalculateSchedule rederives a ticket's start and buffered end date from
// its current assignments.
func (e *DisplacementEngine) recalculateSchedule(ctx context.Context, ticket *domain.Ticket) error {
	blocks, err := e.assignments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return nil
	}
	first := domain.DateOnly(blocks[0].Date)
	last := domain.DateOnly(blocks[len(blocks)-1].Date)
	end := last.AddDate(0, 0, ticket.BufferDays)
	ticket.StartDate = &first
	ticket.CalculatedEnd = &end
	return e.tickets.UpdateSchedule(ctx, ticket)
}

func sumHours(blocks []domain.Assignment) float64 {
	total := 0.0
	for _, block := range blocks {
		total += block.Hours
	}
	return total
}
