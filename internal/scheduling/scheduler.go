// Package scheduling implements the day-by-day work-hour scheduler: greedy
// per-ticket allocation onto a user's business calendar with daily capacity
// limits, holiday/weekend exclusion and priority-based displacement of
// lower-priority blocks.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// Canonical capacity model: 8 working hours between 09:00 and 17:00, a 4 hour
// default daily rate for regular tickets, and a 365-day forward search limit
// that bounds every scheduling loop.
const (
	MaxDailyHours      = 8.0
	DefaultHoursPerDay = 4.0
	SearchHorizonDays  = 365
)

const hoursEpsilon = 1e-9

// Scheduler runs the greedy per-ticket allocation loop.
type Scheduler struct {
	tickets     TicketStore
	assignments AssignmentStore
	calendar    *WorkCalendar
	ledger      *AvailabilityLedger
	engine      *DisplacementEngine
	logger      *zap.Logger
}

// NewScheduler constructs a scheduler over the given stores and calendar.
func NewScheduler(tickets TicketStore, assignments AssignmentStore, calendar *WorkCalendar, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tickets:     tickets,
		assignments: assignments,
		calendar:    calendar,
		ledger:      NewAvailabilityLedger(assignments),
		engine:      NewDisplacementEngine(tickets, assignments, calendar, logger),
		logger:      logger,
	}
}

// AssignTicketToUser places the ticket's total hours onto the user's calendar
// starting at startDate (today when zero). Regular tickets take at most one
// block of at most HoursPerDay per day; priority-1 tickets may claim the full
// working day and displace anything in their way. On any placement the ticket
// moves to in_progress with start and buffered end dates set. Exhausting the
// search horizon with hours still unplaced returns SchedulingIncompleteError.
func (s *Scheduler) AssignTicketToUser(ctx context.Context, ticket *domain.Ticket, userID string, startDate time.Time) error {
	if !ticket.Status.IsActive() {
		return fmt.Errorf("ticket %s is %s and cannot be scheduled", ticket.ID, ticket.Status)
	}
	dailyCap := dailyCapFor(ticket)

	current := domain.DateOnly(startDate)
	if startDate.IsZero() {
		current = domain.DateOnly(time.Now())
	}
	var firstDate, lastDate time.Time
	assigned := 0.0

	for attempts := 0; assigned+hoursEpsilon < ticket.TotalHours && attempts < SearchHorizonDays; attempts++ {
		if !s.calendar.IsBusinessDay(current) {
			current = current.AddDate(0, 0, 1)
			continue
		}

		// Regular tickets take at most one block per day.
		if ticket.Priority != domain.PriorityHighest {
			taken, err := s.assignments.ExistsForTicketOnDate(ctx, ticket.ID, userID, current)
			if err != nil {
				return err
			}
			if taken {
				current = current.AddDate(0, 0, 1)
				continue
			}
		}

		blocks, err := s.assignments.ListForUserOnDate(ctx, userID, current)
		if err != nil {
			return err
		}
		available, err := s.engine.FreeCapacity(ctx, ticket, blocks, userID, current)
		if err != nil {
			return err
		}

		if available > 0 {
			hoursToday := min3(dailyCap, ticket.TotalHours-assigned, available)

			var slot Slot
			if ticket.Priority == domain.PriorityHighest {
				slot = AnchorSlot(hoursToday)
			} else {
				// Displacement may have rearranged the day; gap-search over
				// the fresh block list.
				blocks, err = s.assignments.ListForUserOnDate(ctx, userID, current)
				if err != nil {
					return err
				}
				slot, err = FindSlot(blocks, hoursToday)
				if err != nil {
					return err
				}
			}

			block := &domain.Assignment{
				TicketID:    ticket.ID,
				UserID:      userID,
				Date:        current,
				StartMinute: slot.StartMinute,
				EndMinute:   slot.EndMinute,
				Hours:       hoursToday,
			}
			if err := s.assignments.Create(ctx, block); err != nil {
				return err
			}
			if firstDate.IsZero() {
				firstDate = current
			}
			assigned += hoursToday
			lastDate = current
		}

		current = current.AddDate(0, 0, 1)
	}

	if assigned > 0 {
		end := lastDate.AddDate(0, 0, ticket.BufferDays)
		ticket.Status = domain.TicketStatusInProgress
		ticket.StartDate = &firstDate
		ticket.CalculatedEnd = &end
		if err := s.tickets.UpdateSchedule(ctx, ticket); err != nil {
			return err
		}
		s.logger.Debug("ticket scheduled",
			zap.String("ticket_id", ticket.ID),
			zap.String("user_id", userID),
			zap.Float64("hours", assigned),
			zap.String("start", firstDate.Format("2006-01-02")),
			zap.String("end", end.Format("2006-01-02")))
	}

	if assigned+hoursEpsilon < ticket.TotalHours {
		return &SchedulingIncompleteError{
			TicketID:       ticket.ID,
			UserID:         userID,
			RequestedHours: ticket.TotalHours,
			PlacedHours:    assigned,
		}
	}
	return nil
}

func dailyCapFor(ticket *domain.Ticket) float64 {
	if ticket.Priority == domain.PriorityHighest {
		return MaxDailyHours
	}
	if ticket.HoursPerDay > 0 {
		return ticket.HoursPerDay
	}
	return DefaultHoursPerDay
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
