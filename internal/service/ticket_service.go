package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/events"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	"github.com/spec-kit/ticket-scheduler/internal/scheduling"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// TxRunner executes a unit of work inside a database transaction. The pool
// implementation begins, commits and rolls back; in-memory fakes pass the
// function straight through.
type TxRunner interface {
	InTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type poolRunner struct {
	pool *pgxpool.Pool
}

func (r poolRunner) InTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// TicketService coordinates ticket workflows: creation, assignment onto user
// calendars, reassignment, status changes and calendar queries.
type TicketService struct {
	db          TxRunner
	tickets     repository.TicketRepository
	assignments repository.AssignmentRepository
	holidays    repository.HolidayRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	locks       *scheduling.UserLocks
	logger      *zap.Logger
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	Pool           *pgxpool.Pool
	TicketRepo     repository.TicketRepository
	AssignmentRepo repository.AssignmentRepository
	HolidayRepo    repository.HolidayRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Locks          *scheduling.UserLocks
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload. UserID is the assignee
// whose calendar receives the work.
type TicketCreateInput struct {
	Title            string
	Description      string
	Priority         int
	TotalHours       float64
	HoursPerDay      float64
	UserID           string
	TechnicalUserID  *string
	FunctionalUserID *string
	StartDate        *time.Time
	BufferDays       int
}

// TicketUpdateInput describes mutable ticket fields. Nil pointers leave the
// stored value unchanged; NewUserID moves the ticket to another calendar.
type TicketUpdateInput struct {
	Title            *string
	Description      *string
	Priority         *int
	TotalHours       *float64
	HoursPerDay      *float64
	NewUserID        *string
	TechnicalUserID  *string
	FunctionalUserID *string
	StartDate        *time.Time
	BufferDays       *int
	ClearTechnical   bool
	ClearFunctional  bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		db:          poolRunner{pool: deps.Pool},
		tickets:     deps.TicketRepo,
		assignments: deps.AssignmentRepo,
		holidays:    deps.HolidayRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
		locks:       deps.Locks,
		logger:      deps.Logger,
	}
}

// CreateTicket validates and stores a ticket, then schedules it onto the
// assignee's calendar. Scheduling runs in one transaction; a ticket that
// cannot be fully placed rolls back entirely. An urgent ticket displaces
// other work, so the whole calendar is repacked afterwards.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Priority:         input.Priority,
		TotalHours:       input.TotalHours,
		HoursPerDay:      input.HoursPerDay,
		Status:           domain.TicketStatusPending,
		CreatedBy:        creatorID,
		UserID:           input.UserID,
		TechnicalUserID:  input.TechnicalUserID,
		FunctionalUserID: input.FunctionalUserID,
		BufferDays:       input.BufferDays,
	}

	unlock := s.locks.Lock(ticket.UserID)
	defer unlock()

	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Create(ctx, ticket); err != nil {
			return err
		}

		scheduler, err := s.schedulerForTx(ctx, tx)
		if err != nil {
			return err
		}
		if err := scheduler.AssignTicketToUser(ctx, ticket, ticket.UserID, startOrZeroTime(input.StartDate)); err != nil {
			return mapSchedulingError(err)
		}
		if ticket.Priority == domain.PriorityHighest {
			return s.reorganizeTx(ctx, tx, ticket.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The repack rewrites schedule bounds; return the stored state.
	if ticket.Priority == domain.PriorityHighest {
		if fresh, err := s.tickets.GetByID(ctx, ticket.ID); err == nil {
			ticket = fresh
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  creatorID,
		Payload: events.TicketCreatedPayload{
			Priority:   ticket.Priority,
			TotalHours: ticket.TotalHours,
			Title:      ticket.Title,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketScheduled,
		TicketID: ticket.ID,
		ActorID:  creatorID,
		Payload: events.TicketScheduledPayload{
			UserID:    ticket.UserID,
			StartDate: ticket.StartDate,
			EndDate:   ticket.CalculatedEnd,
		},
	})
	return ticket, nil
}

// UpdateTicket applies field changes. A changed priority, effort, daily rate
// or start date repacks the assignee's whole calendar; a new assignee moves
// the ticket and repacks both calendars.
func (s *TicketService) UpdateTicket(ctx context.Context, actorID, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.IsActive() {
		return nil, apperrors.NewConflict("ticket is no longer active", map[string]any{"status": ticket.Status})
	}

	oldUserID := ticket.UserID
	needsReschedule := applyUpdate(ticket, input)
	if err := validateTicketFields(ticket); err != nil {
		return nil, err
	}
	reassigned := ticket.UserID != oldUserID

	touched := []string{ticket.UserID}
	if reassigned {
		touched = append(touched, oldUserID)
	}
	unlock := s.lockUsers(touched)
	defer unlock()

	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Update(ctx, ticket); err != nil {
			return err
		}
		switch {
		case reassigned:
			if err := s.assignments.WithTx(tx).DeleteByTicket(ctx, ticketID); err != nil {
				return err
			}
			scheduler, err := s.schedulerForTx(ctx, tx)
			if err != nil {
				return err
			}
			start := startOrZeroTime(input.StartDate)
			if start.IsZero() && ticket.StartDate != nil {
				start = *ticket.StartDate
			}
			if err := scheduler.AssignTicketToUser(ctx, ticket, ticket.UserID, start); err != nil {
				return mapSchedulingError(err)
			}
			// Repack the receiver so the moved ticket lands in priority
			// order, and the old assignee to close the freed gaps.
			if err := s.reorganizeTx(ctx, tx, ticket.UserID); err != nil {
				return err
			}
			return s.reorganizeTx(ctx, tx, oldUserID)
		case needsReschedule:
			return s.reorganizeTx(ctx, tx, ticket.UserID)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	if reassigned || needsReschedule {
		if fresh, err := s.tickets.GetByID(ctx, ticketID); err == nil {
			ticket = fresh
		}
	}
	if reassigned {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketReassigned,
			TicketID: ticket.ID,
			ActorID:  actorID,
			Payload: events.TicketReassignedPayload{
				FromUserID: &oldUserID,
				ToUserID:   ticket.UserID,
			},
		})
	}
	return ticket, nil
}

// UpdateStatus transitions the ticket. Terminal tickets keep their blocks in
// place; a later reorganization of the user's calendar packs around them.
func (s *TicketService) UpdateStatus(ctx context.Context, actorID, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	ticket.Status = status
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// DeleteTicket removes the ticket and its calendar blocks.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(ticket.UserID)
	defer unlock()

	return s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.assignments.WithTx(tx).DeleteByTicket(ctx, ticketID); err != nil {
			return err
		}
		return s.tickets.WithTx(tx).Delete(ctx, ticketID)
	})
}

// GetTicket returns one ticket with its calendar blocks.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Assignment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	blocks, err := s.assignments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, blocks, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// ListUserAssignments returns a user's calendar blocks in a date range.
func (s *TicketService) ListUserAssignments(ctx context.Context, userID string, from, to time.Time) ([]domain.Assignment, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("date range is inverted", nil)
	}
	return s.assignments.ListForUserInRange(ctx, userID, from, to)
}

// CheckAvailability previews a user's load without reserving anything.
func (s *TicketService) CheckAvailability(ctx context.Context, userID string, startDate time.Time, totalHours float64) (*scheduling.AvailabilityReport, error) {
	if totalHours < domain.MinTicketHours {
		return nil, apperrors.NewValidationError("total hours below minimum", map[string]any{"min": domain.MinTicketHours})
	}
	calendar, err := s.workCalendar(ctx)
	if err != nil {
		return nil, err
	}
	probe := scheduling.NewAvailabilityProbe(s.assignments, calendar)
	return probe.CheckAvailability(ctx, userID, startDate, totalHours)
}

// ReorganizeCalendar recomputes the user's calendar from scratch.
func (s *TicketService) ReorganizeCalendar(ctx context.Context, actorID, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.reorganizeLocked(ctx, userID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCalendarReorganized,
		ActorID: actorID,
		Payload: events.CalendarReorganizedPayload{UserID: userID},
	})
	return nil
}

func (s *TicketService) reorganizeLocked(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.db.InTx(ctx, func(tx pgx.Tx) error {
		return s.reorganizeTx(ctx, tx, userID)
	})
}

// reorganizeTx repacks one user's calendar inside the caller's transaction.
// The caller must hold the user's scheduling lock.
func (s *TicketService) reorganizeTx(ctx context.Context, tx pgx.Tx, userID string) error {
	scheduler, err := s.schedulerForTx(ctx, tx)
	if err != nil {
		return err
	}
	reorganizer := scheduling.NewReorganizer(
		s.tickets.WithTx(tx), s.assignments.WithTx(tx), scheduler, nil, s.logger)
	if err := reorganizer.ReorganizeUserCalendar(ctx, userID); err != nil {
		return mapSchedulingError(err)
	}
	return nil
}

// schedulerForTx builds a scheduling core bound to the transaction, with the
// work calendar loaded from the current holiday table.
func (s *TicketService) schedulerForTx(ctx context.Context, tx pgx.Tx) (*scheduling.Scheduler, error) {
	calendar, err := s.workCalendar(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.NewScheduler(
		s.tickets.WithTx(tx), s.assignments.WithTx(tx), calendar, s.logger), nil
}

func (s *TicketService) workCalendar(ctx context.Context) (*scheduling.WorkCalendar, error) {
	holidays, err := s.holidays.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.NewWorkCalendar(holidays), nil
}

// lockUsers acquires per-user scheduling locks in sorted order so concurrent
// multi-user operations cannot deadlock.
func (s *TicketService) lockUsers(userIDs []string) func() {
	ids := uniqueSorted(userIDs)
	unlocks := make([]func(), 0, len(ids))
	for _, id := range ids {
		unlocks = append(unlocks, s.locks.Lock(id))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCreateInput(input *TicketCreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if strings.TrimSpace(input.UserID) == "" {
		return apperrors.NewValidationError("assignee user_id is required", nil)
	}
	if input.Priority == 0 {
		input.Priority = 3
	}
	if input.HoursPerDay == 0 {
		input.HoursPerDay = scheduling.DefaultHoursPerDay
	}
	return validateFields(input.Priority, input.TotalHours, input.HoursPerDay)
}

func validateTicketFields(ticket *domain.Ticket) error {
	if strings.TrimSpace(ticket.Title) == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if strings.TrimSpace(ticket.UserID) == "" {
		return apperrors.NewValidationError("assignee user_id is required", nil)
	}
	return validateFields(ticket.Priority, ticket.TotalHours, ticket.HoursPerDay)
}

func validateFields(priority int, totalHours, hoursPerDay float64) error {
	if priority < domain.PriorityHighest || priority > domain.PriorityLowest {
		return apperrors.NewValidationError("priority must be between 1 and 5", map[string]any{"priority": priority})
	}
	if totalHours < domain.MinTicketHours {
		return apperrors.NewValidationError("total hours below minimum", map[string]any{"min": domain.MinTicketHours})
	}
	if hoursPerDay <= 0 || hoursPerDay > scheduling.MaxDailyHours {
		return apperrors.NewValidationError("hours per day must be within the working day", map[string]any{"max": scheduling.MaxDailyHours})
	}
	return nil
}

// applyUpdate mutates the ticket and reports whether scheduling inputs
// changed. Assignee changes are detected by the caller.
func applyUpdate(ticket *domain.Ticket, input TicketUpdateInput) bool {
	reschedule := false
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		ticket.Priority = *input.Priority
		reschedule = true
	}
	if input.TotalHours != nil && *input.TotalHours != ticket.TotalHours {
		ticket.TotalHours = *input.TotalHours
		reschedule = true
	}
	if input.HoursPerDay != nil && *input.HoursPerDay != ticket.HoursPerDay {
		ticket.HoursPerDay = *input.HoursPerDay
		reschedule = true
	}
	if input.BufferDays != nil && *input.BufferDays != ticket.BufferDays {
		ticket.BufferDays = *input.BufferDays
		reschedule = true
	}
	if input.NewUserID != nil && strings.TrimSpace(*input.NewUserID) != "" {
		ticket.UserID = strings.TrimSpace(*input.NewUserID)
	}
	if input.ClearTechnical {
		ticket.TechnicalUserID = nil
	} else if input.TechnicalUserID != nil {
		ticket.TechnicalUserID = input.TechnicalUserID
	}
	if input.ClearFunctional {
		ticket.FunctionalUserID = nil
	} else if input.FunctionalUserID != nil {
		ticket.FunctionalUserID = input.FunctionalUserID
	}
	if input.StartDate != nil {
		start := domain.DateOnly(*input.StartDate)
		ticket.StartDate = &start
		reschedule = true
	}
	return reschedule
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func startOrZeroTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// mapSchedulingError converts scheduler failures into conflict responses; the
// transaction they ran in has already been rolled back.
func mapSchedulingError(err error) error {
	if err == nil {
		return nil
	}
	var incomplete *scheduling.SchedulingIncompleteError
	if errors.As(err, &incomplete) {
		return apperrors.NewConflict("could not place all requested hours", map[string]any{
			"ticket_id":       incomplete.TicketID,
			"user_id":         incomplete.UserID,
			"requested_hours": incomplete.RequestedHours,
			"placed_hours":    incomplete.PlacedHours,
		})
	}
	var failed *scheduling.RelocationFailedError
	if errors.As(err, &failed) {
		return apperrors.NewConflict("could not relocate displaced work", map[string]any{
			"ticket_id": failed.TicketID,
			"hours":     failed.Hours,
			"from_date": failed.FromDate.Format("2006-01-02"),
		})
	}
	return err
}
