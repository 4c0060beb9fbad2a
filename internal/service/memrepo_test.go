package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
)

// passRunner satisfies TxRunner without a database; the fakes below ignore
// the nil transaction handed to WithTx.
type passRunner struct{}

func (passRunner) InTx(_ context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

// memDB backs the fake repositories with shared in-memory state.
type memDB struct {
	tickets     map[string]*domain.Ticket
	assignments map[string]*domain.Assignment
	users       map[string]*domain.User
	holidays    []domain.Holiday
	nextTicket  int
	nextBlock   int
}

func newMemDB() *memDB {
	return &memDB{
		tickets:     make(map[string]*domain.Ticket),
		assignments: make(map[string]*domain.Assignment),
		users:       make(map[string]*domain.User),
	}
}

func (db *memDB) addUser(id string) {
	db.users[id] = &domain.User{ID: id, Name: id, Email: id + "@test.local"}
}

// ticketHours sums every stored assignment hour for the ticket.
func (db *memDB) ticketHours(ticketID string) float64 {
	total := 0.0
	for _, a := range db.assignments {
		if a.TicketID == ticketID {
			total += a.Hours
		}
	}
	return total
}

// userBlocks returns the user's assignments sorted by date and start time.
func (db *memDB) userBlocks(userID string) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range db.assignments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].TicketID < out[j].TicketID
	})
	return out
}

type memTicketRepo struct {
	db *memDB
}

func (r *memTicketRepo) WithTx(pgx.Tx) repository.TicketRepository { return r }

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.db.nextTicket++
	ticket.ID = fmt.Sprintf("t%d", r.db.nextTicket)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.db.tickets[ticket.ID] = &copied
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.db.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.db.tickets[ticket.ID] = &copied
	return nil
}

func (r *memTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	t, ok := r.db.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Status = status
	return nil
}

func (r *memTicketRepo) UpdateSchedule(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := r.db.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	stored.StartDate = ticket.StartDate
	stored.CalculatedEnd = ticket.CalculatedEnd
	return nil
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.db.tickets, id)
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.db.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *memTicketRepo) ListActiveByIDs(_ context.Context, ids []string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, id := range ids {
		if t, ok := r.db.tickets[id]; ok && t.Status.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.db.tickets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memAssignmentRepo struct {
	db *memDB
}

func (r *memAssignmentRepo) WithTx(pgx.Tx) repository.AssignmentRepository { return r }

func (r *memAssignmentRepo) Create(_ context.Context, assignment *domain.Assignment) error {
	r.db.nextBlock++
	assignment.ID = fmt.Sprintf("a%d", r.db.nextBlock)
	assignment.Date = domain.DateOnly(assignment.Date)
	copied := *assignment
	r.db.assignments[assignment.ID] = &copied
	return nil
}

func (r *memAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.assignments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.db.assignments, id)
	return nil
}

func (r *memAssignmentRepo) DeleteForTicketsAndUser(_ context.Context, ticketIDs []string, userID string) error {
	ids := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		ids[id] = struct{}{}
	}
	for key, a := range r.db.assignments {
		if _, ok := ids[a.TicketID]; ok && a.UserID == userID {
			delete(r.db.assignments, key)
		}
	}
	return nil
}

func (r *memAssignmentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	for key, a := range r.db.assignments {
		if a.TicketID == ticketID {
			delete(r.db.assignments, key)
		}
	}
	return nil
}

func (r *memAssignmentRepo) ListForUserOnDate(_ context.Context, userID string, date time.Time) ([]domain.Assignment, error) {
	date = domain.DateOnly(date)
	var out []domain.Assignment
	for _, a := range r.db.assignments {
		if a.UserID == userID && a.Date.Equal(date) {
			copied := *a
			if t, ok := r.db.tickets[a.TicketID]; ok {
				copied.TicketPriority = t.Priority
			}
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memAssignmentRepo) ListForUserInRange(_ context.Context, userID string, from, to time.Time) ([]domain.Assignment, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	var out []domain.Assignment
	for _, a := range r.db.assignments {
		if a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartMinute < out[j].StartMinute
	})
	return out, nil
}

func (r *memAssignmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range r.db.assignments {
		if a.TicketID == ticketID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartMinute < out[j].StartMinute
	})
	return out, nil
}

func (r *memAssignmentRepo) SumHoursForUserOnDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	blocks, err := r.ListForUserOnDate(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, b := range blocks {
		total += b.Hours
	}
	return total, nil
}

func (r *memAssignmentRepo) ExistsForTicketOnDate(_ context.Context, ticketID, userID string, date time.Time) (bool, error) {
	date = domain.DateOnly(date)
	for _, a := range r.db.assignments {
		if a.TicketID == ticketID && a.UserID == userID && a.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAssignmentRepo) TicketIDsForUser(_ context.Context, userID string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range r.db.assignments {
		if a.UserID != userID {
			continue
		}
		if _, ok := seen[a.TicketID]; ok {
			continue
		}
		seen[a.TicketID] = struct{}{}
		out = append(out, a.TicketID)
	}
	sort.Strings(out)
	return out, nil
}

type memHolidayRepo struct {
	db *memDB
}

func (r *memHolidayRepo) Create(_ context.Context, holiday *domain.Holiday) error {
	holiday.ID = fmt.Sprintf("h%d", len(r.db.holidays)+1)
	r.db.holidays = append(r.db.holidays, *holiday)
	return nil
}

func (r *memHolidayRepo) Update(_ context.Context, holiday *domain.Holiday) error {
	for i := range r.db.holidays {
		if r.db.holidays[i].ID == holiday.ID {
			r.db.holidays[i] = *holiday
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memHolidayRepo) Delete(_ context.Context, id string) error {
	for i := range r.db.holidays {
		if r.db.holidays[i].ID == id {
			r.db.holidays = append(r.db.holidays[:i], r.db.holidays[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memHolidayRepo) GetByID(_ context.Context, id string) (*domain.Holiday, error) {
	for i := range r.db.holidays {
		if r.db.holidays[i].ID == id {
			copied := r.db.holidays[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memHolidayRepo) ListAll(_ context.Context) ([]domain.Holiday, error) {
	return append([]domain.Holiday(nil), r.db.holidays...), nil
}

func (r *memHolidayRepo) Upsert(_ context.Context, holiday *domain.Holiday) error {
	for i := range r.db.holidays {
		if domain.DateOnly(r.db.holidays[i].Date).Equal(domain.DateOnly(holiday.Date)) {
			return nil
		}
	}
	return r.Create(context.Background(), holiday)
}

type memUserRepo struct {
	db *memDB
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.db.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.db.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) ListByRole(_ context.Context, role domain.RoleType) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.db.users {
		if u.Role != nil && *u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.db.users {
		out = append(out, *u)
	}
	return out, nil
}
