package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// memStore is an in-memory TicketStore/AssignmentStore used by the core
// tests. Reads return copies so tests behave like a real store.
type memStore struct {
	tickets     map[string]*domain.Ticket
	assignments map[string]*domain.Assignment
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		tickets:     make(map[string]*domain.Ticket),
		assignments: make(map[string]*domain.Assignment),
	}
}

func (m *memStore) addTicket(t domain.Ticket) *domain.Ticket {
	if t.Status == "" {
		t.Status = domain.TicketStatusPending
	}
	if t.HoursPerDay == 0 {
		t.HoursPerDay = DefaultHoursPerDay
	}
	copied := t
	m.tickets[t.ID] = &copied
	return &t
}

func (m *memStore) addAssignment(a domain.Assignment) {
	m.nextID++
	a.ID = fmt.Sprintf("a%d", m.nextID)
	a.Date = domain.DateOnly(a.Date)
	m.assignments[a.ID] = &a
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s not found", id)
	}
	copied := *t
	return &copied, nil
}

func (m *memStore) ListActiveByIDs(_ context.Context, ids []string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, id := range ids {
		if t, ok := m.tickets[id]; ok && t.Status.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateSchedule(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := m.tickets[ticket.ID]
	if !ok {
		return fmt.Errorf("ticket %s not found", ticket.ID)
	}
	stored.Status = ticket.Status
	stored.StartDate = ticket.StartDate
	stored.CalculatedEnd = ticket.CalculatedEnd
	return nil
}

func (m *memStore) ListForUserOnDate(_ context.Context, userID string, date time.Time) ([]domain.Assignment, error) {
	date = domain.DateOnly(date)
	var out []domain.Assignment
	for _, a := range m.assignments {
		if a.UserID == userID && a.Date.Equal(date) {
			copied := *a
			if t, ok := m.tickets[a.TicketID]; ok {
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

func (m *memStore) SumHoursForUserOnDate(ctx context.Context, userID string, date time.Time) (float64, error) {
	blocks, err := m.ListForUserOnDate(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, b := range blocks {
		total += b.Hours
	}
	return total, nil
}

func (m *memStore) ExistsForTicketOnDate(_ context.Context, ticketID, userID string, date time.Time) (bool, error) {
	date = domain.DateOnly(date)
	for _, a := range m.assignments {
		if a.TicketID == ticketID && a.UserID == userID && a.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByTicket(_ context.Context, ticketID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range m.assignments {
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

func (m *memStore) TicketIDsForUser(_ context.Context, userID string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range m.assignments {
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

func (m *memStore) Create(_ context.Context, assignment *domain.Assignment) error {
	m.nextID++
	assignment.ID = fmt.Sprintf("a%d", m.nextID)
	assignment.Date = domain.DateOnly(assignment.Date)
	copied := *assignment
	m.assignments[assignment.ID] = &copied
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.assignments[id]; !ok {
		return fmt.Errorf("assignment %s not found", id)
	}
	delete(m.assignments, id)
	return nil
}

func (m *memStore) DeleteForTicketsAndUser(_ context.Context, ticketIDs []string, userID string) error {
	ids := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		ids[id] = struct{}{}
	}
	for key, a := range m.assignments {
		if _, ok := ids[a.TicketID]; ok && a.UserID == userID {
			delete(m.assignments, key)
		}
	}
	return nil
}

// userBlocks returns every assignment for the user sorted by date and start.
func (m *memStore) userBlocks(userID string) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range m.assignments {
		if a.UserID == userID {
			copied := *a
			if t, ok := m.tickets[a.TicketID]; ok {
				copied.TicketPriority = t.Priority
			}
			out = append(out, copied)
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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
