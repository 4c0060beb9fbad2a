package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

func newTestScheduler(store *memStore, holidays []domain.Holiday) *Scheduler {
	return NewScheduler(store, store, NewWorkCalendar(holidays), zap.NewNop())
}

func TestAssignSpreadsHoursAcrossDays(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 8, BufferDays: 2})
	s := newTestScheduler(store, nil)

	monday := date(2026, time.March, 2)
	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", monday))

	blocks := store.userBlocks("u1")
	require.Len(t, blocks, 2)
	assert.Equal(t, monday, blocks[0].Date)
	assert.Equal(t, date(2026, time.March, 3), blocks[1].Date)
	for _, b := range blocks {
		assert.Equal(t, 9*60, b.StartMinute)
		assert.Equal(t, 13*60, b.EndMinute)
		assert.Equal(t, 4.0, b.Hours)
	}

	stored, err := store.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	require.NotNil(t, stored.StartDate)
	assert.Equal(t, monday, *stored.StartDate)
	require.NotNil(t, stored.CalculatedEnd)
	assert.Equal(t, date(2026, time.March, 5), *stored.CalculatedEnd, "last block + buffer days")
}

func TestAssignHalfHourTicket(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 0.5})
	s := newTestScheduler(store, nil)

	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2)))

	blocks := store.userBlocks("u1")
	require.Len(t, blocks, 1)
	assert.Equal(t, 0.5, blocks[0].Hours)
	assert.Equal(t, 9*60, blocks[0].StartMinute)
	assert.Equal(t, 9*60+30, blocks[0].EndMinute)
}

func TestAssignSkipsWeekend(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 4})
	s := newTestScheduler(store, nil)

	// 2026-03-07 is a Saturday; the first block lands on Monday.
	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 7)))

	blocks := store.userBlocks("u1")
	require.Len(t, blocks, 1)
	assert.Equal(t, date(2026, time.March, 9), blocks[0].Date)
}

func TestAssignSkipsRecurringHoliday(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 8})
	holidays := []domain.Holiday{
		{Name: "Christmas", Date: date(2024, time.December, 25), Recurring: true},
	}
	s := newTestScheduler(store, holidays)

	// Thursday Dec 24; Dec 25 is a holiday, Dec 26/27 the weekend.
	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.December, 24)))

	blocks := store.userBlocks("u1")
	require.Len(t, blocks, 2)
	assert.Equal(t, date(2026, time.December, 24), blocks[0].Date)
	assert.Equal(t, date(2026, time.December, 28), blocks[1].Date)
}

func TestAssignRespectsDailyCapacityAcrossTickets(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(store, nil)
	monday := date(2026, time.March, 2)

	for _, id := range []string{"t1", "t2", "t3"} {
		ticket := store.addTicket(domain.Ticket{ID: id, Priority: 3, TotalHours: 4})
		require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", monday))
	}

	perDay := make(map[time.Time]float64)
	for _, b := range store.userBlocks("u1") {
		perDay[b.Date] += b.Hours
	}
	assert.Equal(t, 8.0, perDay[monday])
	assert.Equal(t, 4.0, perDay[date(2026, time.March, 3)])
	for day, hours := range perDay {
		assert.LessOrEqual(t, hours, MaxDailyHours, "overbooked %s", day)
	}
}

func TestAssignOneBlockPerDayForRegularTickets(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 12})
	s := newTestScheduler(store, nil)

	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2)))

	seen := make(map[time.Time]int)
	for _, b := range store.userBlocks("u1") {
		seen[b.Date]++
	}
	for day, count := range seen {
		assert.Equal(t, 1, count, "multiple blocks on %s", day)
	}
	assert.Len(t, seen, 3)
}

func TestAssignPriorityOneUsesFullDay(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 1, TotalHours: 16})
	s := newTestScheduler(store, nil)

	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2)))

	blocks := store.userBlocks("u1")
	require.Len(t, blocks, 2)
	for _, b := range blocks {
		assert.Equal(t, 8.0, b.Hours)
		assert.Equal(t, 9*60, b.StartMinute)
		assert.Equal(t, 17*60, b.EndMinute)
	}
}

func TestAssignHorizonExhaustion(t *testing.T) {
	store := newMemStore()
	// Far more hours than 365 calendar days can hold at 4h per business day.
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 2000})
	s := newTestScheduler(store, nil)

	err := s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2))
	var incomplete *SchedulingIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "t1", incomplete.TicketID)
	assert.Equal(t, 2000.0, incomplete.RequestedHours)
	assert.Greater(t, incomplete.PlacedHours, 0.0)
	assert.Less(t, incomplete.PlacedHours, incomplete.RequestedHours)

	// Partial placement still stamps the schedule fields.
	stored, err := store.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	assert.NotNil(t, stored.CalculatedEnd)
}

func TestAssignRejectsTerminalStatus(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 4, Status: domain.TicketStatusCompleted})
	s := newTestScheduler(store, nil)

	err := s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2))
	assert.Error(t, err)
	assert.Empty(t, store.userBlocks("u1"))
}

func TestAssignTotalsNeverExceedTicketHours(t *testing.T) {
	store := newMemStore()
	ticket := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 6.5})
	s := newTestScheduler(store, nil)

	require.NoError(t, s.AssignTicketToUser(context.Background(), ticket, "u1", date(2026, time.March, 2)))

	total := 0.0
	for _, b := range store.userBlocks("u1") {
		total += b.Hours
	}
	assert.Equal(t, 6.5, total)
}

func TestAssignIncompleteErrorMessage(t *testing.T) {
	err := &SchedulingIncompleteError{TicketID: "t9", RequestedHours: 10, PlacedHours: 4}
	assert.Contains(t, err.Error(), "t9")
	assert.True(t, errors.As(error(err), new(*SchedulingIncompleteError)))
}
