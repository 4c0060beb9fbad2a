package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

func newTestEngine(store *memStore, holidays []domain.Holiday) *DisplacementEngine {
	return NewDisplacementEngine(store, store, NewWorkCalendar(holidays), zap.NewNop())
}

func TestFreeCapacityEmptyDay(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, nil)
	candidate := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 4})

	available, err := e.FreeCapacity(context.Background(), candidate, nil, "u1", date(2026, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, MaxDailyHours, available)
}

func TestFreeCapacityPartialDayReturnsRemainder(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, nil)
	candidate := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 4})
	store.addTicket(domain.Ticket{ID: "t2", Priority: 5, TotalHours: 6})
	monday := date(2026, time.March, 2)
	store.addAssignment(domain.Assignment{TicketID: "t2", UserID: "u1", Date: monday, StartMinute: 9 * 60, EndMinute: 15 * 60, Hours: 6})

	blocks, err := store.ListForUserOnDate(context.Background(), "u1", monday)
	require.NoError(t, err)
	available, err := e.FreeCapacity(context.Background(), candidate, blocks, "u1", monday)
	require.NoError(t, err)
	assert.Equal(t, 2.0, available)
	// Nothing was displaced.
	assert.Len(t, store.userBlocks("u1"), 1)
}

func TestFreeCapacityFullDayNoDisplaceableBlocks(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, nil)
	candidate := store.addTicket(domain.Ticket{ID: "t1", Priority: 3, TotalHours: 4})
	store.addTicket(domain.Ticket{ID: "t2", Priority: 2, TotalHours: 8})
	monday := date(2026, time.March, 2)
	store.addAssignment(domain.Assignment{TicketID: "t2", UserID: "u1", Date: monday, StartMinute: 9 * 60, EndMinute: 17 * 60, Hours: 8})

	blocks, err := store.ListForUserOnDate(context.Background(), "u1", monday)
	require.NoError(t, err)
	available, err := e.FreeCapacity(context.Background(), candidate, blocks, "u1", monday)
	require.NoError(t, err)
	assert.Equal(t, 0.0, available, "higher-priority work is not displaced")
}

func TestFreeCapacityStopsOnceDayHasRoom(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store, nil)
	candidate := store.addTicket(domain.Ticket{ID: "t1", Priority: 2, TotalHours: 4})
	store.addTicket(domain.Ticket{ID: "t4", Priority: 4, TotalHours: 4})
	store.addTicket(domain.Ticket{ID: "t5", Priority: 5, TotalHours: 4})
	monday := date(2026, time.March, 2)
	store.addAssignment(domain.Assignment{TicketID: "t4", UserID: "u1", Date: monday, StartMinute: 9 * 60, EndMinute: 13 * 60, Hours: 4})
	store.addAssignment(domain.Assignment{TicketID: "t5", UserID: "u1", Date: monday, StartMinute: 13 * 60, EndMinute: 17 * 60, Hours: 4})

	blocks, err := store.ListForUserOnDate(context.Background(), "u1", monday)
	require.NoError(t, err)
	available, err := e.FreeCapacity(context.Background(), candidate, blocks, "u1", monday)
	require.NoError(t, err)
	assert.Equal(t, 4.0, available)

	// The least-important ticket moved to Tuesday; the priority-4 block stayed.
	monBlocks, err := store.ListForUserOnDate(context.Background(), "u1", monday)
	require.NoError(t, err)
	require.Len(t, monBlocks, 1)
	assert.Equal(t, "t4", monBlocks[0].TicketID)

	tueBlocks, err := store.ListForUserOnDate(context.Background(), "u1", date(2026, time.March, 3))
	require.NoError(t, err)
	require.Len(t, tueBlocks, 1)
	assert.Equal(t, "t5", tueBlocks[0].TicketID)
}

func TestPriorityOneDisplacesFullDay(t *testing.T) {
	store := newMemStore()
	s := newTestScheduler(store, nil)
	monday := date(2026, time.March, 2)
	tuesday := date(2026, time.March, 3)

	low := store.addTicket(domain.Ticket{ID: "t5", Priority: 5, TotalHours: 8, Status: domain.TicketStatusInProgress, BufferDays: 0})
	store.addAssignment(domain.Assignment{TicketID: "t5", UserID: "u1", Date: monday, StartMinute: 9 * 60, EndMinute: 17 * 60, Hours: 8})

	urgent := store.addTicket(domain.Ticket{ID: "t1", Priority: 1, TotalHours: 8})
	require.NoError(t, s.AssignTicketToUser(context.Background(), urgent, "u1", monday))

	monBlocks, err := store.ListForUserOnDate(context.Background(), "u1", monday)
	require.NoError(t, err)
	require.Len(t, monBlocks, 1)
	assert.Equal(t, "t1", monBlocks[0].TicketID)
	assert.Equal(t, 9*60, monBlocks[0].StartMinute)
	assert.Equal(t, 17*60, monBlocks[0].EndMinute)

	tueBlocks, err := store.ListForUserOnDate(context.Background(), "u1", tuesday)
	require.NoError(t, err)
	require.Len(t, tueBlocks, 1)
	assert.Equal(t, "t5", tueBlocks[0].TicketID)
	assert.Equal(t, 8.0, tueBlocks[0].Hours)

	// Both tickets' schedule bounds reflect the new dates.
	urgentStored, err := store.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, urgentStored.CalculatedEnd)
	assert.Equal(t, monday, *urgentStored.CalculatedEnd)

	lowStored, err := store.GetByID(context.Background(), low.ID)
	require.NoError(t, err)
	require.NotNil(t, lowStored.CalculatedEnd)
	assert.Equal(t, tuesday, *lowStored.CalculatedEnd)
}

func TestRelocateHorizonExhausted(t *testing.T) {
	store := newMemStore()
	// Every day of the year is a recurring holiday: no relocation target exists.
	var holidays []domain.Holiday
	for d := date(2024, time.January, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		holidays = append(holidays, domain.Holiday{Name: "blocked", Date: d, Recurring: true})
	}
	e := newTestEngine(store, holidays)

	store.addTicket(domain.Ticket{ID: "t5", Priority: 5, TotalHours: 8})
	block := &domain.Assignment{TicketID: "t5", UserID: "u1", Date: date(2026, time.March, 2), StartMinute: 9 * 60, EndMinute: 17 * 60, Hours: 8}
	require.NoError(t, store.Create(context.Background(), block))

	err := e.relocate(context.Background(), *block, "u1")
	var failed *RelocationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "t5", failed.TicketID)
	assert.Equal(t, 8.0, failed.Hours)
	assert.Equal(t, date(2026, time.March, 2), failed.FromDate)
}
