package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

func TestWorkCalendarWeekends(t *testing.T) {
	c := NewWorkCalendar(nil)

	// 2026-03-02 is a Monday.
	assert.True(t, c.IsBusinessDay(date(2026, time.March, 2)))
	assert.True(t, c.IsBusinessDay(date(2026, time.March, 6)))
	assert.False(t, c.IsBusinessDay(date(2026, time.March, 7)), "Saturday")
	assert.False(t, c.IsBusinessDay(date(2026, time.March, 8)), "Sunday")
}

func TestWorkCalendarExactHoliday(t *testing.T) {
	c := NewWorkCalendar([]domain.Holiday{
		{Name: "Company day", Date: date(2026, time.March, 4), Recurring: false},
	})

	assert.False(t, c.IsBusinessDay(date(2026, time.March, 4)))
	// Same month/day the next year is unaffected for a one-off holiday.
	assert.True(t, c.IsBusinessDay(date(2027, time.March, 4)))
}

func TestWorkCalendarRecurringHoliday(t *testing.T) {
	c := NewWorkCalendar([]domain.Holiday{
		{Name: "Christmas", Date: date(2024, time.December, 25), Recurring: true},
	})

	assert.False(t, c.IsBusinessDay(date(2024, time.December, 25)))
	// Recurs every year regardless of the stored year. 2026-12-25 is a Friday.
	assert.False(t, c.IsBusinessDay(date(2026, time.December, 25)))
	assert.True(t, c.IsBusinessDay(date(2026, time.December, 24)))
}

func TestHolidayMatches(t *testing.T) {
	exact := domain.Holiday{Date: date(2026, time.May, 1)}
	assert.True(t, exact.Matches(date(2026, time.May, 1)))
	assert.False(t, exact.Matches(date(2027, time.May, 1)))

	recurring := domain.Holiday{Date: date(2024, time.May, 1), Recurring: true}
	assert.True(t, recurring.Matches(date(2030, time.May, 1)))
	assert.False(t, recurring.Matches(date(2030, time.May, 2)))
}
