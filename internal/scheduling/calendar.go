package scheduling

import (
	"time"

	"github.com/rickar/cal/v2"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// WorkCalendar decides whether a date is a valid working day: a Monday-Friday
// weekday that is neither an exact-date holiday nor a recurring month/day
// holiday.
type WorkCalendar struct {
	cal *cal.BusinessCalendar
}

// NewWorkCalendar builds a calendar from the current holiday records.
// Recurring holidays become unbounded month/day rules; one-off holidays are
// pinned to their year.
func NewWorkCalendar(holidays []domain.Holiday) *WorkCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = "scheduling"
	for i := range holidays {
		h := &holidays[i]
		rule := &cal.Holiday{
			Name:        h.Name,
			Description: h.Description,
			Type:        cal.ObservancePublic,
			Month:       h.Date.Month(),
			Day:         h.Date.Day(),
			Func:        cal.CalcDayOfMonth,
		}
		if !h.Recurring {
			rule.StartYear = h.Date.Year()
			rule.EndYear = h.Date.Year()
		}
		c.AddHoliday(rule)
	}
	return &WorkCalendar{cal: c}
}

// IsBusinessDay reports whether work may be scheduled on the given date.
func (w *WorkCalendar) IsBusinessDay(date time.Time) bool {
	return w.cal.IsWorkday(domain.DateOnly(date))
}
