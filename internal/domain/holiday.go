package domain

import "time"

// Holiday blocks scheduling on a calendar date. A recurring holiday blocks
// every year's occurrence of the same month/day; a non-recurring one blocks
// only the exact date.
type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Description string
	Recurring   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Matches reports whether the holiday blocks the given date.
func (h *Holiday) Matches(date time.Time) bool {
	if h.Recurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
}
