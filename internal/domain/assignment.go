package domain

import (
	"fmt"
	"time"
)

// Assignment is one contiguous block of committed work: hours of one ticket
// on one date for one user. Start and end are minutes from midnight.
type Assignment struct {
	ID          string
	TicketID    string
	UserID      string
	Date        time.Time
	StartMinute int
	EndMinute   int
	Hours       float64

	// TicketPriority is populated by day-level queries that join the owning
	// ticket; the displacement engine orders candidates by it.
	TicketPriority int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartClock returns the block start as "HH:MM".
func (a *Assignment) StartClock() string { return ClockFromMinute(a.StartMinute) }

// EndClock returns the block end as "HH:MM".
func (a *Assignment) EndClock() string { return ClockFromMinute(a.EndMinute) }

// ClockFromMinute formats minutes-from-midnight as "HH:MM".
func ClockFromMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DateOnly truncates t to its calendar date in UTC. Scheduling arithmetic
// works on dates only; times of day live in assignment minutes.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
