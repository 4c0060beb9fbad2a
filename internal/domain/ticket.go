package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusCancelled  TicketStatus = "cancelled"
	TicketStatusStopped    TicketStatus = "stopped"
)

// IsActive reports whether the ticket still participates in calendar
// scheduling. Completed, cancelled and stopped are terminal states driven
// from outside the scheduler.
func (s TicketStatus) IsActive() bool {
	return s == TicketStatusPending || s == TicketStatusInProgress
}

// Ticket priority bounds. Priority 1 is the highest and displaces any other
// ticket; priority 5 is the lowest.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
)

// MinTicketHours is the smallest schedulable effort estimate.
const MinTicketHours = 0.5

// Ticket is the unit of estimated effort placed onto a user's calendar.
// UserID is the single scheduling assignee; the technical and functional
// contacts are reference fields and never receive calendar blocks.
type Ticket struct {
	ID               string
	Title            string
	Description      string
	Priority         int
	TotalHours       float64
	HoursPerDay      float64
	Status           TicketStatus
	CreatedBy        string
	UserID           string
	TechnicalUserID  *string
	FunctionalUserID *string
	StartDate        *time.Time
	CalculatedEnd    *time.Time
	BufferDays       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
