package events

import (
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketScheduled     EventType = "ticket_scheduled"
	EventTicketReassigned    EventType = "ticket_reassigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventCalendarReorganized EventType = "calendar_reorganized"
	EventHolidaysSynced      EventType = "holidays_synced"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Priority   int     `json:"priority"`
	TotalHours float64 `json:"total_hours"`
	Title      string  `json:"title"`
}

// TicketScheduledPayload payload.
type TicketScheduledPayload struct {
	UserID    string     `json:"user_id"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// TicketReassignedPayload payload.
type TicketReassignedPayload struct {
	FromUserID *string `json:"from_user_id,omitempty"`
	ToUserID   string  `json:"to_user_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// CalendarReorganizedPayload payload.
type CalendarReorganizedPayload struct {
	UserID      string `json:"user_id"`
	TicketCount int    `json:"ticket_count"`
}

// HolidaysSyncedPayload payload.
type HolidaysSyncedPayload struct {
	CountryCode string `json:"country_code"`
	Imported    int    `json:"imported"`
}
