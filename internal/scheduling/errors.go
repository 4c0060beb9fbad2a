package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTimeSlot means the allocator could not fit a block inside the working
// window. Capacity accounting guarantees a gap exists before the allocator
// runs, so hitting this is an internal invariant violation, not a user error.
var ErrNoTimeSlot = errors.New("no time slot fits inside the working window")

// SchedulingIncompleteError reports that the 365-day search horizon was
// exhausted before a ticket's full effort could be placed.
type SchedulingIncompleteError struct {
	TicketID       string
	UserID         string
	RequestedHours float64
	PlacedHours    float64
}

func (e *SchedulingIncompleteError) Error() string {
	return fmt.Sprintf("scheduling incomplete for ticket %s: placed %.2fh of %.2fh within the search horizon",
		e.TicketID, e.PlacedHours, e.RequestedHours)
}

// RelocationFailedError reports that a displaced block found no future slot
// within the search horizon. Without this signal the hours would silently
// vanish from the calendar.
type RelocationFailedError struct {
	TicketID string
	UserID   string
	Hours    float64
	FromDate time.Time
}

func (e *RelocationFailedError) Error() string {
	return fmt.Sprintf("relocation failed for ticket %s: no slot for %.2fh displaced from %s within the search horizon",
		e.TicketID, e.Hours, e.FromDate.Format("2006-01-02"))
}
