package scheduling

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// AvailabilityLedger is a read-only view of the hours already committed to a
// user on a date. Loads are always read fresh from the store so displacement
// steps within one scheduling run never see stale sums.
type AvailabilityLedger struct {
	assignments AssignmentStore
}

// NewAvailabilityLedger constructs a ledger over the assignment store.
func NewAvailabilityLedger(assignments AssignmentStore) *AvailabilityLedger {
	return &AvailabilityLedger{assignments: assignments}
}

// DailyLoad returns the sum of assignment hours for the user on the date.
func (l *AvailabilityLedger) DailyLoad(ctx context.Context, userID string, date time.Time) (float64, error) {
	return l.assignments.SumHoursForUserOnDate(ctx, userID, domain.DateOnly(date))
}
