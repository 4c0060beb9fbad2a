package scheduling

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// The probe previews at the historical fixed rate of 4h/day regardless of the
// eventual ticket's HoursPerDay or priority.
const probeHoursPerDay = 4.0

// Load thresholds for classifying a probed day.
const (
	probeFullThreshold    = MaxDailyHours
	probeWarningThreshold = 6.0
)

// ProbeSeverity summarizes an availability report.
type ProbeSeverity string

const (
	SeveritySuccess ProbeSeverity = "success"
	SeverityWarning ProbeSeverity = "warning"
	SeverityError   ProbeSeverity = "error"
)

// ProbeDay classifies one probed date.
type ProbeDay struct {
	Date           time.Time
	AssignedHours  float64
	AvailableHours float64
}

// AvailabilityReport is the probe's classification of the scanned range.
type AvailabilityReport struct {
	FullDays []ProbeDay
	Warnings []ProbeDay
	Severity ProbeSeverity
	Message  string
}

// AvailabilityProbe is a non-mutating look-ahead over a user's calendar,
// invoked before committing a new ticket. It takes no reservation: the
// calendar may change between probe and scheduling.
type AvailabilityProbe struct {
	ledger   *AvailabilityLedger
	calendar *WorkCalendar
}

// NewAvailabilityProbe constructs a probe.
func NewAvailabilityProbe(assignments AssignmentStore, calendar *WorkCalendar) *AvailabilityProbe {
	return &AvailabilityProbe{
		ledger:   NewAvailabilityLedger(assignments),
		calendar: calendar,
	}
}

// CheckAvailability scans ceil(totalHours/4) business days from startDate and
// flags days already at capacity (>=8h) or nearly so (>=6h).
func (p *AvailabilityProbe) CheckAvailability(ctx context.Context, userID string, startDate time.Time, totalHours float64) (*AvailabilityReport, error) {
	daysNeeded := int(math.Ceil(totalHours / probeHoursPerDay))
	report := &AvailabilityReport{}

	for i := 0; i < daysNeeded; i++ {
		date := domain.DateOnly(startDate).AddDate(0, 0, i)
		for skipped := 0; !p.calendar.IsBusinessDay(date) && skipped < SearchHorizonDays; skipped++ {
			date = date.AddDate(0, 0, 1)
		}

		load, err := p.ledger.DailyLoad(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		switch {
		case load >= probeFullThreshold:
			report.FullDays = append(report.FullDays, ProbeDay{Date: date, AssignedHours: load})
		case load >= probeWarningThreshold:
			report.Warnings = append(report.Warnings, ProbeDay{
				Date:           date,
				AssignedHours:  load,
				AvailableHours: MaxDailyHours - load,
			})
		}
	}

	switch {
	case len(report.FullDays) > 0:
		report.Severity = SeverityError
		report.Message = fmt.Sprintf("User has %d fully booked day(s) (8h) in the selected range. Existing assignments will be displaced according to priority.", len(report.FullDays))
	case len(report.Warnings) > 0:
		report.Severity = SeverityWarning
		report.Message = fmt.Sprintf("User has %d day(s) with more than 6 hours assigned. Availability is limited.", len(report.Warnings))
	default:
		report.Severity = SeveritySuccess
		report.Message = "User has good availability in the selected range."
	}
	return report, nil
}
