package scheduling

import (
	"math"
	"sort"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// Working window: 09:00-17:00, expressed in minutes from midnight.
const (
	WorkDayStartMinute = 9 * 60
	WorkDayEndMinute   = 17 * 60
)

// Slot is a concrete start/end placement inside the working window.
type Slot struct {
	StartMinute int
	EndMinute   int
}

// FindSlot picks the first gap between the window start, the existing blocks
// and the window end that fits the requested hours. Returns ErrNoTimeSlot if
// nothing fits, which indicates a capacity-accounting bug upstream.
func FindSlot(blocks []domain.Assignment, hours float64) (Slot, error) {
	needed := minutesFor(hours)
	if len(blocks) == 0 {
		if WorkDayStartMinute+needed > WorkDayEndMinute {
			return Slot{}, ErrNoTimeSlot
		}
		return Slot{StartMinute: WorkDayStartMinute, EndMinute: WorkDayStartMinute + needed}, nil
	}

	sorted := make([]domain.Assignment, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMinute < sorted[j].StartMinute })

	cursor := WorkDayStartMinute
	for i := range sorted {
		if cursor+needed <= sorted[i].StartMinute {
			return Slot{StartMinute: cursor, EndMinute: cursor + needed}, nil
		}
		if sorted[i].EndMinute > cursor {
			cursor = sorted[i].EndMinute
		}
	}
	if cursor+needed <= WorkDayEndMinute {
		return Slot{StartMinute: cursor, EndMinute: cursor + needed}, nil
	}
	return Slot{}, ErrNoTimeSlot
}

// AnchorSlot places hours at the start of the working window. Priority-1
// tickets use this instead of gap search: the displacement engine has already
// cleared the day by the time they allocate.
func AnchorSlot(hours float64) Slot {
	needed := minutesFor(hours)
	return Slot{StartMinute: WorkDayStartMinute, EndMinute: WorkDayStartMinute + needed}
}

func minutesFor(hours float64) int {
	return int(math.Round(hours * 60))
}
