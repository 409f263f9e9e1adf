package schedule

import "time"

// DefaultSlotInterval is the step between candidate slot starts.
const DefaultSlotInterval = 30 * time.Minute

// Slot is a bookable [Start, End) interval offered by a technician. Slots are
// derived on demand and never persisted.
type Slot struct {
	Start          time.Time
	End            time.Time
	TechnicianID   string
	TechnicianName string
}

// FreeSlots walks the working window from its start in step increments and
// returns every candidate of the requested duration that fits before the
// window's end and does not overlap an existing booking. Results are
// chronological.
func FreeSlots(hours DayHours, duration, step time.Duration, busy []Booking) []DayHours {
	if duration <= 0 {
		return nil
	}
	if step <= 0 {
		step = DefaultSlotInterval
	}

	var free []DayHours
	for start := hours.Start; !start.Add(duration).After(hours.End); start = start.Add(step) {
		end := start.Add(duration)
		if HasConflict(start, end, busy, "") {
			continue
		}
		free = append(free, DayHours{Start: start, End: end})
	}
	return free
}
