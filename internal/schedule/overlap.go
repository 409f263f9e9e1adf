// Package schedule holds the pure scheduling core: availability resolution,
// interval overlap and slot generation. It has no persistence dependencies;
// callers feed it technician records and existing bookings.
package schedule

import "time"

// Booking is an occupied [Start, End) interval on a technician's calendar.
type Booking struct {
	WorkOrderID string
	Start       time.Time
	End         time.Time
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching intervals do not overlap: [9:00,10:00) and
// [10:00,11:00) are compatible.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// HasConflict reports whether the candidate [start, end) interval overlaps
// any of the given bookings. A booking whose work order id equals excludeID
// is skipped so an order being rescheduled never conflicts with itself.
func HasConflict(start, end time.Time, bookings []Booking, excludeID string) bool {
	for _, b := range bookings {
		if excludeID != "" && b.WorkOrderID == excludeID {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
