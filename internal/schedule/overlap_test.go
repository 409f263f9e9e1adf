package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical intervals", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial overlap right", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"partial overlap left", at(9, 30), at(10, 30), at(9, 0), at(10, 0), true},
		{"containment", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"contained", at(10, 0), at(11, 0), at(9, 0), at(12, 0), true},
		{"touching end to start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start to end", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(13, 0), at(14, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1), "overlap must be symmetric")
		})
	}
}

func TestHasConflict(t *testing.T) {
	bookings := []Booking{
		{WorkOrderID: "wo-1", Start: at(9, 0), End: at(10, 0)},
		{WorkOrderID: "wo-2", Start: at(13, 0), End: at(14, 30)},
	}

	t.Run("no bookings means no conflict", func(t *testing.T) {
		assert.False(t, HasConflict(at(9, 0), at(10, 0), nil, ""))
	})

	t.Run("overlapping booking conflicts", func(t *testing.T) {
		assert.True(t, HasConflict(at(9, 30), at(10, 30), bookings, ""))
	})

	t.Run("gap between bookings is free", func(t *testing.T) {
		assert.False(t, HasConflict(at(10, 0), at(13, 0), bookings, ""))
	})

	t.Run("rescheduled order ignores itself", func(t *testing.T) {
		assert.False(t, HasConflict(at(9, 0), at(10, 0), bookings, "wo-1"))
		assert.True(t, HasConflict(at(9, 0), at(14, 0), bookings, "wo-1"), "other bookings still conflict")
	})
}
