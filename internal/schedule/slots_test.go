package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeSlotsEmptyCalendar(t *testing.T) {
	hours := DayHours{Start: at(8, 0), End: at(17, 0)}

	slots := FreeSlots(hours, time.Hour, 30*time.Minute, nil)

	// 08:00 through 16:00 inclusive in 30 minute steps.
	require.Len(t, slots, 17)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(9, 0), slots[0].End)
	assert.Equal(t, at(16, 0), slots[16].Start)
	assert.Equal(t, at(17, 0), slots[16].End)
}

func TestFreeSlotsRespectsBookings(t *testing.T) {
	hours := DayHours{Start: at(8, 0), End: at(17, 0)}
	busy := []Booking{{WorkOrderID: "wo-1", Start: at(9, 0), End: at(10, 0)}}

	slots := FreeSlots(hours, 30*time.Minute, 30*time.Minute, busy)

	starts := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.Start)
	}
	assert.Contains(t, starts, at(8, 0))
	assert.Contains(t, starts, at(8, 30))
	assert.NotContains(t, starts, at(9, 0))
	assert.NotContains(t, starts, at(9, 30))
	assert.Contains(t, starts, at(10, 0), "a slot may start exactly when the booking ends")
	assert.Contains(t, starts, at(16, 30))
	require.Len(t, slots, 16)
}

func TestFreeSlotsDurationMustFit(t *testing.T) {
	hours := DayHours{Start: at(8, 0), End: at(9, 30)}

	slots := FreeSlots(hours, time.Hour, 30*time.Minute, nil)

	// Only 08:00-09:00 fits; 08:30-09:30 touches the end and also fits,
	// 09:00-10:00 does not.
	require.Len(t, slots, 2)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(8, 30), slots[1].Start)
}

func TestFreeSlotsDegenerateInputs(t *testing.T) {
	hours := DayHours{Start: at(8, 0), End: at(17, 0)}

	assert.Nil(t, FreeSlots(hours, 0, 30*time.Minute, nil), "zero duration yields nothing")
	assert.Nil(t, FreeSlots(DayHours{Start: at(17, 0), End: at(8, 0)}, time.Hour, 30*time.Minute, nil), "inverted window yields nothing")

	slots := FreeSlots(hours, time.Hour, 0, nil)
	require.NotEmpty(t, slots, "non-positive step falls back to the default interval")
	assert.Equal(t, at(8, 30), slots[1].Start)
}

func TestFreeSlotsFullyBookedDay(t *testing.T) {
	hours := DayHours{Start: at(8, 0), End: at(12, 0)}
	busy := []Booking{{WorkOrderID: "wo-1", Start: at(8, 0), End: at(12, 0)}}

	assert.Empty(t, FreeSlots(hours, time.Hour, 30*time.Minute, busy))
}
