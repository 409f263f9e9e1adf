package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityBlobRoundTrip(t *testing.T) {
	blob := `{
		"workDays": ["monday", "wednesday", "friday"],
		"workHours": {"start": "07:30", "end": "16:00"},
		"exceptions": [
			{"date": "2024-07-04", "available": false, "reason": "holiday"},
			{"date": "2024-07-05", "available": true, "workingHours": {"start": "10:00", "end": "14:00"}}
		]
	}`

	var av Availability
	require.NoError(t, json.Unmarshal([]byte(blob), &av))
	assert.Equal(t, []string{"monday", "wednesday", "friday"}, av.WorkDays)
	assert.Equal(t, TimeWindow{Start: "07:30", End: "16:00"}, av.WorkHours)
	require.Len(t, av.Exceptions, 2)
	assert.False(t, av.Exceptions[0].Available)
	assert.Equal(t, "holiday", av.Exceptions[0].Reason)
	require.NotNil(t, av.Exceptions[1].WorkingHours)
	assert.Equal(t, "10:00", av.Exceptions[1].WorkingHours.Start)

	encoded, err := json.Marshal(av)
	require.NoError(t, err)
	var decoded Availability
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, av, decoded)
}

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"17:30", 1050, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
		{"8", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClockMinutes(tc.clock)
		if tc.wantErr {
			assert.Error(t, err, tc.clock)
		} else {
			require.NoError(t, err, tc.clock)
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestWorksOn(t *testing.T) {
	av := &Availability{WorkDays: []string{"monday", "Friday"}}
	assert.True(t, av.WorksOn("monday"))
	assert.True(t, av.WorksOn("friday"), "weekday matching is case insensitive")
	assert.False(t, av.WorksOn("sunday"))

	empty := &Availability{}
	assert.True(t, empty.WorksOn("sunday"), "empty work-day list leaves the gate open")
}

func TestExceptionForFirstMatchWins(t *testing.T) {
	av := &Availability{
		Exceptions: []DateException{
			{Date: "2024-06-10", Available: false, Reason: "first"},
			{Date: "2024-06-10", Available: true, Reason: "second"},
		},
	}
	exc := av.ExceptionFor("2024-06-10")
	require.NotNil(t, exc)
	assert.Equal(t, "first", exc.Reason)
	assert.Nil(t, av.ExceptionFor("2024-06-11"))
}

func TestAvailabilityValidate(t *testing.T) {
	valid := &Availability{
		WorkDays:  []string{"monday", "tuesday"},
		WorkHours: TimeWindow{Start: "08:00", End: "17:00"},
		Exceptions: []DateException{
			{Date: "2024-06-10", Available: false},
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("unknown weekday", func(t *testing.T) {
		av := &Availability{WorkDays: []string{"funday"}, WorkHours: TimeWindow{Start: "08:00", End: "17:00"}}
		assert.Error(t, av.Validate())
	})

	t.Run("inverted work hours", func(t *testing.T) {
		av := &Availability{WorkDays: []string{"monday"}, WorkHours: TimeWindow{Start: "17:00", End: "08:00"}}
		assert.Error(t, av.Validate())
	})

	t.Run("bad exception date", func(t *testing.T) {
		av := &Availability{
			WorkDays:   []string{"monday"},
			WorkHours:  TimeWindow{Start: "08:00", End: "17:00"},
			Exceptions: []DateException{{Date: "June 10th", Available: false}},
		}
		assert.Error(t, av.Validate())
	})

	t.Run("duplicate exception dates", func(t *testing.T) {
		av := &Availability{
			WorkDays:  []string{"monday"},
			WorkHours: TimeWindow{Start: "08:00", End: "17:00"},
			Exceptions: []DateException{
				{Date: "2024-06-10", Available: false},
				{Date: "2024-06-10", Available: true},
			},
		}
		assert.Error(t, av.Validate())
	})

	t.Run("inverted exception hours", func(t *testing.T) {
		av := &Availability{
			WorkDays:  []string{"monday"},
			WorkHours: TimeWindow{Start: "08:00", End: "17:00"},
			Exceptions: []DateException{
				{Date: "2024-06-10", Available: true, WorkingHours: &TimeWindow{Start: "14:00", End: "12:00"}},
			},
		}
		assert.Error(t, av.Validate())
	})
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "monday", WeekdayName(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sunday", WeekdayName(time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)))
}

func TestDefaultAvailability(t *testing.T) {
	av := DefaultAvailability()
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, av.WorkDays)
	assert.Equal(t, TimeWindow{Start: "08:00", End: "17:00"}, av.WorkHours)
	assert.NoError(t, av.Validate())
}
