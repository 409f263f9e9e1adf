package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TechnicianStatus enumerates employment states.
type TechnicianStatus string

const (
	TechnicianStatusActive   TechnicianStatus = "active"
	TechnicianStatusInactive TechnicianStatus = "inactive"
	TechnicianStatusOnLeave  TechnicianStatus = "on_leave"
)

// Technician is the aggregate for schedulable field workers.
type Technician struct {
	ID           string
	UserID       string
	EmployeeID   *string
	Name         string
	Skills       []string
	HourlyRate   *float64
	MaxDailyJobs int
	Status       TechnicianStatus
	Availability *Availability
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSchedulable reports whether new appointments may be booked for the technician.
func (t *Technician) IsSchedulable() bool {
	return t != nil && t.Status == TechnicianStatusActive
}

// weekDayNames is the canonical lowercase weekday vocabulary used by the
// stored availability blob.
var weekDayNames = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// WeekdayName returns the lowercase weekday name for a timestamp.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// TimeWindow is a daily working-hours interval with minute precision.
// Start and End keep their stored "HH:MM" form so the blob round-trips.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Minutes parses the window into minutes-since-midnight values.
func (w TimeWindow) Minutes() (start, end int, err error) {
	start, err = ParseClockMinutes(w.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClockMinutes(w.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseClockMinutes parses an "HH:MM" string into minutes since midnight.
func ParseClockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hour*60 + minute, nil
}

// DateException overrides the recurring schedule for a single calendar date.
type DateException struct {
	Date         string      `json:"date"`
	Available    bool        `json:"available"`
	WorkingHours *TimeWindow `json:"workingHours,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}

// Availability is a technician's recurring weekly schedule plus dated
// exceptions. Field names match the persisted JSON blob exactly.
type Availability struct {
	WorkDays   []string        `json:"workDays"`
	WorkHours  TimeWindow      `json:"workHours"`
	Exceptions []DateException `json:"exceptions"`
}

// DefaultAvailability returns the fallback schedule used when a technician
// has no availability record: Monday-Friday 08:00-17:00.
func DefaultAvailability() *Availability {
	return &Availability{
		WorkDays:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		WorkHours: TimeWindow{Start: "08:00", End: "17:00"},
	}
}

// WorksOn reports whether the recurring schedule includes the given weekday.
// An empty work-day list leaves the weekday gate open, matching records that
// only define working hours.
func (a *Availability) WorksOn(day string) bool {
	if a == nil || len(a.WorkDays) == 0 {
		return true
	}
	for _, d := range a.WorkDays {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}

// ExceptionFor returns the first exception matching the given date, if any.
// Duplicate dates should not exist in validated records; first match wins for
// legacy data.
func (a *Availability) ExceptionFor(date string) *DateException {
	if a == nil {
		return nil
	}
	for i := range a.Exceptions {
		if a.Exceptions[i].Date == date {
			return &a.Exceptions[i]
		}
	}
	return nil
}

// Validate checks the availability record before it is written: known weekday
// names, a well-ordered work-hours window, parseable exception dates, and no
// duplicate exception dates.
func (a *Availability) Validate() error {
	if a == nil {
		return fmt.Errorf("availability required")
	}
	for _, day := range a.WorkDays {
		if !weekDayNames[strings.ToLower(day)] {
			return fmt.Errorf("unknown work day %q", day)
		}
	}
	start, end, err := a.WorkHours.Minutes()
	if err != nil {
		return fmt.Errorf("work hours: %w", err)
	}
	if end <= start {
		return fmt.Errorf("work hours end %q must be after start %q", a.WorkHours.End, a.WorkHours.Start)
	}
	seen := make(map[string]bool, len(a.Exceptions))
	for _, exc := range a.Exceptions {
		if _, err := time.Parse("2006-01-02", exc.Date); err != nil {
			return fmt.Errorf("exception date %q: expected YYYY-MM-DD", exc.Date)
		}
		if seen[exc.Date] {
			return fmt.Errorf("duplicate exception for date %s", exc.Date)
		}
		seen[exc.Date] = true
		if exc.WorkingHours != nil {
			excStart, excEnd, err := exc.WorkingHours.Minutes()
			if err != nil {
				return fmt.Errorf("exception %s working hours: %w", exc.Date, err)
			}
			if excEnd <= excStart {
				return fmt.Errorf("exception %s working hours end must be after start", exc.Date)
			}
		}
	}
	return nil
}
