package schedule

import (
	"time"

	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// DayHours is a technician's resolved working window for one calendar date.
type DayHours struct {
	Start time.Time
	End   time.Time
}

// Resolver turns a technician's availability record into concrete working
// hours for a date. Defaults apply when the record is missing or malformed.
type Resolver struct {
	defaultHours domain.TimeWindow
	logger       *zap.Logger
}

// NewResolver creates a resolver with the given fallback working hours.
func NewResolver(defaultHours domain.TimeWindow, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{defaultHours: defaultHours, logger: logger}
}

// Resolve determines whether the technician works on the given date and, if
// so, the working window. The recurring schedule is gated by the weekday set,
// then a dated exception may override availability and hours. Records with
// unparseable time strings fall back to the default hours rather than failing.
func (r *Resolver) Resolve(av *domain.Availability, day time.Time) (DayHours, bool) {
	if av == nil {
		av = domain.DefaultAvailability()
	}

	available := av.WorksOn(domain.WeekdayName(day))
	hours := av.WorkHours
	if hours.Start == "" || hours.End == "" {
		hours = r.defaultHours
	}

	if exc := av.ExceptionFor(day.Format("2006-01-02")); exc != nil {
		available = exc.Available
		if available && exc.WorkingHours != nil {
			hours = *exc.WorkingHours
		}
	}

	if !available {
		return DayHours{}, false
	}

	startMin, endMin, err := hours.Minutes()
	if err != nil {
		r.logger.Warn("invalid working hours in availability record, using defaults",
			zap.String("date", day.Format("2006-01-02")),
			zap.Error(err))
		startMin, endMin, err = r.defaultHours.Minutes()
		if err != nil {
			return DayHours{}, false
		}
	}
	if endMin <= startMin {
		return DayHours{}, false
	}

	return DayHours{
		Start: atMinute(day, startMin),
		End:   atMinute(day, endMin),
	}, true
}

func atMinute(day time.Time, minutes int) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, minutes/60, minutes%60, 0, 0, day.Location())
}
