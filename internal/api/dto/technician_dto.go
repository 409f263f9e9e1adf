package dto

import (
	"time"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// TimeWindowRequest is an HH:MM working-hours interval.
type TimeWindowRequest struct {
	Start string `json:"start" validate:"required,len=5"`
	End   string `json:"end" validate:"required,len=5"`
}

// ExceptionRequest is a dated availability override.
type ExceptionRequest struct {
	Date         string             `json:"date" validate:"required,datetime=2006-01-02"`
	Available    bool               `json:"available"`
	WorkingHours *TimeWindowRequest `json:"working_hours" validate:"omitempty"`
	Reason       string             `json:"reason"`
}

// UpdateAvailabilityRequest replaces a technician's schedule settings.
type UpdateAvailabilityRequest struct {
	WorkDays   []string           `json:"work_days" validate:"required,min=1,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	WorkHours  TimeWindowRequest  `json:"work_hours" validate:"required"`
	Exceptions []ExceptionRequest `json:"exceptions" validate:"dive"`
	Status     *string            `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

// TechnicianSummary response.
type TechnicianSummary struct {
	ID     string                  `json:"id"`
	Name   string                  `json:"name"`
	Status domain.TechnicianStatus `json:"status"`
	Skills []string                `json:"skills,omitempty"`
}

// AvailabilityResponse is a technician's schedule settings plus bookings.
type AvailabilityResponse struct {
	TechnicianID   string                  `json:"technician_id"`
	TechnicianName string                  `json:"technician_name"`
	Status         domain.TechnicianStatus `json:"status"`
	Availability   domain.Availability     `json:"availability"`
	Appointments   []AppointmentResponse   `json:"appointments"`
	DateRange      DateRange               `json:"date_range"`
}

// WorkloadResponse summarizes a technician's assigned jobs for a period.
type WorkloadResponse struct {
	TechnicianID    string              `json:"technician_id"`
	TechnicianName  string              `json:"technician_name"`
	DateRange       DateRange           `json:"date_range"`
	TotalJobs       int                 `json:"total_jobs"`
	CompletedJobs   int                 `json:"completed_jobs"`
	InProgressJobs  int                 `json:"in_progress_jobs"`
	PendingJobs     int                 `json:"pending_jobs"`
	ScheduledJobs   int                 `json:"scheduled_jobs"`
	TotalHours      float64             `json:"total_hours"`
	JobsByDay       map[string]int      `json:"jobs_by_day"`
	UtilizationRate float64             `json:"utilization_rate"`
	Jobs            []WorkOrderResponse `json:"jobs"`
}

// ToAvailability converts the request to the domain value object.
func (r UpdateAvailabilityRequest) ToAvailability() *domain.Availability {
	availability := &domain.Availability{
		WorkDays: r.WorkDays,
		WorkHours: domain.TimeWindow{
			Start: r.WorkHours.Start,
			End:   r.WorkHours.End,
		},
		Exceptions: make([]domain.DateException, 0, len(r.Exceptions)),
	}
	for _, exc := range r.Exceptions {
		converted := domain.DateException{
			Date:      exc.Date,
			Available: exc.Available,
			Reason:    exc.Reason,
		}
		if exc.WorkingHours != nil {
			converted.WorkingHours = &domain.TimeWindow{
				Start: exc.WorkingHours.Start,
				End:   exc.WorkingHours.End,
			}
		}
		availability.Exceptions = append(availability.Exceptions, converted)
	}
	return availability
}

// UpdatedAvailabilityResponse acknowledges an availability replacement.
type UpdatedAvailabilityResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Status       domain.TechnicianStatus `json:"status"`
	Availability domain.Availability     `json:"availability"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
