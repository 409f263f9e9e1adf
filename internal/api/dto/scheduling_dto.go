package dto

import (
	"time"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// ScheduleAppointmentRequest payload.
type ScheduleAppointmentRequest struct {
	WorkOrderID  string    `json:"work_order_id" validate:"required"`
	StartTime    time.Time `json:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" validate:"required"`
	TechnicianID *string   `json:"technician_id"`
	Notes        *string   `json:"notes"`
}

// AppointmentResponse is the booking view returned after scheduling.
type AppointmentResponse struct {
	ID             string                 `json:"id"`
	WorkOrderID    string                 `json:"work_order_id"`
	OrderNumber    string                 `json:"order_number"`
	Title          string                 `json:"title"`
	StartTime      *time.Time             `json:"start_time"`
	EndTime        *time.Time             `json:"end_time"`
	ClientID       string                 `json:"client_id"`
	TechnicianID   *string                `json:"technician_id"`
	TechnicianName string                 `json:"technician_name"`
	Status         domain.WorkOrderStatus `json:"status"`
	Notes          *string                `json:"notes,omitempty"`
}

// SlotResponse is one available appointment slot.
type SlotResponse struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	TechnicianID   string    `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
}

// DateRange labels a feed's period.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleFeedResponse is the calendar view for a date range.
type ScheduleFeedResponse struct {
	Appointments         []AppointmentResponse `json:"appointments"`
	DateRange            DateRange             `json:"date_range"`
	AvailableTechnicians []TechnicianSummary   `json:"available_technicians"`
}
