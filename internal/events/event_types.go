package events

import (
	"time"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentScheduled   EventType = "appointment_scheduled"
	EventTechnicianAssigned     EventType = "technician_assigned"
	EventWorkOrderStatusChanged EventType = "work_order_status_changed"
	EventAvailabilityUpdated    EventType = "availability_updated"
	EventWorkOrderCreated       EventType = "work_order_created"
)

// Event represents a domain event emitted by services after their state
// changes have been committed.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	WorkOrderID string      `json:"work_order_id,omitempty"`
	ActorUserID *string     `json:"actor_user_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// AppointmentScheduledPayload payload.
type AppointmentScheduledPayload struct {
	OrderNumber  string    `json:"order_number"`
	TechnicianID *string   `json:"technician_id,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// TechnicianAssignedPayload payload.
type TechnicianAssignedPayload struct {
	TechnicianID     string    `json:"technician_id"`
	TechnicianUserID string    `json:"technician_user_id"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
}

// WorkOrderStatusChangedPayload payload.
type WorkOrderStatusChangedPayload struct {
	OldStatus domain.WorkOrderStatus `json:"old_status"`
	NewStatus domain.WorkOrderStatus `json:"new_status"`
	Notes     string                 `json:"notes,omitempty"`
}

// AvailabilityUpdatedPayload payload.
type AvailabilityUpdatedPayload struct {
	TechnicianID string `json:"technician_id"`
}

// WorkOrderCreatedPayload payload.
type WorkOrderCreatedPayload struct {
	OrderNumber string                   `json:"order_number"`
	ClientID    string                   `json:"client_id"`
	Priority    domain.WorkOrderPriority `json:"priority"`
	Title       string                   `json:"title"`
}
