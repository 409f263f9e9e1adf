package dto

import (
	"time"

	"github.com/technicalhatchet/fieldserve/internal/domain"
)

// CreateWorkOrderRequest payload.
type CreateWorkOrderRequest struct {
	ClientID             string                   `json:"client_id" validate:"required"`
	Title                string                   `json:"title" validate:"required"`
	Description          *string                  `json:"description"`
	Priority             domain.WorkOrderPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	EstimatedDurationMin *int                     `json:"estimated_duration_minutes" validate:"omitempty,gt=0"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.WorkOrderStatus `json:"status" validate:"required,oneof=in_progress on_hold completed cancelled"`
	Notes  string                 `json:"notes"`
}

// WorkOrderResponse response.
type WorkOrderResponse struct {
	ID                   string                   `json:"id"`
	OrderNumber          string                   `json:"order_number"`
	ClientID             string                   `json:"client_id"`
	Title                string                   `json:"title"`
	Description          *string                  `json:"description"`
	Priority             domain.WorkOrderPriority `json:"priority"`
	Status               domain.WorkOrderStatus   `json:"status"`
	ScheduledStart       *time.Time               `json:"scheduled_start"`
	ScheduledEnd         *time.Time               `json:"scheduled_end"`
	ActualStart          *time.Time               `json:"actual_start"`
	ActualEnd            *time.Time               `json:"actual_end"`
	AssignedTechnicianID *string                  `json:"assigned_technician_id"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// FromWorkOrder maps the domain aggregate to its response form.
func FromWorkOrder(order *domain.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		ClientID:             order.ClientID,
		Title:                order.Title,
		Description:          order.Description,
		Priority:             order.Priority,
		Status:               order.Status,
		ScheduledStart:       order.ScheduledStart,
		ScheduledEnd:         order.ScheduledEnd,
		ActualStart:          order.ActualStart,
		ActualEnd:            order.ActualEnd,
		AssignedTechnicianID: order.AssignedTechnicianID,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}
