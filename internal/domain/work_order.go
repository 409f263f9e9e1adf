package domain

import "time"

// WorkOrderStatus enumerates lifecycle states for work orders.
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusScheduled  WorkOrderStatus = "scheduled"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusOnHold     WorkOrderStatus = "on_hold"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// WorkOrderPriority enumerates urgency levels.
type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "low"
	WorkOrderPriorityMedium WorkOrderPriority = "medium"
	WorkOrderPriorityHigh   WorkOrderPriority = "high"
	WorkOrderPriorityUrgent WorkOrderPriority = "urgent"
)

// WorkOrder is the aggregate for service jobs and the booking unit for
// scheduling. The scheduled interval is half-open: [ScheduledStart, ScheduledEnd).
type WorkOrder struct {
	ID                   string
	OrderNumber          string
	ClientID             string
	Title                string
	Description          *string
	Priority             WorkOrderPriority
	Status               WorkOrderStatus
	ScheduledStart       *time.Time
	ScheduledEnd         *time.Time
	ActualStart          *time.Time
	ActualEnd            *time.Time
	EstimatedDurationMin *int
	AssignedTechnicianID *string
	CreatedBy            string
	UpdatedBy            *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsActiveBooking reports whether the order occupies its technician's
// calendar for conflict detection purposes.
func (w *WorkOrder) IsActiveBooking() bool {
	return w != nil && (w.Status == WorkOrderStatusScheduled || w.Status == WorkOrderStatusInProgress)
}

// IsTerminal reports whether the status admits no further transitions.
func (s WorkOrderStatus) IsTerminal() bool {
	return s == WorkOrderStatusCompleted || s == WorkOrderStatusCancelled
}

// statusEdges encodes the work-order status machine:
// pending -> scheduled -> in_progress -> {on_hold <-> in_progress, completed};
// cancelled is reachable from any non-terminal state.
var statusEdges = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderStatusPending:    {WorkOrderStatusScheduled},
	WorkOrderStatusScheduled:  {WorkOrderStatusInProgress},
	WorkOrderStatusInProgress: {WorkOrderStatusOnHold, WorkOrderStatusCompleted},
	WorkOrderStatusOnHold:     {WorkOrderStatusInProgress},
}

// CanTransition reports whether the status machine permits from -> to.
func CanTransition(from, to WorkOrderStatus) bool {
	if from == to {
		return false
	}
	if to == WorkOrderStatusCancelled {
		return !from.IsTerminal()
	}
	for _, next := range statusEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}
