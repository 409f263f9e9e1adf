package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/events"
	"github.com/technicalhatchet/fieldserve/internal/repository"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// WorkOrderService handles work order lifecycle outside the scheduling
// commit: creation, listing and every status edge except pending->scheduled,
// which belongs to the SchedulingService.
type WorkOrderService struct {
	workOrders repository.WorkOrderRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// WorkOrderDependencies bundles collaborators.
type WorkOrderDependencies struct {
	WorkOrderRepo repository.WorkOrderRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewWorkOrderService creates the service.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkOrderService{
		workOrders: deps.WorkOrderRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// WorkOrderCreateInput carries creation fields.
type WorkOrderCreateInput struct {
	ClientID             string
	Title                string
	Description          *string
	Priority             domain.WorkOrderPriority
	EstimatedDurationMin *int
}

// CreateWorkOrder creates a pending, unscheduled work order with a generated
// order number.
func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, createdBy string, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	if input.ClientID == "" || input.Title == "" {
		return nil, apperrors.NewValidationError("client_id and title are required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.WorkOrderPriorityMedium
	}
	switch priority {
	case domain.WorkOrderPriorityLow, domain.WorkOrderPriorityMedium,
		domain.WorkOrderPriorityHigh, domain.WorkOrderPriorityUrgent:
	default:
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	order := &domain.WorkOrder{
		OrderNumber:          newOrderNumber(),
		ClientID:             input.ClientID,
		Title:                input.Title,
		Description:          input.Description,
		Priority:             priority,
		Status:               domain.WorkOrderStatusPending,
		EstimatedDurationMin: input.EstimatedDurationMin,
		CreatedBy:            createdBy,
	}
	if err := s.workOrders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventWorkOrderCreated, order.ID, &createdBy, events.WorkOrderCreatedPayload{
		OrderNumber: order.OrderNumber,
		ClientID:    order.ClientID,
		Priority:    order.Priority,
		Title:       order.Title,
	})
	return order, nil
}

// GetWorkOrder fetches one work order.
func (s *WorkOrderService) GetWorkOrder(ctx context.Context, id string) (*domain.WorkOrder, error) {
	order, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return order, nil
}

// ListWorkOrders lists work orders matching the filter.
func (s *WorkOrderService) ListWorkOrders(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	orders, err := s.workOrders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return orders, nil
}

// ChangeStatus applies a status transition permitted by the work-order status
// machine, stamping actual start and end times on the in_progress and
// completed edges.
func (s *WorkOrderService) ChangeStatus(ctx context.Context, id string, newStatus domain.WorkOrderStatus, notes string, actorUserID string) (*domain.WorkOrder, error) {
	order, err := s.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if newStatus == domain.WorkOrderStatusScheduled {
		return nil, apperrors.NewValidationError("use the scheduling endpoint to schedule a work order", nil)
	}
	if !domain.CanTransition(order.Status, newStatus) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("cannot transition work order from %s to %s", order.Status, newStatus),
			map[string]any{"from": order.Status, "to": newStatus})
	}

	oldStatus := order.Status
	order.Status = newStatus
	order.UpdatedBy = &actorUserID

	now := time.Now()
	switch newStatus {
	case domain.WorkOrderStatusInProgress:
		if order.ActualStart == nil {
			order.ActualStart = &now
		}
	case domain.WorkOrderStatusCompleted:
		if order.ActualEnd == nil {
			order.ActualEnd = &now
		}
	}

	if err := s.workOrders.Update(ctx, order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventWorkOrderStatusChanged, order.ID, &actorUserID, events.WorkOrderStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Notes:     notes,
	})
	return order, nil
}

func (s *WorkOrderService) publish(ctx context.Context, eventType events.EventType, workOrderID string, actorUserID *string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		WorkOrderID: workOrderID,
		ActorUserID: actorUserID,
		Timestamp:   time.Now(),
		Payload:     payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", string(eventType)),
			zap.String("work_order_id", workOrderID),
			zap.Error(err))
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("WO-%s-%s", time.Now().Format("20060102"), suffix)
}
