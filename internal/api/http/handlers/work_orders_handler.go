package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/technicalhatchet/fieldserve/internal/api/dto"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/repository"
	"github.com/technicalhatchet/fieldserve/internal/service"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// WorkOrdersHandler manages work order endpoints.
type WorkOrdersHandler struct {
	service *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(workOrderService *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{service: workOrderService}
}

// Create POST /api/v1/work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	order, err := h.service.CreateWorkOrder(c.UserContext(), actorUserID(c), service.WorkOrderCreateInput{
		ClientID:             req.ClientID,
		Title:                req.Title,
		Description:          req.Description,
		Priority:             req.Priority,
		EstimatedDurationMin: req.EstimatedDurationMin,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}

// List GET /api/v1/work-orders.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	filter := repository.WorkOrderFilter{
		ClientID:     optionalStringQuery(c, "client_id"),
		TechnicianID: optionalStringQuery(c, "technician_id"),
		Limit:        parseIntQuery(c, "limit", 50),
		Offset:       c.QueryInt("offset", 0),
	}
	if status := optionalStringQuery(c, "status"); status != nil {
		filter.Statuses = []domain.WorkOrderStatus{domain.WorkOrderStatus(*status)}
	}
	if from, err := optionalDateQuery(c, "scheduled_from", time.Time{}); err != nil {
		return err
	} else if !from.IsZero() {
		filter.ScheduledFrom = &from
	}
	if to, err := optionalDateQuery(c, "scheduled_to", time.Time{}); err != nil {
		return err
	} else if !to.IsZero() {
		end := to.Add(24*time.Hour - time.Second)
		filter.ScheduledTo = &end
	}

	orders, err := h.service.ListWorkOrders(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.FromWorkOrder(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/v1/work-orders/:id.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.service.GetWorkOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}

// ChangeStatus POST /api/v1/work-orders/:id/status.
func (h *WorkOrdersHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	order, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), req.Status, req.Notes, actorUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}
