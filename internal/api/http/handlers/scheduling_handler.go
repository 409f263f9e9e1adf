package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/technicalhatchet/fieldserve/internal/api/dto"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/service"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// SchedulingHandler manages scheduling endpoints.
type SchedulingHandler struct {
	service *service.SchedulingService
}

// NewSchedulingHandler constructs handler.
func NewSchedulingHandler(schedulingService *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: schedulingService}
}

// GetSchedule GET /api/v1/schedule.
func (h *SchedulingHandler) GetSchedule(c *fiber.Ctx) error {
	startDate, err := requireDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := requireDateQuery(c, "end_date")
	if err != nil {
		return err
	}
	if endDate.Before(startDate) {
		return apperrors.NewValidationError("end_date must not be before start_date", nil)
	}

	feed, err := h.service.GetSchedule(c.UserContext(), service.ScheduleFeedQuery{
		Start:        startDate,
		End:          endDate.Add(24*time.Hour - time.Second),
		TechnicianID: optionalStringQuery(c, "technician_id"),
		ClientID:     optionalStringQuery(c, "client_id"),
	})
	if err != nil {
		return err
	}

	appointments := make([]dto.AppointmentResponse, 0, len(feed.Appointments))
	for i := range feed.Appointments {
		item := &feed.Appointments[i]
		appointments = append(appointments, appointmentResponse(&item.Order, item.TechnicianName, nil))
	}
	technicians := make([]dto.TechnicianSummary, 0, len(feed.Technicians))
	for _, tech := range feed.Technicians {
		technicians = append(technicians, dto.TechnicianSummary{
			ID:     tech.ID,
			Name:   tech.Name,
			Status: tech.Status,
			Skills: tech.Skills,
		})
	}

	return c.JSON(fiber.Map{"data": dto.ScheduleFeedResponse{
		Appointments: appointments,
		DateRange: dto.DateRange{
			Start: startDate.Format("2006-01-02"),
			End:   endDate.Format("2006-01-02"),
		},
		AvailableTechnicians: technicians,
	}})
}

// ScheduleAppointment POST /api/v1/schedule/appointments.
func (h *SchedulingHandler) ScheduleAppointment(c *fiber.Ctx) error {
	var req dto.ScheduleAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	var actor *string
	if id := actorUserID(c); id != "" {
		actor = &id
	}
	result, err := h.service.ScheduleAppointment(c.UserContext(), service.ScheduleInput{
		WorkOrderID:  req.WorkOrderID,
		Start:        req.StartTime,
		End:          req.EndTime,
		TechnicianID: req.TechnicianID,
		Notes:        req.Notes,
		ActorUserID:  actor,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": appointmentResponse(result.Order, result.TechnicianName, req.Notes)})
}

// AvailableSlots GET /api/v1/schedule/available-slots.
func (h *SchedulingHandler) AvailableSlots(c *fiber.Ctx) error {
	date, err := requireDateQuery(c, "date")
	if err != nil {
		return err
	}

	slots, err := h.service.AvailableSlots(c.UserContext(), service.SlotQuery{
		Date:            date,
		DurationMinutes: parseIntQuery(c, "duration_minutes", 60),
		TechnicianID:    optionalStringQuery(c, "technician_id"),
	})
	if err != nil {
		return err
	}

	items := make([]dto.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		items = append(items, dto.SlotResponse{
			StartTime:      slot.Start,
			EndTime:        slot.End,
			TechnicianID:   slot.TechnicianID,
			TechnicianName: slot.TechnicianName,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func appointmentResponse(order *domain.WorkOrder, technicianName string, notes *string) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:             order.ID,
		WorkOrderID:    order.ID,
		OrderNumber:    order.OrderNumber,
		Title:          order.Title,
		StartTime:      order.ScheduledStart,
		EndTime:        order.ScheduledEnd,
		ClientID:       order.ClientID,
		TechnicianID:   order.AssignedTechnicianID,
		TechnicianName: technicianName,
		Status:         order.Status,
		Notes:          notes,
	}
}
