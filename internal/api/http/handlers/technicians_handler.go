package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/technicalhatchet/fieldserve/internal/api/dto"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/service"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// TechniciansHandler manages technician endpoints.
type TechniciansHandler struct {
	service *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{service: technicianService}
}

// List GET /api/v1/technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	technicians, err := h.service.ListActiveTechnicians(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianSummary, 0, len(technicians))
	for _, tech := range technicians {
		items = append(items, dto.TechnicianSummary{
			ID:     tech.ID,
			Name:   tech.Name,
			Status: tech.Status,
			Skills: tech.Skills,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/v1/technicians/:id.
func (h *TechniciansHandler) Get(c *fiber.Ctx) error {
	tech, err := h.service.GetTechnician(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TechnicianSummary{
		ID:     tech.ID,
		Name:   tech.Name,
		Status: tech.Status,
		Skills: tech.Skills,
	}})
}

// GetAvailability GET /api/v1/technicians/:id/availability.
func (h *TechniciansHandler) GetAvailability(c *fiber.Ctx) error {
	now := time.Now()
	from, err := optionalDateQuery(c, "start_date", now)
	if err != nil {
		return err
	}
	to, err := optionalDateQuery(c, "end_date", now.AddDate(0, 0, 7))
	if err != nil {
		return err
	}

	view, err := h.service.GetAvailability(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return err
	}

	appointments := make([]dto.AppointmentResponse, 0, len(view.Appointments))
	for i := range view.Appointments {
		appointments = append(appointments, appointmentResponse(&view.Appointments[i], view.Technician.Name, nil))
	}
	return c.JSON(fiber.Map{"data": dto.AvailabilityResponse{
		TechnicianID:   view.Technician.ID,
		TechnicianName: view.Technician.Name,
		Status:         view.Technician.Status,
		Availability:   *view.Availability,
		Appointments:   appointments,
		DateRange: dto.DateRange{
			Start: from.Format("2006-01-02"),
			End:   to.Format("2006-01-02"),
		},
	}})
}

// UpdateAvailability PUT /api/v1/technicians/:id/availability.
func (h *TechniciansHandler) UpdateAvailability(c *fiber.Ctx) error {
	var req dto.UpdateAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	var status *domain.TechnicianStatus
	if req.Status != nil {
		s := domain.TechnicianStatus(*req.Status)
		status = &s
	}
	tech, err := h.service.UpdateAvailability(c.UserContext(), c.Params("id"), req.ToAvailability(), status, actorUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.UpdatedAvailabilityResponse{
		ID:           tech.ID,
		Name:         tech.Name,
		Status:       tech.Status,
		Availability: *tech.Availability,
		UpdatedAt:    tech.UpdatedAt,
	}})
}

// GetWorkload GET /api/v1/technicians/:id/workload.
func (h *TechniciansHandler) GetWorkload(c *fiber.Ctx) error {
	now := time.Now()
	from, err := optionalDateQuery(c, "start_date", now.AddDate(0, 0, -7))
	if err != nil {
		return err
	}
	to, err := optionalDateQuery(c, "end_date", now)
	if err != nil {
		return err
	}

	workload, err := h.service.GetWorkload(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return err
	}

	jobs := make([]dto.WorkOrderResponse, 0, len(workload.Jobs))
	for i := range workload.Jobs {
		jobs = append(jobs, dto.FromWorkOrder(&workload.Jobs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.WorkloadResponse{
		TechnicianID:   workload.TechnicianID,
		TechnicianName: workload.TechnicianName,
		DateRange: dto.DateRange{
			Start: from.Format("2006-01-02"),
			End:   to.Format("2006-01-02"),
		},
		TotalJobs:       workload.TotalJobs,
		CompletedJobs:   workload.CompletedJobs,
		InProgressJobs:  workload.InProgressJobs,
		PendingJobs:     workload.PendingJobs,
		ScheduledJobs:   workload.ScheduledJobs,
		TotalHours:      workload.TotalHours,
		JobsByDay:       workload.JobsByDay,
		UtilizationRate: workload.UtilizationRate,
		Jobs:            jobs,
	}})
}
