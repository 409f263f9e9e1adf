package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technicalhatchet/fieldserve/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Scheduling  *handlers.SchedulingHandler
	Technicians *handlers.TechniciansHandler
	WorkOrders  *handlers.WorkOrdersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/api/v1")

	v1.Get("/schedule", cfg.Scheduling.GetSchedule)
	v1.Post("/schedule/appointments", cfg.Scheduling.ScheduleAppointment)
	v1.Get("/schedule/available-slots", cfg.Scheduling.AvailableSlots)

	technicians := v1.Group("/technicians")
	technicians.Get("/", cfg.Technicians.List)
	technicians.Get("/:id", cfg.Technicians.Get)
	technicians.Get("/:id/availability", cfg.Technicians.GetAvailability)
	technicians.Put("/:id/availability", cfg.Technicians.UpdateAvailability)
	technicians.Get("/:id/workload", cfg.Technicians.GetWorkload)

	workOrders := v1.Group("/work-orders")
	workOrders.Post("/", cfg.WorkOrders.Create)
	workOrders.Get("/", cfg.WorkOrders.List)
	workOrders.Get("/:id", cfg.WorkOrders.Get)
	workOrders.Post("/:id/status", cfg.WorkOrders.ChangeStatus)
}
