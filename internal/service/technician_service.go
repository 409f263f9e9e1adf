package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/events"
	"github.com/technicalhatchet/fieldserve/internal/repository"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// TechnicianService handles technician reads, availability management and
// workload reporting.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	workOrders  repository.WorkOrderRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TechnicianDependencies bundles collaborators.
type TechnicianDependencies struct {
	TechnicianRepo repository.TechnicianRepository
	WorkOrderRepo  repository.WorkOrderRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTechnicianService creates the service.
func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TechnicianService{
		technicians: deps.TechnicianRepo,
		workOrders:  deps.WorkOrderRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// GetTechnician fetches one technician.
func (s *TechnicianService) GetTechnician(ctx context.Context, id string) (*domain.Technician, error) {
	tech, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tech, nil
}

// ListActiveTechnicians lists schedulable technicians.
func (s *TechnicianService) ListActiveTechnicians(ctx context.Context) ([]domain.Technician, error) {
	technicians, err := s.technicians.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

// AvailabilityView is a technician's schedule settings plus booked
// appointments over a range.
type AvailabilityView struct {
	Technician   *domain.Technician
	Availability *domain.Availability
	Appointments []domain.WorkOrder
}

// GetAvailability returns the technician's availability record (defaults when
// none is stored) and the active bookings between from and to.
func (s *TechnicianService) GetAvailability(ctx context.Context, technicianID string, from, to time.Time) (*AvailabilityView, error) {
	tech, err := s.GetTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	filter := repository.WorkOrderFilter{
		TechnicianID: &tech.ID,
		Statuses: []domain.WorkOrderStatus{
			domain.WorkOrderStatusScheduled,
			domain.WorkOrderStatusInProgress,
		},
		ScheduledFrom: &from,
		ScheduledTo:   &to,
		Limit:         500,
	}
	appointments, err := s.workOrders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	availability := tech.Availability
	if availability == nil {
		availability = domain.DefaultAvailability()
	}
	return &AvailabilityView{
		Technician:   tech,
		Availability: availability,
		Appointments: appointments,
	}, nil
}

// UpdateAvailability validates and replaces the technician's recurring
// schedule and exceptions, optionally updating the status.
func (s *TechnicianService) UpdateAvailability(ctx context.Context, technicianID string, availability *domain.Availability, status *domain.TechnicianStatus, actorUserID string) (*domain.Technician, error) {
	if err := availability.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if status != nil {
		switch *status {
		case domain.TechnicianStatusActive, domain.TechnicianStatusInactive, domain.TechnicianStatusOnLeave:
		default:
			return nil, apperrors.NewValidationError("invalid technician status", map[string]any{"status": *status})
		}
	}

	tech, err := s.technicians.UpdateAvailability(ctx, technicianID, availability, status, actorUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventAvailabilityUpdated,
			ActorUserID: &actorUserID,
			Timestamp:   time.Now(),
			Payload:     events.AvailabilityUpdatedPayload{TechnicianID: tech.ID},
		}
		_ = s.dispatcher.Publish(ctx, event)
	}
	return tech, nil
}

// Workload summarizes a technician's assigned jobs over a period.
type Workload struct {
	TechnicianID    string
	TechnicianName  string
	TotalJobs       int
	CompletedJobs   int
	InProgressJobs  int
	PendingJobs     int
	ScheduledJobs   int
	TotalHours      float64
	JobsByDay       map[string]int
	UtilizationRate float64
	Jobs            []domain.WorkOrder
}

// GetWorkload computes job counts, scheduled hours and a utilization rate
// against the technician's available hours for the period.
func (s *TechnicianService) GetWorkload(ctx context.Context, technicianID string, from, to time.Time) (*Workload, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("end date must not be before start date", nil)
	}

	tech, err := s.GetTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	filter := repository.WorkOrderFilter{
		TechnicianID:  &tech.ID,
		ScheduledFrom: &from,
		ScheduledTo:   &to,
		Limit:         1000,
	}
	orders, err := s.workOrders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	workload := &Workload{
		TechnicianID:   tech.ID,
		TechnicianName: tech.Name,
		TotalJobs:      len(orders),
		JobsByDay:      make(map[string]int),
		Jobs:           orders,
	}
	for day := startOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		workload.JobsByDay[day.Format("2006-01-02")] = 0
	}

	for _, order := range orders {
		switch order.Status {
		case domain.WorkOrderStatusCompleted:
			workload.CompletedJobs++
		case domain.WorkOrderStatusInProgress:
			workload.InProgressJobs++
		case domain.WorkOrderStatusPending:
			workload.PendingJobs++
		case domain.WorkOrderStatusScheduled:
			workload.ScheduledJobs++
		}
		if order.ScheduledStart != nil {
			day := order.ScheduledStart.Format("2006-01-02")
			if _, ok := workload.JobsByDay[day]; ok {
				workload.JobsByDay[day]++
			}
			if order.ScheduledEnd != nil {
				workload.TotalHours += order.ScheduledEnd.Sub(*order.ScheduledStart).Hours()
			}
		}
	}

	if available := availableHours(tech.Availability, from, to); available > 0 {
		rate := workload.TotalHours / available * 100
		if rate > 100 {
			rate = 100
		}
		workload.UtilizationRate = rate
	}
	return workload, nil
}

// availableHours sums the technician's working hours across the period,
// applying dated exceptions. Malformed records estimate a 5-day week at 8
// hours per day.
func availableHours(av *domain.Availability, from, to time.Time) float64 {
	days := int(startOfDay(to).Sub(startOfDay(from)).Hours()/24) + 1
	if av == nil {
		return float64(days) * 5.0 / 7.0 * 8.0
	}

	startMin, endMin, err := av.WorkHours.Minutes()
	if err != nil {
		return float64(days) * 5.0 / 7.0 * 8.0
	}
	hoursPerDay := float64(endMin-startMin) / 60

	var total float64
	for day := startOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		if !av.WorksOn(domain.WeekdayName(day)) {
			continue
		}
		hours := hoursPerDay
		if exc := av.ExceptionFor(day.Format("2006-01-02")); exc != nil {
			if !exc.Available {
				continue
			}
			if exc.WorkingHours != nil {
				if excStart, excEnd, err := exc.WorkingHours.Minutes(); err == nil {
					hours = float64(excEnd-excStart) / 60
				}
			}
		}
		total += hours
	}
	return total
}
