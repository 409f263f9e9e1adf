package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/config"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/events"
	"github.com/technicalhatchet/fieldserve/internal/repository"
	"github.com/technicalhatchet/fieldserve/internal/schedule"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// SlotCache caches generated appointment slots. Implementations must treat
// every failure as a miss.
type SlotCache interface {
	Get(ctx context.Context, key string) ([]schedule.Slot, bool)
	Set(ctx context.Context, key string, slots []schedule.Slot)
	InvalidateDate(ctx context.Context, date string)
}

// SlotCacheKeyFunc builds cache keys for slot queries.
type SlotCacheKeyFunc func(date string, durationMinutes int, technicianID string) string

// SchedulingService orchestrates appointment scheduling: availability
// resolution, conflict detection, slot generation and the scheduling commit.
type SchedulingService struct {
	workOrders  repository.WorkOrderRepository
	technicians repository.TechnicianRepository
	dispatcher  events.Dispatcher
	slotCache   SlotCache
	cacheKey    SlotCacheKeyFunc
	resolver    *schedule.Resolver
	cfg         config.SchedulingConfig
	logger      *zap.Logger
}

// SchedulingDependencies bundles collaborators.
type SchedulingDependencies struct {
	WorkOrderRepo  repository.WorkOrderRepository
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	SlotCache      SlotCache
	SlotCacheKey   SlotCacheKeyFunc
	Logger         *zap.Logger
}

// NewSchedulingService creates the service.
func NewSchedulingService(cfg config.SchedulingConfig, deps SchedulingDependencies) *SchedulingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := domain.TimeWindow{Start: cfg.DefaultWorkStart, End: cfg.DefaultWorkEnd}
	return &SchedulingService{
		workOrders:  deps.WorkOrderRepo,
		technicians: deps.TechnicianRepo,
		dispatcher:  deps.Dispatcher,
		slotCache:   deps.SlotCache,
		cacheKey:    deps.SlotCacheKey,
		resolver:    schedule.NewResolver(defaults, logger),
		cfg:         cfg,
		logger:      logger,
	}
}

// ScheduleInput carries a scheduling request.
type ScheduleInput struct {
	WorkOrderID  string
	Start        time.Time
	End          time.Time
	TechnicianID *string
	Notes        *string
	ActorUserID  *string
}

// ScheduleResult is the updated booking view.
type ScheduleResult struct {
	Order          *domain.WorkOrder
	TechnicianName string
}

// ScheduleAppointment validates the request, detects conflicts and commits
// the assignment, interval and pending->scheduled transition atomically.
// A work order may be scheduled without a technician; the interval is still
// recorded (time-blocked but unassigned).
func (s *SchedulingService) ScheduleAppointment(ctx context.Context, input ScheduleInput) (*ScheduleResult, error) {
	order, err := s.workOrders.GetByID(ctx, input.WorkOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": input.WorkOrderID})
		}
		return nil, apperrors.MapError(err)
	}

	if !input.Start.Before(input.End) {
		return nil, apperrors.NewValidationError("end time must be after start time", nil)
	}

	var tech *domain.Technician
	if input.TechnicianID != nil {
		tech, err = s.technicians.GetByID(ctx, *input.TechnicianID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": *input.TechnicianID})
			}
			return nil, apperrors.MapError(err)
		}
		if !tech.IsSchedulable() {
			return nil, apperrors.NewValidationError("technician is not active and cannot be scheduled",
				map[string]any{"technician_id": tech.ID, "status": tech.Status})
		}
	}

	params := repository.ScheduleParams{
		WorkOrderID:  order.ID,
		TechnicianID: input.TechnicianID,
		Start:        input.Start,
		End:          input.End,
		Description:  appendSchedulingNotes(order.Description, input.Notes),
		UpdatedBy:    input.ActorUserID,
	}
	updated, err := s.workOrders.Schedule(ctx, params, func(existing []schedule.Booking) error {
		if schedule.HasConflict(input.Start, input.End, existing, order.ID) {
			return apperrors.NewConflict("this scheduling would create a conflict with another appointment", nil)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order_id": input.WorkOrderID})
		}
		return nil, apperrors.MapError(err)
	}

	s.invalidateSlots(ctx, input.Start, input.End)
	s.publishScheduled(ctx, updated, tech, input)

	result := &ScheduleResult{Order: updated, TechnicianName: "Unassigned"}
	if tech != nil {
		result.TechnicianName = tech.Name
	} else if updated.AssignedTechnicianID != nil {
		if assigned, err := s.technicians.GetByID(ctx, *updated.AssignedTechnicianID); err == nil {
			result.TechnicianName = assigned.Name
		}
	}
	return result, nil
}

// HasConflict reports whether [start, end) overlaps an active booking for the
// technician, excluding the given work order. This is the same predicate the
// scheduling commit and the slot generator use.
func (s *SchedulingService) HasConflict(ctx context.Context, technicianID string, start, end time.Time, excludeWorkOrderID string) (bool, error) {
	bookings, err := s.workOrders.ActiveBookings(ctx, technicianID, start.Add(-24*time.Hour), end.Add(24*time.Hour))
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return schedule.HasConflict(start, end, bookings, excludeWorkOrderID), nil
}

// SlotQuery carries an available-slots request.
type SlotQuery struct {
	Date            time.Time
	DurationMinutes int
	TechnicianID    *string
}

// AvailableSlots computes conflict-free candidate slots for the date, grouped
// by technician and chronological within each technician. Results are derived
// fresh on each call; the cache only shortcuts identical queries within a
// short TTL.
func (s *SchedulingService) AvailableSlots(ctx context.Context, query SlotQuery) ([]schedule.Slot, error) {
	if query.DurationMinutes <= 0 {
		return nil, apperrors.NewValidationError("duration_minutes must be positive", nil)
	}

	dateKey := query.Date.Format("2006-01-02")
	cacheKey := ""
	if s.slotCache != nil && s.cacheKey != nil {
		techKey := ""
		if query.TechnicianID != nil {
			techKey = *query.TechnicianID
		}
		cacheKey = s.cacheKey(dateKey, query.DurationMinutes, techKey)
		if slots, ok := s.slotCache.Get(ctx, cacheKey); ok {
			return slots, nil
		}
	}

	var technicians []domain.Technician
	if query.TechnicianID != nil {
		tech, err := s.technicians.GetByID(ctx, *query.TechnicianID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": *query.TechnicianID})
			}
			return nil, apperrors.MapError(err)
		}
		if !tech.IsSchedulable() {
			return nil, apperrors.NewNotFound("active technician", map[string]any{"technician_id": tech.ID})
		}
		technicians = []domain.Technician{*tech}
	} else {
		var err error
		technicians, err = s.technicians.ListActive(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	duration := time.Duration(query.DurationMinutes) * time.Minute
	dayStart := startOfDay(query.Date)
	dayEnd := dayStart.Add(24 * time.Hour)

	slots := make([]schedule.Slot, 0)
	for i := range technicians {
		tech := &technicians[i]

		hours, ok := s.resolver.Resolve(tech.Availability, dayStart)
		if !ok {
			continue
		}

		bookings, err := s.workOrders.ActiveBookings(ctx, tech.ID, dayStart, dayEnd)
		if err != nil {
			return nil, apperrors.MapError(err)
		}

		for _, free := range schedule.FreeSlots(hours, duration, s.cfg.SlotInterval(), bookings) {
			slots = append(slots, schedule.Slot{
				Start:          free.Start,
				End:            free.End,
				TechnicianID:   tech.ID,
				TechnicianName: tech.Name,
			})
		}
	}

	if cacheKey != "" {
		s.slotCache.Set(ctx, cacheKey, slots)
	}
	return slots, nil
}

// ScheduleFeedQuery filters the appointment feed.
type ScheduleFeedQuery struct {
	Start        time.Time
	End          time.Time
	TechnicianID *string
	ClientID     *string
}

// ScheduleFeedItem is one appointment in the feed.
type ScheduleFeedItem struct {
	Order          domain.WorkOrder
	TechnicianName string
}

// ScheduleFeed is the calendar view for a date range.
type ScheduleFeed struct {
	Appointments []ScheduleFeedItem
	Technicians  []domain.Technician
}

// GetSchedule returns appointments starting within the range plus the active
// technicians available for assignment.
func (s *SchedulingService) GetSchedule(ctx context.Context, query ScheduleFeedQuery) (*ScheduleFeed, error) {
	filter := repository.WorkOrderFilter{
		ClientID:     query.ClientID,
		TechnicianID: query.TechnicianID,
		Statuses: []domain.WorkOrderStatus{
			domain.WorkOrderStatusPending,
			domain.WorkOrderStatusScheduled,
			domain.WorkOrderStatusInProgress,
		},
		ScheduledFrom: &query.Start,
		ScheduledTo:   &query.End,
		Limit:         500,
	}
	orders, err := s.workOrders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	technicians, err := s.technicians.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make(map[string]string, len(technicians))
	for _, tech := range technicians {
		names[tech.ID] = tech.Name
	}

	feed := &ScheduleFeed{Technicians: technicians}
	for _, order := range orders {
		name := "Unassigned"
		if order.AssignedTechnicianID != nil {
			if n, ok := names[*order.AssignedTechnicianID]; ok {
				name = n
			} else if tech, err := s.technicians.GetByID(ctx, *order.AssignedTechnicianID); err == nil {
				name = tech.Name
				names[tech.ID] = tech.Name
			}
		}
		feed.Appointments = append(feed.Appointments, ScheduleFeedItem{Order: order, TechnicianName: name})
	}
	return feed, nil
}

func (s *SchedulingService) invalidateSlots(ctx context.Context, start, end time.Time) {
	if s.slotCache == nil {
		return
	}
	s.slotCache.InvalidateDate(ctx, start.Format("2006-01-02"))
	if endDate := end.Format("2006-01-02"); endDate != start.Format("2006-01-02") {
		s.slotCache.InvalidateDate(ctx, endDate)
	}
}

// publishScheduled emits post-commit events. Delivery is best effort; a
// failed publish never affects the committed schedule.
func (s *SchedulingService) publishScheduled(ctx context.Context, order *domain.WorkOrder, tech *domain.Technician, input ScheduleInput) {
	if s.dispatcher == nil {
		return
	}
	scheduledEvent := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventAppointmentScheduled,
		WorkOrderID: order.ID,
		ActorUserID: input.ActorUserID,
		Timestamp:   time.Now(),
		Payload: events.AppointmentScheduledPayload{
			OrderNumber:  order.OrderNumber,
			TechnicianID: input.TechnicianID,
			Start:        input.Start,
			End:          input.End,
		},
	}
	if err := s.dispatcher.Publish(ctx, scheduledEvent); err != nil {
		s.logger.Warn("failed to publish appointment_scheduled event",
			zap.String("work_order_id", order.ID), zap.Error(err))
	}

	if tech == nil {
		return
	}
	assignedEvent := events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventTechnicianAssigned,
		WorkOrderID: order.ID,
		ActorUserID: input.ActorUserID,
		Timestamp:   time.Now(),
		Payload: events.TechnicianAssignedPayload{
			TechnicianID:     tech.ID,
			TechnicianUserID: tech.UserID,
			Start:            input.Start,
			End:              input.End,
		},
	}
	if err := s.dispatcher.Publish(ctx, assignedEvent); err != nil {
		s.logger.Warn("failed to publish technician_assigned event",
			zap.String("work_order_id", order.ID), zap.Error(err))
	}
}

func appendSchedulingNotes(existing *string, notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	entry := fmt.Sprintf("Scheduling Notes: %s", *notes)
	if existing != nil && *existing != "" {
		entry = *existing + "\n\n" + entry
	}
	return &entry
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
