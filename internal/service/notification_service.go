package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/technicalhatchet/fieldserve/internal/config"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/events"
	"github.com/technicalhatchet/fieldserve/internal/repository"
)

// NotificationService turns domain events into best-effort notifications.
// Nothing here may fail a scheduling commit: every error is logged and
// swallowed, and delivery runs under a short timeout.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
	timeout       time.Duration
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, timeout time.Duration, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		cfg:           cfg,
		timeout:       timeout,
	}
}

// RegisterHandlers subscribes to the events this service reacts to.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTechnicianAssigned, n.handleTechnicianAssigned)
	n.dispatcher.Subscribe(events.EventAppointmentScheduled, n.handleAppointmentScheduled)
	n.dispatcher.Subscribe(events.EventWorkOrderStatusChanged, n.handleStatusChanged)
}

func (n *NotificationService) handleTechnicianAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TechnicianAssignedPayload)
	if !ok {
		return nil
	}
	content := fmt.Sprintf("You have been assigned a job from %s to %s.",
		payload.Start.Format(time.RFC3339), payload.End.Format(time.RFC3339))
	n.Notify(ctx, payload.TechnicianUserID, "New job assignment", content, &event.WorkOrderID)
	return nil
}

func (n *NotificationService) handleAppointmentScheduled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AppointmentScheduledPayload)
	if !ok {
		return nil
	}
	n.logger.Info("appointment scheduled",
		zap.String("work_order_id", event.WorkOrderID),
		zap.String("order_number", payload.OrderNumber))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("work order status changed",
		zap.String("work_order_id", event.WorkOrderID),
		zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

// Notify records a notification for the user and attempts delivery. Failures
// are logged and never propagated.
func (n *NotificationService) Notify(ctx context.Context, userID, title, content string, relatedWorkOrderID *string) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	notification := &domain.Notification{
		UserID:             userID,
		Title:              title,
		Content:            content,
		Type:               domain.NotificationTypeInApp,
		Status:             domain.NotificationStatusPending,
		RelatedWorkOrderID: relatedWorkOrderID,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("failed to record notification",
			zap.String("user_id", userID), zap.Error(err))
		return
	}

	if n.deliver(ctx, notification) {
		if err := n.notifications.MarkSent(ctx, notification.ID, time.Now()); err != nil {
			n.logger.Warn("failed to mark notification sent", zap.String("id", notification.ID), zap.Error(err))
		}
		return
	}
	if err := n.notifications.MarkFailed(ctx, notification.ID); err != nil {
		n.logger.Warn("failed to mark notification failed", zap.String("id", notification.ID), zap.Error(err))
	}
}

func (n *NotificationService) deliver(ctx context.Context, notification *domain.Notification) bool {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		// in-app only; the stored row is the delivery
		return true
	}
	user, err := n.users.GetByID(ctx, notification.UserID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.String("user_id", notification.UserID), zap.Error(err))
		return false
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", user.Email),
		zap.String("title", notification.Title))
	return true
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("work_order_id", event.WorkOrderID),
		zap.String("event_type", string(event.Type)))
}
