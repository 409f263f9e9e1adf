package domain

import "time"

// NotificationType enumerates delivery channels.
type NotificationType string

const (
	NotificationTypeInApp NotificationType = "in_app"
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeSMS   NotificationType = "sms"
)

// NotificationStatus enumerates delivery states.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is a best-effort message to a user about a work order.
type Notification struct {
	ID                 string
	UserID             string
	Title              string
	Content            string
	Type               NotificationType
	Status             NotificationStatus
	RelatedWorkOrderID *string
	SentAt             *time.Time
	CreatedAt          time.Time
}
