package worker

import (
	"github.com/technicalhatchet/fieldserve/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// The dispatcher's own drain goroutine delivers events after the publishing
// transaction has committed.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
