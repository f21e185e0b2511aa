package worker

import (
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker subscribes the notification fan-out to the event
// dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
