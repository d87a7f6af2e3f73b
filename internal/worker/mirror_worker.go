package worker

import (
	"github.com/spec-kit/land-registry/internal/service"
)

// StartMirrorWorker registers the database projection handlers.
func StartMirrorWorker(mirrorService *service.MirrorService) {
	if mirrorService == nil {
		return
	}
	mirrorService.RegisterHandlers()
}

// StartStreamWorker registers the Redis stream appender.
func StartStreamWorker(streamService *service.StreamService) {
	if streamService == nil {
		return
	}
	streamService.RegisterHandlers()
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
