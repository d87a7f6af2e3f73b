package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/land-registry/internal/config"
	"github.com/spec-kit/land-registry/internal/events"
)

// NotificationService handles emitting notifications for registry events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPropertyVerified, n.handlePropertyVerified)
	n.dispatcher.Subscribe(events.EventTransferRequested, n.handleTransferRequested)
	n.dispatcher.Subscribe(events.EventTransferApproved, n.handleTransferApproved)
	n.dispatcher.Subscribe(events.EventTransferRejected, n.handleTransferRejected)
}

func (n *NotificationService) handlePropertyVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("PropertyVerified", zap.Uint64("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTransferRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("TransferRequested", zap.Uint64("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTransferApproved(ctx context.Context, event events.Event) error {
	n.logger.Info("TransferApproved", zap.Uint64("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTransferRejected(ctx context.Context, event events.Event) error {
	n.logger.Info("TransferRejected", zap.Uint64("property_id", event.PropertyID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Uint64("property_id", event.PropertyID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Uint64("property_id", event.PropertyID),
		zap.String("event_type", string(event.Type)))
}
