package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/config"
	"github.com/spec-kit/homecare-api/internal/events"
)

// NotificationService forwards domain events to the office. Delivery is
// logged until an email or webhook transport is configured.
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
	n.dispatcher.Subscribe(events.EventCareRequestSubmitted, n.handleCareRequestSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationReceived, n.handleApplicationReceived)
	n.dispatcher.Subscribe(events.EventShiftScheduled, n.handleShiftEvent)
	n.dispatcher.Subscribe(events.EventShiftStatusChanged, n.handleShiftEvent)
}

func (n *NotificationService) handleCareRequestSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("CareRequestSubmitted", zap.String("care_request_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.sendEmail(ctx, event)
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleApplicationReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationReceived", zap.String("application_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.sendEmail(ctx, event)
	return nil
}

func (n *NotificationService) handleShiftEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("shift_id", event.ResourceID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) sendEmail(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(n.cfg.AdminEmail) == "" {
		return
	}
	n.logger.Debug("sendEmail",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", n.cfg.AdminEmail),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhook",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}
