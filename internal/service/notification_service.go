package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/config"
	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/events"
)

// Notifier delivers assignment notifications. Delivery itself lives outside this service.
type Notifier interface {
	NotifyAssigned(ctx context.Context, ticketID, userID string) error
}

// NotificationService turns routing and escalation events into notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. A nil notifier falls back to
// the logging stub.
func NewNotificationService(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
	if n.notifier == nil {
		n.notifier = n
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleTicketEscalated)
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.AssigneeID == "" {
		return nil
	}
	n.logger.Info("TicketAssigned", zap.String("ticket_id", event.TicketID), zap.String("assignee_id", payload.AssigneeID))
	return n.notifier.NotifyAssigned(ctx, event.TicketID, payload.AssigneeID)
}

// handleTicketEscalated notifies directly only for user targets; role
// targets are picked up from role queues.
func (n *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketEscalated",
		zap.String("ticket_id", event.TicketID),
		zap.String("target_type", string(payload.TargetType)),
		zap.String("target", payload.TargetValue))
	if payload.TargetType != domain.EscalationTargetUser {
		return nil
	}
	return n.notifier.NotifyAssigned(ctx, event.TicketID, payload.TargetValue)
}

// NotifyAssigned is the stub delivery used when no notifier is configured.
func (n *NotificationService) NotifyAssigned(ctx context.Context, ticketID, userID string) error {
	if strings.TrimSpace(n.cfg.EmailFrom) != "" {
		n.logger.Debug("sendEmailNotificationStub",
			zap.String("from", n.cfg.EmailFrom),
			zap.String("ticket_id", ticketID),
			zap.String("user_id", userID))
	}
	if strings.TrimSpace(n.cfg.WebhookURL) != "" {
		n.logger.Debug("sendWebhookNotificationStub",
			zap.String("url", n.cfg.WebhookURL),
			zap.String("ticket_id", ticketID),
			zap.String("user_id", userID))
	}
	return nil
}
