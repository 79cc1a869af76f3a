package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/events"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/mailer"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
)

// NotificationService turns domain events into outbound email. Delivery is
// best-effort; a failed send is logged and the event is considered
// handled.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       *mailer.Mailer
	clients    repository.ClientRepository
	requests   repository.RequestRepository
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail *mailer.Mailer, clients repository.ClientRepository, requests repository.RequestRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mail:       mail,
		clients:    clients,
		requests:   requests,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStateChanged, n.handleRequestStateChanged)
	n.dispatcher.Subscribe(events.EventContractHoursLow, n.handleContractHoursLow)
	n.dispatcher.Subscribe(events.EventChatMessageAdded, n.handleChatMessageAdded)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("RequestCreated",
		zap.String("request_id", payload.RequestID),
		zap.Int64("number", payload.Number))

	if !n.mail.Enabled() {
		return nil
	}
	client, err := n.clients.GetByID(ctx, payload.ClientID)
	if err != nil {
		n.logger.Warn("ack mail skipped, client lookup failed", zap.Error(err))
		return nil
	}
	body := mailer.RequestAckBody(client.CompanyName, payload.Number, payload.Description)
	if err := n.mail.Send(client.PrimaryEmail, "Richiesta registrata", body); err != nil {
		n.logger.Warn("ack mail delivery failed",
			zap.String("request_id", payload.RequestID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleRequestStateChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestStateChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("RequestStateChanged",
		zap.String("request_id", payload.RequestID),
		zap.String("from", string(payload.OldState)),
		zap.String("to", string(payload.NewState)))
	return nil
}

func (n *NotificationService) handleContractHoursLow(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContractHoursLowPayload)
	if !ok {
		return nil
	}
	n.logger.Warn("ContractHoursLow",
		zap.String("contract_id", payload.ClientContractID),
		zap.Float64("remaining_hours", payload.RemainingHours))

	if !n.mail.Enabled() {
		return nil
	}
	client, err := n.clients.GetByID(ctx, payload.ClientID)
	if err != nil {
		n.logger.Warn("low-hours mail skipped, client lookup failed", zap.Error(err))
		return nil
	}
	body := mailer.LowHoursBody(client.CompanyName, payload.RemainingHours)
	if err := n.mail.Send(client.PrimaryEmail, "Monte ore in esaurimento", body); err != nil {
		n.logger.Warn("low-hours mail delivery failed",
			zap.String("contract_id", payload.ClientContractID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleChatMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ChatMessageAddedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("ChatMessageAdded",
		zap.String("request_id", payload.RequestID),
		zap.String("message_id", payload.MessageID))
	return nil
}
