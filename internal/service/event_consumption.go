package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/domain/events"
	"github.com/tallybank/tallybank/internal/publisher"
	"github.com/tallybank/tallybank/internal/pubsub"
	pubsubRouter "github.com/tallybank/tallybank/internal/pubsub/router"
	"github.com/tallybank/tallybank/internal/sentry"
)

// EventConsumptionService feeds events published by the other services into
// the transaction ledger
type EventConsumptionService interface {
	// Register message handler with the router
	RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber, cfg *config.Configuration)

	// ProcessMessage handles one consumed message
	ProcessMessage(msg *message.Message) error
}

type eventConsumptionService struct {
	ServiceParams
	transactions TransactionService
}

// NewEventConsumptionService creates a new event consumption service
func NewEventConsumptionService(params ServiceParams, transactions TransactionService) EventConsumptionService {
	return &eventConsumptionService{
		ServiceParams: params,
		transactions:  transactions,
	}
}

// RegisterHandler registers the ledger handler with the router
func (s *eventConsumptionService) RegisterHandler(
	router *pubsubRouter.Router,
	subscriber message.Subscriber,
	cfg *config.Configuration,
) {
	router.AddNoPublishHandler(
		"transaction_ledger_handler",
		cfg.PubSub.Topic,
		subscriber,
		s.ProcessMessage,
	)

	s.Logger.Infow("registered transaction ledger handler",
		"topic", cfg.PubSub.Topic,
		"consumer_group", cfg.PubSub.ConsumerGroup,
	)
}

func (s *eventConsumptionService) ProcessMessage(msg *message.Message) error {
	ctx := msg.Context()

	if name := pubsub.EventName(msg); name != "" && name != events.EventPaymentSettled {
		return nil
	}

	event, err := publisher.DecodeMessage(msg)
	if err != nil {
		s.Logger.Errorw("failed to decode event",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return err
	}

	s.Logger.Debugw("processing event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"source", event.Source,
		"timestamp", event.Timestamp,
	)

	switch event.EventName {
	case events.EventPaymentSettled:
		span, spanCtx := s.Sentry.StartEventSpan(ctx, s.Config.PubSub.Topic, event.EventName, event.Timestamp)
		err := s.recordPayment(spanCtx, event)
		sentry.FinishSpan(span, err)
		return err
	default:
		// balance changes are booked by whoever caused them
		return nil
	}
}

func (s *eventConsumptionService) recordPayment(ctx context.Context, event *events.Event) error {
	var settled events.PaymentSettled
	if err := event.Decode(&settled); err != nil {
		return err
	}

	resp, err := s.transactions.RecordPaymentSettled(ctx, &settled)
	if err != nil {
		s.Logger.Errorw("failed to record settled payment",
			"event_id", event.ID,
			"payment_id", settled.PaymentID,
			"error", err,
		)
		return err
	}

	s.Logger.Debugw("booked settled payment",
		"event_id", event.ID,
		"transaction_id", resp.ID,
	)
	return nil
}
