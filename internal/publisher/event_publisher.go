package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/domain/events"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/pubsub"
)

const (
	publishMaxElapsed  = 5 * time.Second
	publishMaxAttempts = 3
)

// EventPublisher publishes domain events on the configured topic
type EventPublisher interface {
	Publish(ctx context.Context, event *events.Event) error
}

type eventPublisher struct {
	pubsub pubsub.Publisher
	topic  string
	logger *logger.Logger
}

func NewEventPublisher(cfg *config.Configuration, ps pubsub.Publisher, logger *logger.Logger) EventPublisher {
	return &eventPublisher{
		pubsub: ps,
		topic:  cfg.PubSub.Topic,
		logger: logger,
	}
}

// Publish sends event, retrying transient broker failures with exponential
// backoff until ctx is done or the attempts are used up
func (p *eventPublisher) Publish(ctx context.Context, event *events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal event").
			Mark(ierr.ErrSystem)
	}

	p.logger.Debugw("publishing event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"topic", p.topic,
	)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxElapsedTime = publishMaxElapsed

	attempt := 0
	operation := func() error {
		attempt++
		msg := pubsub.NewEventMessage(event.ID, event.EventName, event.Source, payload)
		msg.SetContext(ctx)
		return p.pubsub.Publish(ctx, p.topic, msg)
	}
	notify := func(err error, wait time.Duration) {
		p.logger.Warnw("publish failed, retrying",
			"event_id", event.ID,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err = backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, publishMaxAttempts-1), ctx),
		notify,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to publish %s event", event.EventName).
			WithReportableDetails(map[string]any{
				"event_id": event.ID,
				"attempts": attempt,
			}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

// DecodeMessage reads an event envelope off a consumed message
func DecodeMessage(msg *message.Message) (*events.Event, error) {
	var event events.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Malformed event message").
			WithReportableDetails(map[string]any{
				"message_uuid": msg.UUID,
			}).
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}
