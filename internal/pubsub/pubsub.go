package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Metadata keys carried by every domain event message. Consumers route on
// them without decoding the payload.
const (
	MetaEventName = "event_name"
	MetaSource    = "source"
)

// Publisher sends domain event messages to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Subscriber streams the messages of a topic to the ledger consumer
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// PubSub is the broker shared by the event publisher and the message router
type PubSub interface {
	Publisher
	Subscriber
}

// NewEventMessage wraps an encoded event envelope with its routing metadata
func NewEventMessage(eventID, eventName, source string, payload []byte) *message.Message {
	msg := message.NewMessage(eventID, payload)
	msg.Metadata.Set(MetaEventName, eventName)
	msg.Metadata.Set(MetaSource, source)
	return msg
}

// EventName returns the event name a message was published with, or "" for
// messages from other producers
func EventName(msg *message.Message) string {
	return msg.Metadata.Get(MetaEventName)
}
