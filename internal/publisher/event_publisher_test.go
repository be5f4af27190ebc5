package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/domain/events"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/pubsub"
)

type flakyPublisher struct {
	failures int
	calls    int
	messages []*message.Message
}

func (f *flakyPublisher) Publish(_ context.Context, _ string, msg *message.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *flakyPublisher) Close() error { return nil }

func newEvent(t *testing.T) *events.Event {
	event, err := events.NewEvent(events.EventAccountBalanceChanged, "account", events.AccountBalanceChanged{AccountID: "acc-1"})
	require.NoError(t, err)
	return event
}

func TestPublishRetriesTransientFailures(t *testing.T) {
	ps := &flakyPublisher{failures: 1}
	p := NewEventPublisher(config.GetDefaultConfig(), ps, logger.NewNoopLogger())

	event := newEvent(t)
	require.NoError(t, p.Publish(context.Background(), event))
	assert.Equal(t, 2, ps.calls)
	require.Len(t, ps.messages, 1)

	decoded, err := DecodeMessage(ps.messages[0])
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, events.EventAccountBalanceChanged, pubsub.EventName(ps.messages[0]))
	assert.Equal(t, "account", ps.messages[0].Metadata.Get(pubsub.MetaSource))
}

func TestPublishGivesUp(t *testing.T) {
	ps := &flakyPublisher{failures: 10}
	p := NewEventPublisher(config.GetDefaultConfig(), ps, logger.NewNoopLogger())

	err := p.Publish(context.Background(), newEvent(t))
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
	assert.Equal(t, publishMaxAttempts, ps.calls)
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, err := DecodeMessage(message.NewMessage("m1", []byte("nope")))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
