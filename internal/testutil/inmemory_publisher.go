package testutil

import (
	"context"
	"sync"

	"github.com/tallybank/tallybank/internal/domain/events"
	"github.com/tallybank/tallybank/internal/publisher"
)

// InMemoryPublisherService records published events for assertions
type InMemoryPublisherService struct {
	mu     sync.RWMutex
	events []*events.Event
	// Err makes every Publish fail
	Err error
}

var _ publisher.EventPublisher = (*InMemoryPublisherService)(nil)

// NewInMemoryEventPublisher creates a new instance of InMemoryPublisherService
func NewInMemoryEventPublisher() *InMemoryPublisherService {
	return &InMemoryPublisherService{
		events: make([]*events.Event, 0),
	}
}

// Publish implements publisher.EventPublisher
func (p *InMemoryPublisherService) Publish(ctx context.Context, event *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

// GetEvents returns all published events
func (p *InMemoryPublisherService) GetEvents() []*events.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// EventsNamed returns the published events called name
func (p *InMemoryPublisherService) EventsNamed(name string) []*events.Event {
	var out []*events.Event
	for _, e := range p.GetEvents() {
		if e.EventName == name {
			out = append(out, e)
		}
	}
	return out
}

// Clear removes all published events
func (p *InMemoryPublisherService) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*events.Event, 0)
	p.Err = nil
}
