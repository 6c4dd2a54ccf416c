// Package eventbus is the in-process notification fabric between the
// ledger store and its consumers. Unlike a plain publish/subscribe bus it
// retains the last event per topic, so a late subscriber immediately
// receives the current state before any further updates.
package eventbus

import (
	"log/slog"
	"sync"
)

// Event is anything that can be published on the bus.
type Event interface {
	Topic() string
}

// Handler receives published events for a topic.
type Handler func(Event)

// Bus is a topic-keyed handler registry with latest-value replay.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	last     map[string]Event
	logger   *slog.Logger
}

// New creates an empty bus.
func New(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		last:     make(map[string]Event),
		logger:   logger,
	}
}

// Publish delivers the event to all current subscribers of its topic and
// retains it for replay to future subscribers. Handlers run synchronously
// on the caller's goroutine, so a notification is always delivered no
// later than the publishing operation completing.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	b.last[event.Topic()] = event
	handlers := make([]Handler, len(b.handlers[event.Topic()]))
	copy(handlers, b.handlers[event.Topic()])
	b.mu.Unlock()

	b.logger.Debug("eventbus publish", "topic", event.Topic(), "subscribers", len(handlers))
	for _, h := range handlers {
		h(event)
	}
}

// Subscribe registers a handler for a topic. If an event was already
// published on that topic, the handler is invoked with it immediately.
// The replay runs while the bus lock is still held, so a racing Publish
// cannot slip a newer event in front of the retained one; a handler must
// not call back into the bus from the replay invocation.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	if replay, ok := b.last[topic]; ok {
		handler(replay)
	}
}

// Last returns the retained event for a topic, if any.
func (b *Bus) Last(topic string) (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.last[topic]
	return e, ok
}
