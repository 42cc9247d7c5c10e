package events

import (
	"log/slog"
	"sync"
)

// Handler receives the payload of a single dispatched event.
type Handler func(payload map[string]any)

// GlobalHandler receives every dispatched event along with its type.
type GlobalHandler func(eventType string, payload map[string]any)

// Subscription identifies a single registration so it can be removed again.
// Go function values are not comparable, so removal works off the id handed
// out at registration time.
type Subscription struct {
	id        uint64
	eventType string
	global    bool
}

type subscriber struct {
	id      uint64
	handler Handler
}

type globalSubscriber struct {
	id      uint64
	handler GlobalHandler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]subscriber),
	}
}

// Bus is the in-process pub/sub registry. Handlers are invoked synchronously
// on the dispatching goroutine, global handlers first, then type-specific
// handlers, both in registration order. Registering the same function twice
// invokes it twice.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]subscriber
	globals  []globalSubscriber
}

// Subscribe registers a handler for a single event type.
func (b *Bus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: b.nextID, handler: handler})
	slog.Debug("Registered event handler", slog.String("type", eventType))

	return Subscription{id: b.nextID, eventType: eventType}
}

// SubscribeGlobal registers a handler invoked for every dispatch.
func (b *Bus) SubscribeGlobal(handler GlobalHandler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.globals = append(b.globals, globalSubscriber{id: b.nextID, handler: handler})
	slog.Debug("Registered global event handler")

	return Subscription{id: b.nextID, global: true}
}

// Unsubscribe removes the registration behind the subscription. Unknown or
// already removed subscriptions are a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.global {
		for idx, registered := range b.globals {
			if registered.id == sub.id {
				b.globals = append(b.globals[:idx], b.globals[idx+1:]...)

				return
			}
		}

		return
	}

	subscribers := b.handlers[sub.eventType]
	for idx, registered := range subscribers {
		if registered.id == sub.id {
			b.handlers[sub.eventType] = append(subscribers[:idx], subscribers[idx+1:]...)

			return
		}
	}
}

// Dispatch delivers the payload to all global handlers, then all handlers
// registered for eventType, in registration order. A handler that panics is
// logged and skipped; it never prevents the remaining handlers from running.
// Dispatch returns once every handler has completed.
func (b *Bus) Dispatch(eventType string, payload map[string]any) {
	b.mu.RLock()
	globals := make([]globalSubscriber, len(b.globals))
	copy(globals, b.globals)
	subscribers := make([]subscriber, len(b.handlers[eventType]))
	copy(subscribers, b.handlers[eventType])
	b.mu.RUnlock()

	for _, registered := range globals {
		invoke(eventType, func() {
			registered.handler(eventType, payload)
		})
	}

	for _, registered := range subscribers {
		invoke(eventType, func() {
			registered.handler(payload)
		})
	}
}

// RegisteredTypes returns every event type that currently has at least one
// typed handler.
func (b *Bus) RegisteredTypes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := make([]string, 0, len(b.handlers))
	for eventType, subscribers := range b.handlers {
		if len(subscribers) > 0 {
			types = append(types, eventType)
		}
	}

	return types
}

// invoke runs a single handler behind a recover so a misbehaving observer
// cannot take down dispatch.
func invoke(eventType string, run func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked",
				slog.String("type", eventType), slog.Any("panic", r))
		}
	}()

	run()
}
