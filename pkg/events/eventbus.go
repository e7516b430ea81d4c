package events

import (
	"context"
	"sync"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// InMemoryEventBus dispatches events to handlers in process. Forwarders to
// NATS or Kafka subscribe to it with AllEvents.
type InMemoryEventBus struct {
	handlers map[string][]interfaces.EventHandler
	mu       sync.RWMutex
	logger   interfaces.Logger
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger interfaces.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]interfaces.EventHandler),
		logger:   logger,
	}
}

// Publish delivers event to the handlers of its type and to wildcard
// handlers. Handler failures are logged and never returned.
func (eb *InMemoryEventBus) Publish(ctx context.Context, event interfaces.Event) error {
	eb.mu.RLock()
	handlers := make([]interfaces.EventHandler, 0, len(eb.handlers[event.EventType()])+len(eb.handlers[AllEvents]))
	handlers = append(handlers, eb.handlers[event.EventType()]...)
	handlers = append(handlers, eb.handlers[AllEvents]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("Event handler failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.String("handler", handler.EventType()),
				interfaces.Error(err))
		}
	}

	return nil
}

// PublishAsync publishes on a goroutine detached from ctx cancellation, so
// events outlive the request that produced them.
func (eb *InMemoryEventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		_ = eb.Publish(context.WithoutCancel(ctx), event)
	}()
}

// Subscribe registers a handler for a specific event type
func (eb *InMemoryEventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("Event handler subscribed",
		interfaces.String("event_type", eventType),
		interfaces.String("handler", handler.EventType()))

	return nil
}

// Unsubscribe removes a handler for a specific event type
func (eb *InMemoryEventBus) Unsubscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			eb.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}

	return nil
}

// Start starts the event bus
func (eb *InMemoryEventBus) Start(ctx context.Context) error {
	eb.logger.Info("Event bus started")
	return nil
}

// Stop waits for in-flight async publishes.
func (eb *InMemoryEventBus) Stop() error {
	eb.wg.Wait()
	eb.logger.Info("Event bus stopped")
	return nil
}
