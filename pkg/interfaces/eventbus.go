package interfaces

import (
	"context"
)

// Event is something that happened to a session or an account.
type Event interface {
	// EventType returns the dotted event name, e.g. "session.created"
	EventType() string

	// Timestamp returns when the event occurred in unix nanoseconds
	Timestamp() int64

	// AggregateID returns the id of the session or account that produced the event
	AggregateID() string
}

// EventHandler handles events of a specific type.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error

	// EventType returns the type of events this handler processes
	EventType() string
}

// EventBus provides pub/sub functionality for session and account events.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event)
	Subscribe(eventType string, handler EventHandler) error
	Unsubscribe(eventType string, handler EventHandler) error
	Start(ctx context.Context) error
	Stop() error
}
