package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// Event types published by the session and account services.
const (
	SessionCreated         = "session.created"
	SessionEnded           = "session.ended"
	AccountFavoriteMarked  = "account.favorite_marked"
	AccountWatchlistMarked = "account.watchlist_marked"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

// BaseEvent is the envelope every event is published in. It is also the
// wire format forwarded to NATS and Kafka.
type BaseEvent struct {
	ID    string                 `json:"id"`
	Type  string                 `json:"type"`
	Time  int64                  `json:"timestamp"`
	AggID string                 `json:"aggregate_id"`
	Data  map[string]interface{} `json:"data"`
}

// NewEvent creates an event for the session or account identified by
// aggregateID.
func NewEvent(eventType, aggregateID string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		ID:    uuid.NewString(),
		Type:  eventType,
		Time:  time.Now().UnixNano(),
		AggID: aggregateID,
		Data:  data,
	}
}

// EventType returns the type of the event
func (e *BaseEvent) EventType() string {
	return e.Type
}

// Timestamp returns when the event occurred
func (e *BaseEvent) Timestamp() int64 {
	return e.Time
}

// AggregateID returns the ID of the aggregate that produced the event
func (e *BaseEvent) AggregateID() string {
	return e.AggID
}

// Envelope converts any event into the forwarded wire format.
func Envelope(event interfaces.Event) *BaseEvent {
	if base, ok := event.(*BaseEvent); ok {
		return base
	}
	return &BaseEvent{
		ID:    uuid.NewString(),
		Type:  event.EventType(),
		Time:  event.Timestamp(),
		AggID: event.AggregateID(),
	}
}

// Marshal encodes event as its JSON envelope.
func Marshal(event interfaces.Event) ([]byte, error) {
	return json.Marshal(Envelope(event))
}
