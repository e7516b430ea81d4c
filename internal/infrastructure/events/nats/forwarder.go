package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/metrics"
)

const publishTimeout = 5 * time.Second

// Publisher is the JetStream publish call the forwarder needs.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Forwarder republishes every bus event to JetStream under
// "<prefix>.<event type>", deduplicated by event id.
type Forwarder struct {
	js     Publisher
	prefix string
	logger interfaces.Logger
}

// NewForwarder creates a forwarder. Subscribe it with events.AllEvents.
func NewForwarder(js Publisher, prefix string, logger interfaces.Logger) *Forwarder {
	return &Forwarder{js: js, prefix: prefix, logger: logger}
}

// Handle publishes event and waits for the stream acknowledgement.
func (f *Forwarder) Handle(ctx context.Context, event interfaces.Event) error {
	envelope := events.Envelope(event)
	data, err := events.Marshal(envelope)
	if err != nil {
		metrics.EventsForwarded.WithLabelValues("nats", event.EventType(), "error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := f.Subject(event.EventType())
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ack, err := f.js.Publish(pubCtx, subject, data, jetstream.WithMsgID(envelope.ID))
	if err != nil {
		metrics.EventsForwarded.WithLabelValues("nats", event.EventType(), "error").Inc()
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	metrics.EventsForwarded.WithLabelValues("nats", event.EventType(), "ok").Inc()
	f.logger.Debug("Event forwarded",
		interfaces.String("subject", subject),
		interfaces.String("stream", ack.Stream),
		interfaces.Int64("sequence", int64(ack.Sequence)))
	return nil
}

// Subject returns the subject an event type is published on.
func (f *Forwarder) Subject(eventType string) string {
	return f.prefix + "." + eventType
}

// EventType subscribes the forwarder to every event.
func (f *Forwarder) EventType() string {
	return events.AllEvents
}
