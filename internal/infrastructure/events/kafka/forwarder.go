package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/metrics"
)

// NewProducerConfig returns the producer settings the forwarder relies on:
// acknowledged, retried, synchronous writes.
func NewProducerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	return cfg
}

// NewSyncProducer connects a producer to the configured brokers.
func NewSyncProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg.ClientID))
	if err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return producer, nil
}

// Forwarder writes every bus event to a Kafka topic, keyed by aggregate id
// so one session or account stays on one partition.
type Forwarder struct {
	producer sarama.SyncProducer
	topic    string
	logger   interfaces.Logger
}

// NewForwarder creates a forwarder. Subscribe it with events.AllEvents.
func NewForwarder(producer sarama.SyncProducer, topic string, logger interfaces.Logger) *Forwarder {
	return &Forwarder{producer: producer, topic: topic, logger: logger}
}

// Handle sends event and waits for the broker acknowledgement.
func (f *Forwarder) Handle(ctx context.Context, event interfaces.Event) error {
	data, err := events.Marshal(event)
	if err != nil {
		metrics.EventsForwarded.WithLabelValues("kafka", event.EventType(), "error").Inc()
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: f.topic,
		Key:   sarama.StringEncoder(event.AggregateID()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType())},
		},
	}

	partition, offset, err := f.producer.SendMessage(msg)
	if err != nil {
		metrics.EventsForwarded.WithLabelValues("kafka", event.EventType(), "error").Inc()
		return fmt.Errorf("sending message: %w", err)
	}

	metrics.EventsForwarded.WithLabelValues("kafka", event.EventType(), "ok").Inc()
	f.logger.Debug("Event forwarded",
		interfaces.String("topic", f.topic),
		interfaces.Int("partition", int(partition)),
		interfaces.Int64("offset", offset))
	return nil
}

// EventType subscribes the forwarder to every event.
func (f *Forwarder) EventType() string {
	return events.AllEvents
}

// Close closes the producer
func (f *Forwarder) Close() error {
	return f.producer.Close()
}
