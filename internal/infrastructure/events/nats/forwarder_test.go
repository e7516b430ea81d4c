package nats_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/narwhalmedia/reelscout/internal/infrastructure/events/nats"
	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/logger"
)

// MockPublisher is a mock for the JetStream publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, subject, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jetstream.PubAck), args.Error(1)
}

func TestForwarder_Handle(t *testing.T) {
	// Arrange
	js := new(MockPublisher)
	forwarder := nats.NewForwarder(js, "reelscout", logger.NewNoopLogger())
	event := events.NewEvent(events.SessionCreated, "session-1", map[string]interface{}{"username": "rick"})

	var payload []byte
	js.On("Publish", mock.Anything, "reelscout.session.created", mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(2).([]byte) }).
		Return(&jetstream.PubAck{Stream: "REELSCOUT_EVENTS", Sequence: 1}, nil).Once()

	// Act
	err := forwarder.Handle(context.Background(), event)

	// Assert
	require.NoError(t, err)
	js.AssertExpectations(t)

	var decoded events.BaseEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "session-1", decoded.AggID)
	assert.Equal(t, "rick", decoded.Data["username"])
}

func TestForwarder_PublishError(t *testing.T) {
	js := new(MockPublisher)
	forwarder := nats.NewForwarder(js, "reelscout", logger.NewNoopLogger())
	js.On("Publish", mock.Anything, "reelscout.session.ended", mock.Anything).
		Return(nil, stderrors.New("no responders")).Once()

	err := forwarder.Handle(context.Background(), events.NewEvent(events.SessionEnded, "session-1", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reelscout.session.ended")
}

func TestForwarder_SubscribesToEverything(t *testing.T) {
	forwarder := nats.NewForwarder(new(MockPublisher), "reelscout", logger.NewNoopLogger())

	assert.Equal(t, events.AllEvents, forwarder.EventType())
	assert.Equal(t, "reelscout.account.watchlist_marked", forwarder.Subject(events.AccountWatchlistMarked))
}

func TestClient_PublishesToServer(t *testing.T) {
	// Skip if NATS is not available
	cfg := config.NATSConfig{
		URL:           "nats://localhost:4222",
		ClientID:      "reelscout-test",
		Stream:        "REELSCOUT_TEST_EVENTS",
		MaxReconnect:  1,
		ReconnectWait: 100 * time.Millisecond,
	}
	log := logger.NewZapLogger(zaptest.NewLogger(t))

	client, cleanup, err := nats.NewClient(cfg, "reelscouttest", log)
	if err != nil {
		t.Skip("NATS not available:", err)
	}
	defer cleanup()

	require.NoError(t, client.Health(context.Background()))

	forwarder := nats.NewForwarder(client.JetStream(), "reelscouttest", log)
	err = forwarder.Handle(context.Background(), events.NewEvent(events.SessionCreated, "session-1", nil))
	require.NoError(t, err)
}
