package events

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
)

type mockHandler struct {
	mock.Mock
	name string
}

func (m *mockHandler) Handle(ctx context.Context, event interfaces.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockHandler) EventType() string { return m.name }

func TestNewEvent(t *testing.T) {
	event := NewEvent(SessionCreated, "session-1", map[string]interface{}{"username": "neo"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, SessionCreated, event.EventType())
	assert.Equal(t, "session-1", event.AggregateID())
	assert.NotZero(t, event.Timestamp())
	assert.Equal(t, "neo", event.Data["username"])
}

func TestPublish_DeliversToTypeAndWildcardHandlers(t *testing.T) {
	// Arrange
	bus := NewInMemoryEventBus(logger.NewNoop())
	typed := &mockHandler{name: "typed"}
	wildcard := &mockHandler{name: "forwarder"}
	other := &mockHandler{name: "other"}
	event := NewEvent(AccountFavoriteMarked, "42", nil)

	typed.On("Handle", mock.Anything, event).Return(nil).Once()
	wildcard.On("Handle", mock.Anything, event).Return(nil).Once()

	require.NoError(t, bus.Subscribe(AccountFavoriteMarked, typed))
	require.NoError(t, bus.Subscribe(AllEvents, wildcard))
	require.NoError(t, bus.Subscribe(SessionEnded, other))

	// Act
	err := bus.Publish(context.Background(), event)

	// Assert
	require.NoError(t, err)
	typed.AssertExpectations(t)
	wildcard.AssertExpectations(t)
	other.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPublish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(logger.NewNoop())
	failing := &mockHandler{name: "failing"}
	next := &mockHandler{name: "next"}
	event := NewEvent(SessionEnded, "s", nil)

	failing.On("Handle", mock.Anything, event).Return(errors.New("broker down"))
	next.On("Handle", mock.Anything, event).Return(nil)
	require.NoError(t, bus.Subscribe(SessionEnded, failing))
	require.NoError(t, bus.Subscribe(SessionEnded, next))

	assert.NoError(t, bus.Publish(context.Background(), event))
	next.AssertExpectations(t)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(logger.NewNoop())
	h := &mockHandler{name: "h"}
	require.NoError(t, bus.Subscribe(SessionCreated, h))
	require.NoError(t, bus.Unsubscribe(SessionCreated, h))

	require.NoError(t, bus.Publish(context.Background(), NewEvent(SessionCreated, "s", nil)))

	h.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

type countingHandler struct {
	mu    sync.Mutex
	count int
}

func (c *countingHandler) Handle(context.Context, interfaces.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *countingHandler) EventType() string { return "counting" }

func TestPublishAsync_StopWaits(t *testing.T) {
	bus := NewInMemoryEventBus(logger.NewNoop())
	h := &countingHandler{}
	require.NoError(t, bus.Subscribe(AllEvents, h))

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 10; i++ {
		bus.PublishAsync(ctx, NewEvent(AccountWatchlistMarked, "1", nil))
	}
	cancel()
	require.NoError(t, bus.Stop())

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, 10, h.count)
}

type plainEvent struct{}

func (plainEvent) EventType() string   { return "plain" }
func (plainEvent) Timestamp() int64    { return 7 }
func (plainEvent) AggregateID() string { return "agg" }

func TestMarshal(t *testing.T) {
	event := NewEvent(AccountFavoriteMarked, "42", map[string]interface{}{"media_id": 550})

	data, err := Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+event.ID+`","type":"account.favorite_marked","timestamp":`+
		strconv.FormatInt(event.Time, 10)+`,"aggregate_id":"42","data":{"media_id":550}}`, string(data))

	envelope := Envelope(plainEvent{})
	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, "plain", envelope.Type)
	assert.Equal(t, int64(7), envelope.Time)
	assert.Equal(t, "agg", envelope.AggID)
}
