package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// Client wraps NATS and JetStream connections
type Client struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger interfaces.Logger
}

// NewClient connects to NATS and makes sure the stream that holds
// subject.> exists. The returned cleanup drains the connection.
func NewClient(cfg config.NATSConfig, subject string, logger interfaces.Logger) (*Client, func(), error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientID),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", interfaces.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", interfaces.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		nc:     nc,
		js:     js,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.ensureStream(ctx, cfg.Stream, subject); err != nil {
		nc.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", interfaces.Error(err))
		}
	}

	logger.Info("NATS client initialized",
		interfaces.String("url", cfg.URL),
		interfaces.String("stream", cfg.Stream))

	return client, cleanup, nil
}

func (c *Client) ensureStream(ctx context.Context, name, subject string) error {
	stream := jetstream.StreamConfig{
		Name:        name,
		Description: "reelscout session and account events",
		Subjects:    []string{subject + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
		Replicas:    1,
	}
	if _, err := c.js.CreateOrUpdateStream(ctx, stream); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	return nil
}

// JetStream returns the JetStream context
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// Health reports whether the connection is usable. The readiness probe
// uses it.
func (c *Client) Health(ctx context.Context) error {
	if !c.nc.IsConnected() {
		return errors.New("NATS not connected")
	}
	return c.nc.FlushWithContext(ctx)
}
