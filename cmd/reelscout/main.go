package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/narwhalmedia/reelscout/internal/container"
	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

func main() {
	// Load configuration
	cfg := config.MustLoadServiceConfig("reelscout", config.GetDefaults("reelscout"))

	// Initialize logger
	log, err := cfg.Logger.ToLoggerConfig(&cfg.Service).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("ReelScout API starting",
		interfaces.String("version", config.GetServiceVersion(&cfg.Service)),
		interfaces.String("environment", cfg.Service.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, cleanup, err := container.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize dependencies", interfaces.Error(err))
	}
	defer cleanup()

	if err := c.Server().Start(ctx); err != nil {
		log.Error("Server stopped with error", interfaces.Error(err))
		return
	}

	log.Info("ReelScout API stopped")
}
