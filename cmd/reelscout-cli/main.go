package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/narwhalmedia/reelscout/internal/container"
	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.GetDefaults("reelscout")
	// Access tokens never leave the process, so any secret will do unless one is configured.
	cfg.Auth.JWTSecret = auth.GenerateSecret()
	if err := config.NewManager("reelscout").LoadConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// stdout carries command output
	lc := cfg.Logger.ToLoggerConfig(&cfg.Service)
	if lc.OutputPath == "" || lc.OutputPath == "stdout" {
		lc.OutputPath = "stderr"
	}
	if cfg.Logger.Level == "info" {
		lc.Level = "warn"
	}
	log, err := lc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, cleanup, err := container.New(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cleanup()

	app := NewApp(c.CatalogService, c.AuthService, c.AccountService, os.Stdout, os.Stderr)
	return app.Run(ctx, os.Args[1:])
}
