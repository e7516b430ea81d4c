package container

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	accounthandler "github.com/narwhalmedia/reelscout/internal/account/handler"
	accountservice "github.com/narwhalmedia/reelscout/internal/account/service"
	cataloghandler "github.com/narwhalmedia/reelscout/internal/catalog/handler"
	catalogservice "github.com/narwhalmedia/reelscout/internal/catalog/service"
	"github.com/narwhalmedia/reelscout/internal/companion"
	"github.com/narwhalmedia/reelscout/internal/infrastructure/events/kafka"
	"github.com/narwhalmedia/reelscout/internal/infrastructure/events/nats"
	"github.com/narwhalmedia/reelscout/internal/server"
	sessionhandler "github.com/narwhalmedia/reelscout/internal/session/handler"
	sessionrepo "github.com/narwhalmedia/reelscout/internal/session/repository"
	sessionservice "github.com/narwhalmedia/reelscout/internal/session/service"
	"github.com/narwhalmedia/reelscout/internal/tmdb"
	"github.com/narwhalmedia/reelscout/pkg/auth"
	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/database"
	"github.com/narwhalmedia/reelscout/pkg/encryption"
	"github.com/narwhalmedia/reelscout/pkg/events"
	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/utils"
)

// Container holds every dependency of the API server and the CLI.
type Container struct {
	Config   *config.BaseConfig
	Logger   interfaces.Logger
	DB       *gorm.DB
	Cache    interfaces.Cache
	EventBus *events.InMemoryEventBus
	TMDB     *tmdb.Client

	CatalogService *catalogservice.CatalogService
	AuthService    *sessionservice.AuthService
	AccountService *accountservice.AccountService

	checks []server.ReadinessCheck
}

// New opens the session store, runs migrations, selects the cache and event
// drivers and wires the services. The returned cleanup releases everything
// in reverse order.
func New(ctx context.Context, cfg *config.BaseConfig, logger interfaces.Logger) (*Container, func(), error) {
	c := &Container{Config: cfg, Logger: logger}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*Container, func(), error) {
		cleanup()
		return nil, nil, err
	}

	db, err := database.NewGormDB(cfg.Database.ToDatabaseConfig())
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() { _ = database.Close(db) })
	if err := database.RunMigrations(db); err != nil {
		return fail(fmt.Errorf("failed to run migrations: %w", err))
	}
	c.DB = db
	c.checks = append(c.checks, server.ReadinessCheck{
		Name:  "database",
		Check: func(context.Context) error { return database.Ping(db) },
	})

	cache, closeCache, err := c.newCache(ctx)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeCache)
	c.Cache = cache

	c.EventBus = events.NewInMemoryEventBus(logger)
	if err := c.EventBus.Start(ctx); err != nil {
		return fail(err)
	}
	closeEvents, err := c.forwardEvents()
	if err != nil {
		_ = c.EventBus.Stop()
		return fail(err)
	}
	cleanups = append(cleanups, shutdownEvents(c.EventBus, closeEvents))

	encryptor, err := encryption.NewEncryptor(cfg.Auth.EncryptionKey)
	if err != nil {
		return fail(fmt.Errorf("failed to create encryptor: %w", err))
	}

	c.TMDB = tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.AccessToken,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithRateLimit(cfg.TMDB.RateLimit, cfg.TMDB.Burst),
		tmdb.WithLogger(logger),
	)
	ai := companion.NewClient(cfg.Companion.BaseURL, cfg.Companion.Timeout)

	c.CatalogService = catalogservice.NewCatalogService(c.TMDB, ai, cache, logger, catalogservice.Options{
		TrendingWindow: tmdb.TimeWindow(cfg.TMDB.TrendingWindow),
		TrendingTTL:    cfg.Cache.TrendingTTL,
		DetailsTTL:     cfg.Cache.DetailsTTL,
	})
	c.AuthService = sessionservice.NewAuthService(
		c.TMDB,
		sessionrepo.NewGormRepository(db, encryptor),
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenDuration),
		c.EventBus,
		logger,
	)
	c.AccountService = accountservice.NewAccountService(c.TMDB, c.EventBus, logger)

	return c, cleanup, nil
}

func (c *Container) newCache(ctx context.Context) (interfaces.Cache, func(), error) {
	switch c.Config.Cache.Driver {
	case "redis":
		rc := c.Config.Redis
		client := goredis.NewClient(&goredis.Options{
			Addr:         rc.Addr,
			Password:     rc.Password,
			DB:           rc.DB,
			DialTimeout:  rc.DialTimeout,
			ReadTimeout:  rc.ReadTimeout,
			WriteTimeout: rc.WriteTimeout,
			PoolSize:     rc.PoolSize,
		})
		cache := utils.NewRedisCache(client, c.Config.Cache.KeyPrefix)
		if err := cache.Ping(ctx); err != nil {
			_ = cache.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.checks = append(c.checks, server.ReadinessCheck{Name: "redis", Check: cache.Ping})
		return cache, func() { _ = cache.Close() }, nil
	case "none":
		return utils.NoopCache{}, func() {}, nil
	default:
		cache := utils.NewInMemoryCache(time.Minute)
		return cache, func() { _ = cache.Close() }, nil
	}
}

// shutdownEvents drains in-flight async publishes before the forwarder's
// broker connection is closed.
func shutdownEvents(bus *events.InMemoryEventBus, closeForwarder func()) func() {
	return func() {
		_ = bus.Stop()
		closeForwarder()
	}
}

// forwardEvents subscribes the configured broker forwarder to the bus.
func (c *Container) forwardEvents() (func(), error) {
	ec := c.Config.Events
	switch ec.Driver {
	case "nats":
		client, closeClient, err := nats.NewClient(ec.NATS, ec.Subject, c.Logger)
		if err != nil {
			return nil, err
		}
		forwarder := nats.NewForwarder(client.JetStream(), ec.Subject, c.Logger)
		if err := c.EventBus.Subscribe(events.AllEvents, forwarder); err != nil {
			closeClient()
			return nil, err
		}
		c.checks = append(c.checks, server.ReadinessCheck{Name: "nats", Check: client.Health})
		return closeClient, nil
	case "kafka":
		producer, err := kafka.NewSyncProducer(ec.Kafka)
		if err != nil {
			return nil, err
		}
		forwarder := kafka.NewForwarder(producer, ec.Kafka.Topic, c.Logger)
		if err := c.EventBus.Subscribe(events.AllEvents, forwarder); err != nil {
			_ = forwarder.Close()
			return nil, err
		}
		return func() { _ = forwarder.Close() }, nil
	default:
		return func() {}, nil
	}
}

// Server builds the HTTP API on top of the container's services.
func (c *Container) Server() *server.Server {
	svc := c.Config.Service
	return server.New(server.Options{
		Addr:            config.GetListenAddress(&svc),
		ReadTimeout:     svc.ReadTimeout,
		WriteTimeout:    svc.WriteTimeout,
		ShutdownTimeout: svc.ShutdownTimeout,
		MetricsEnabled:  c.Config.Metrics.Enabled,
		MetricsPath:     c.Config.Metrics.Path,
	}, server.Handlers{
		Catalog: cataloghandler.NewHTTPHandler(c.CatalogService),
		Session: sessionhandler.NewHTTPHandler(c.AuthService),
		Account: accounthandler.NewHTTPHandler(c.AccountService),
		Auth:    c.AuthService,
	}, c.Logger, c.checks...)
}
