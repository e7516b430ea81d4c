package config

import "time"

const (
	// Server defaults.
	DefaultHTTPPort        = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Database defaults.
	DefaultSQLitePath      = "reelscout.db"
	DefaultPostgresPort    = 5432
	DefaultMaxConnections  = 25
	DefaultMinConnections  = 5
	DefaultMaxConnIdleTime = 30 * time.Minute

	// Redis defaults.
	DefaultRedisAddr    = "localhost:6379"
	DefaultPoolSize     = 10
	DefaultDialTimeout  = 5 * time.Second
	DefaultRedisTimeout = 3 * time.Second

	// Cache defaults.
	DefaultTrendingTTL = 10 * time.Minute
	DefaultDetailsTTL  = time.Hour

	// Upstream defaults.
	DefaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	DefaultCompanionBaseURL = "http://localhost:3000"
	DefaultUpstreamTimeout  = 10 * time.Second
	DefaultTMDBRateLimit    = 40.0
	DefaultTMDBBurst        = 20

	// Auth defaults.
	DefaultAccessTokenDuration = 24 * time.Hour
	DefaultEncryptionKey       = "development-key-please-change-in-production"

	// Events defaults.
	DefaultNATSURL       = "nats://localhost:4222"
	DefaultNATSStream    = "REELSCOUT_EVENTS"
	DefaultMaxReconnect  = 10
	DefaultReconnectWait = 2 * time.Second
	DefaultKafkaTopic    = "reelscout.events"
	DefaultEventSubject  = "reelscout"
)
