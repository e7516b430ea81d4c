package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the interface that all loadable configs must implement.
type Config interface {
	Validate() error
}

// BaseConfig is the configuration shared by every reelscout binary.
type BaseConfig struct {
	Service   ServiceConfig   `koanf:"service"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	Logger    LoggerConfig    `koanf:"logger"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Auth      AuthConfig      `koanf:"auth"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Companion CompanionConfig `koanf:"companion"`
	Events    EventsConfig    `koanf:"events"`
}

// ServiceConfig contains service metadata and HTTP server settings.
type ServiceConfig struct {
	Name            string        `koanf:"name"`
	Version         string        `koanf:"version"`
	Environment     string        `koanf:"environment"` // dev, staging, production
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the session store.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"` // sqlite or postgres
	Path            string        `koanf:"path"`   // sqlite file
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"database"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	LogLevel        string        `koanf:"log_level"` // silent, error, warn, info
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PoolSize     int           `koanf:"pool_size"`
}

// CacheConfig controls caching of TMDB catalog responses.
type CacheConfig struct {
	Driver      string        `koanf:"driver"` // memory, redis or none
	KeyPrefix   string        `koanf:"key_prefix"`
	TrendingTTL time.Duration `koanf:"trending_ttl"`
	DetailsTTL  time.Duration `koanf:"details_ttl"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level       string `koanf:"level"`  // debug, info, warn, error
	Format      string `koanf:"format"` // json, console
	Development bool   `koanf:"development"`
	OutputPath  string `koanf:"output_path"` // stdout, stderr, or file path
	MaxSizeMB   int    `koanf:"max_size_mb"`
	MaxBackups  int    `koanf:"max_backups"`
	MaxAgeDays  int    `koanf:"max_age_days"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// AuthConfig configures API tokens and at-rest encryption of TMDB sessions.
type AuthConfig struct {
	JWTSecret           string        `koanf:"jwt_secret"`
	Issuer              string        `koanf:"issuer"`
	AccessTokenDuration time.Duration `koanf:"access_token_duration"`
	EncryptionKey       string        `koanf:"encryption_key"`
}

// TMDBConfig configures the TMDB v3 client.
type TMDBConfig struct {
	BaseURL        string        `koanf:"base_url"`
	AccessToken    string        `koanf:"access_token"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"` // requests per second, 0 disables
	Burst          int           `koanf:"burst"`
	TrendingWindow string        `koanf:"trending_window"` // day or week
}

// CompanionConfig configures the AI search companion service.
type CompanionConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// EventsConfig selects where session and account events are forwarded.
type EventsConfig struct {
	Driver  string      `koanf:"driver"` // none, nats or kafka
	Subject string      `koanf:"subject"`
	NATS    NATSConfig  `koanf:"nats"`
	Kafka   KafkaConfig `koanf:"kafka"`
}

// NATSConfig contains NATS JetStream settings.
type NATSConfig struct {
	URL           string        `koanf:"url"`
	ClientID      string        `koanf:"client_id"`
	Stream        string        `koanf:"stream"`
	MaxReconnect  int           `koanf:"max_reconnect"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// KafkaConfig contains Kafka producer settings.
type KafkaConfig struct {
	Brokers  []string `koanf:"brokers"`
	Topic    string   `koanf:"topic"`
	ClientID string   `koanf:"client_id"`
}

// Manager handles configuration loading and parsing.
type Manager struct {
	k           *koanf.Koanf
	serviceName string
	envPrefix   string
	configPaths []string
	envFiles    []string
}

// NewManager creates a new configuration manager. Environment variables are
// read with the REELSCOUT_ prefix whatever the binary is called.
func NewManager(serviceName string) *Manager {
	return &Manager{
		k:           koanf.New("."),
		serviceName: serviceName,
		envPrefix:   "REELSCOUT_",
		configPaths: getDefaultConfigPaths(serviceName),
		envFiles:    []string{".env"},
	}
}

// WithConfigPaths replaces the list of files probed by LoadConfig.
func (m *Manager) WithConfigPaths(paths ...string) *Manager {
	m.configPaths = paths
	return m
}

// WithEnvFiles replaces the dotenv files read before the environment.
// Variables already set in the process environment win.
func (m *Manager) WithEnvFiles(paths ...string) *Manager {
	m.envFiles = paths
	return m
}

// LoadConfig loads configuration from all sources.
func (m *Manager) LoadConfig(cfg Config) error {
	// 1. Load defaults from the struct itself
	if err := m.loadDefaults(cfg); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load from config files (later files win)
	for _, path := range m.configPaths {
		if err := m.loadFromFile(path); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	// 3. Load from environment variables, after .env files have filled gaps
	if err := m.loadDotEnv(); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	if err := m.loadFromEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	// 4. Unmarshal into the config struct
	if err := m.k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns a value for the given key.
func (m *Manager) Get(key string) interface{} {
	return m.k.Get(key)
}

// GetString returns a string value for the given key.
func (m *Manager) GetString(key string) string {
	return m.k.String(key)
}

func (m *Manager) loadDefaults(cfg Config) error {
	return m.k.Load(structs.Provider(cfg, "koanf"), nil)
}

func (m *Manager) loadFromFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return m.k.Load(file.Provider(path), parser)
}

func (m *Manager) loadDotEnv() error {
	for _, path := range m.envFiles {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// loadFromEnv maps REELSCOUT_TMDB_ACCESS_TOKEN onto tmdb.access_token. Keys
// already known from defaults or files are matched first so that underscores
// inside a key survive; anything else falls back to "_" meaning ".".
func (m *Manager) loadFromEnv() error {
	known := make(map[string]string)
	for _, key := range m.k.Keys() {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	return m.k.Load(env.Provider(m.envPrefix, ".", func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, m.envPrefix))
		if key, ok := known[name]; ok {
			return key
		}
		return strings.ReplaceAll(name, "_", ".")
	}), nil)
}

func getDefaultConfigPaths(serviceName string) []string {
	paths := []string{
		"config.yaml",
		"config.json",
		fmt.Sprintf("%s.yaml", serviceName),
		fmt.Sprintf("%s.json", serviceName),

		"configs/config.yaml",
		"configs/config.json",
		fmt.Sprintf("configs/%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.json", serviceName),

		fmt.Sprintf("configs/%s.%s.yaml", serviceName, getEnvironment()),
		fmt.Sprintf("configs/%s.%s.json", serviceName, getEnvironment()),
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		paths = append(paths, configPath)
	}

	return paths
}

func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}

// Validate validates the base configuration.
func (c *BaseConfig) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service name is required")
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case "postgres":
		if c.Database.Host == "" {
			return errors.New("database host is required for postgres")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	switch c.Cache.Driver {
	case "memory", "none", "":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis addr is required when cache driver is redis")
		}
	default:
		return fmt.Errorf("unsupported cache driver: %q", c.Cache.Driver)
	}

	if c.TMDB.AccessToken == "" {
		return errors.New("TMDB access token is required (set REELSCOUT_TMDB_ACCESS_TOKEN)")
	}
	if c.TMDB.BaseURL == "" {
		return errors.New("TMDB base url is required")
	}
	if w := c.TMDB.TrendingWindow; w != "day" && w != "week" {
		return fmt.Errorf("invalid trending window %q: must be day or week", w)
	}
	if c.Companion.BaseURL == "" {
		return errors.New("companion base url is required")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT secret is required (set REELSCOUT_AUTH_JWT_SECRET)")
	}
	if c.Auth.AccessTokenDuration < time.Minute {
		return errors.New("access token duration must be at least 1 minute")
	}
	if c.Auth.EncryptionKey == "" {
		return errors.New("encryption key is required")
	}
	if IsProduction(&c.Service) && c.Auth.EncryptionKey == DefaultEncryptionKey {
		return errors.New("the default encryption key must not be used in production")
	}

	switch c.Events.Driver {
	case "none", "":
	case "nats":
		if c.Events.NATS.URL == "" {
			return errors.New("nats url is required when events driver is nats")
		}
	case "kafka":
		if len(c.Events.Kafka.Brokers) == 0 {
			return errors.New("at least one kafka broker is required when events driver is kafka")
		}
	default:
		return fmt.Errorf("unsupported events driver: %q", c.Events.Driver)
	}

	return nil
}

// GetDefaults returns default configuration values for serviceName.
func GetDefaults(serviceName string) *BaseConfig {
	return &BaseConfig{
		Service: ServiceConfig{
			Name:            serviceName,
			Environment:     "dev",
			Port:            DefaultHTTPPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            DefaultSQLitePath,
			Host:            "localhost",
			Port:            DefaultPostgresPort,
			User:            "reelscout",
			Database:        "reelscout",
			SSLMode:         "disable",
			MaxConnections:  DefaultMaxConnections,
			MinConnections:  DefaultMinConnections,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: DefaultMaxConnIdleTime,
			LogLevel:        "warn",
		},
		Redis: RedisConfig{
			Addr:         DefaultRedisAddr,
			DialTimeout:  DefaultDialTimeout,
			ReadTimeout:  DefaultRedisTimeout,
			WriteTimeout: DefaultRedisTimeout,
			PoolSize:     DefaultPoolSize,
		},
		Cache: CacheConfig{
			Driver:      "memory",
			KeyPrefix:   "reelscout:",
			TrendingTTL: DefaultTrendingTTL,
			DetailsTTL:  DefaultDetailsTTL,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 15,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Auth: AuthConfig{
			Issuer:              serviceName,
			AccessTokenDuration: DefaultAccessTokenDuration,
			EncryptionKey:       DefaultEncryptionKey,
		},
		TMDB: TMDBConfig{
			BaseURL:        DefaultTMDBBaseURL,
			Timeout:        DefaultUpstreamTimeout,
			RateLimit:      DefaultTMDBRateLimit,
			Burst:          DefaultTMDBBurst,
			TrendingWindow: "day",
		},
		Companion: CompanionConfig{
			BaseURL: DefaultCompanionBaseURL,
			Timeout: DefaultUpstreamTimeout,
		},
		Events: EventsConfig{
			Driver:  "none",
			Subject: DefaultEventSubject,
			NATS: NATSConfig{
				URL:           DefaultNATSURL,
				ClientID:      serviceName,
				Stream:        DefaultNATSStream,
				MaxReconnect:  DefaultMaxReconnect,
				ReconnectWait: DefaultReconnectWait,
			},
			Kafka: KafkaConfig{
				Topic:    DefaultKafkaTopic,
				ClientID: serviceName,
			},
		},
	}
}
