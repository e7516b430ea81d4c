package config

import (
	"fmt"
	"os"

	"github.com/narwhalmedia/reelscout/pkg/database"
	"github.com/narwhalmedia/reelscout/pkg/logger"
)

// LoadServiceConfig is a generic helper to load service configuration
func LoadServiceConfig[T Config](serviceName string, cfg T) error {
	manager := NewManager(serviceName)
	return manager.LoadConfig(cfg)
}

// MustLoadServiceConfig loads config and panics on error (for main functions)
func MustLoadServiceConfig[T Config](serviceName string, cfg T) T {
	if err := LoadServiceConfig(serviceName, cfg); err != nil {
		panic(fmt.Sprintf("failed to load %s config: %v", serviceName, err))
	}
	return cfg
}

// ToDatabaseConfig converts config to database package config
func (c DatabaseConfig) ToDatabaseConfig() *database.Config {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return &database.Config{
		Driver:          c.Driver,
		Path:            c.Path,
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Database:        c.Database,
		SSLMode:         sslMode,
		MaxConnections:  c.MaxConnections,
		MinConnections:  c.MinConnections,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
		LogLevel:        database.ParseLogLevel(c.LogLevel),
	}
}

// ToLoggerConfig converts config to logger package config
func (c LoggerConfig) ToLoggerConfig(service *ServiceConfig) *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Level
	cfg.Development = c.Development
	cfg.Encoding = c.Format
	cfg.OutputPath = c.OutputPath
	cfg.MaxSizeMB = c.MaxSizeMB
	cfg.MaxBackups = c.MaxBackups
	cfg.MaxAgeDays = c.MaxAgeDays
	if service != nil {
		cfg.InitialFields = map[string]interface{}{
			"service": service.Name,
			"version": GetServiceVersion(service),
		}
	}
	return cfg
}

// GetServiceVersion returns the service version from config or environment
func GetServiceVersion(cfg *ServiceConfig) string {
	if cfg.Version != "" {
		return cfg.Version
	}
	if version := os.Getenv("SERVICE_VERSION"); version != "" {
		return version
	}
	return "dev"
}

// IsProduction returns true if running in production environment
func IsProduction(cfg *ServiceConfig) bool {
	return cfg.Environment == "production" || cfg.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func IsDevelopment(cfg *ServiceConfig) bool {
	return cfg.Environment == "development" || cfg.Environment == "dev"
}

// GetListenAddress returns the formatted listen address for HTTP server
func GetListenAddress(cfg *ServiceConfig) string {
	return fmt.Sprintf(":%d", cfg.Port)
}
