package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
	Encoding    string `json:"encoding" yaml:"encoding"` // json or console

	// OutputPath is stdout, stderr or a file path. Files are rotated.
	OutputPath string `json:"output_path" yaml:"output_path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `json:"compress" yaml:"compress"`

	// Additional fields to include in all logs
	InitialFields map[string]interface{} `json:"initial_fields" yaml:"initial_fields"`
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Encoding:   "json",
		OutputPath: "stdout",
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 15,
		Compress:   true,
	}
}

// DevelopmentConfig returns development logger configuration
func DevelopmentConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.Development = true
	cfg.Encoding = "console"
	return cfg
}

// Build creates a logger from the configuration
func (c *Config) Build() (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if c.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.MessageKey = "message"
		encoderConfig.LevelKey = "level"
	}

	var encoder zapcore.Encoder
	if c.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	}
	if c.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	core := zapcore.NewCore(encoder, c.writer(), zap.NewAtomicLevelAt(level))
	logger := zap.New(core, opts...)

	if len(c.InitialFields) > 0 {
		fields := make([]zap.Field, 0, len(c.InitialFields))
		for k, v := range c.InitialFields {
			fields = append(fields, zap.Any(k, v))
		}
		logger = logger.With(fields...)
	}

	return &ZapLogger{logger: logger}, nil
}

func (c *Config) writer() zapcore.WriteSyncer {
	switch c.OutputPath {
	case "", "stdout":
		return zapcore.Lock(os.Stdout)
	case "stderr":
		return zapcore.Lock(os.Stderr)
	default:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.OutputPath,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		})
	}
}

// NewFromConfig creates a new logger from configuration
func NewFromConfig(cfg *Config) (*ZapLogger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return cfg.Build()
}
