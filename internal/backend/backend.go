// Package backend builds the record backend and the optional event
// publisher from the application configuration.
package backend

import (
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/records"
	"fintrack/internal/records/memory"
	"fintrack/internal/storage"
)

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDSN string

	// AMQP, optional for every backend type
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the record backend, the publisher if AMQP is reachable,
// and a cleanup function releasing both.
type Result struct {
	Records   records.Backend
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         backendType,
		SQLiteDSN:    appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return fmt.Errorf("AMQP exchange and queue are required when AMQP URL is set")
	}
	return nil
}

// Factory creates backends based on configuration
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger}
}

// Create builds the record backend. An unreachable broker is logged and
// leaves Publisher nil; it never fails creation.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := f.logger.WithComponent(log.ComponentBackend)

	var res Result
	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDSN, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		res.Records = repo
		logger.Info("Initialized SQLite backend", "dsn", cfg.SQLiteDSN)
	case MemoryBackend:
		res.Records = memory.NewBackend()
		logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, f.logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			res.Publisher = client
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	recs, publisher := res.Records, res.Publisher
	res.Cleanup = func() error {
		var firstErr error
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				firstErr = fmt.Errorf("close AMQP client: %w", err)
			}
		}
		if err := recs.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close record backend: %w", err)
		}
		return firstErr
	}
	return &res, nil
}
