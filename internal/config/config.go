package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port               string
	LogLevel           string
	RateLimitPerMinute int

	// Sessions
	SessionTTL time.Duration
	SessionMax int

	// Display
	Currency string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	WorkerReportInterval time.Duration

	ConfigFile string

	loadErrs []string
}

// fileConfig mirrors Config for the optional TOML file. Durations use Go
// duration syntax.
type fileConfig struct {
	Port                 string `toml:"port"`
	LogLevel             string `toml:"log_level"`
	RateLimitPerMinute   int    `toml:"rate_limit_per_minute"`
	SessionTTL           string `toml:"session_ttl"`
	SessionMax           int    `toml:"session_max"`
	Currency             string `toml:"currency"`
	DataBackend          string `toml:"data_backend"`
	SQLiteDBPath         string `toml:"sqlite_db_path"`
	AMQPURL              string `toml:"amqp_url"`
	AMQPExchange         string `toml:"amqp_exchange"`
	AMQPQueue            string `toml:"amqp_queue"`
	WorkerReportInterval string `toml:"worker_report_interval"`
}

const DefaultSQLiteDSN = "file:fintrack?mode=memory&cache=shared"

var (
	validBackends  = []string{"memory", "sqlite"}
	validLogLevels = []string{"debug", "info", "warn", "warning", "error"}
)

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:                 "8081",
		LogLevel:             "info",
		RateLimitPerMinute:   60,
		SessionTTL:           30 * time.Minute,
		SessionMax:           1000,
		Currency:             money.INR,
		DataBackend:          "memory",
		SQLiteDBPath:         DefaultSQLiteDSN,
		AMQPExchange:         "fintrack",
		AMQPQueue:            "entry_recorded",
		WorkerReportInterval: time.Minute,
	}
}

// LoadEnvFile loads a .env file for local development. A missing file is
// not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load builds the configuration from defaults, then CONFIG_FILE, then the
// environment. Problems reading the file are reported by Validate.
func Load() *Config {
	cfg := Defaults()
	cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			cfg.loadErrs = append(cfg.loadErrs, err.Error())
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionMax = getEnvInt("SESSION_MAX", cfg.SessionMax)
	cfg.Currency = strings.ToUpper(getEnv("CURRENCY", cfg.Currency))
	cfg.DataBackend = getEnv("DATA_BACKEND", cfg.DataBackend)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)
	cfg.WorkerReportInterval = getEnvDuration("WORKER_REPORT_INTERVAL", cfg.WorkerReportInterval)

	return cfg
}

// applyFile overlays the non-empty values of a TOML file onto c.
func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("cannot read config file '%s': %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.Currency, strings.ToUpper(fc.Currency))
	setString(&c.DataBackend, fc.DataBackend)
	setString(&c.SQLiteDBPath, fc.SQLiteDBPath)
	setString(&c.AMQPURL, fc.AMQPURL)
	setString(&c.AMQPExchange, fc.AMQPExchange)
	setString(&c.AMQPQueue, fc.AMQPQueue)
	if fc.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = fc.RateLimitPerMinute
	}
	if fc.SessionMax != 0 {
		c.SessionMax = fc.SessionMax
	}

	var errs []string
	if fc.SessionTTL != "" {
		if d, err := time.ParseDuration(fc.SessionTTL); err != nil {
			errs = append(errs, fmt.Sprintf("session_ttl %q: %v", fc.SessionTTL, err))
		} else {
			c.SessionTTL = d
		}
	}
	if fc.WorkerReportInterval != "" {
		if d, err := time.ParseDuration(fc.WorkerReportInterval); err != nil {
			errs = append(errs, fmt.Sprintf("worker_report_interval %q: %v", fc.WorkerReportInterval, err))
		} else {
			c.WorkerReportInterval = d
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid values in config file '%s': %s", path, strings.Join(errs, "; "))
	}
	return nil
}

// SQLiteIsFile reports whether SQLiteDBPath names a file on disk rather
// than a URI or in-memory database.
func (c *Config) SQLiteIsFile() bool {
	p := c.SQLiteDBPath
	return p != "" && !strings.HasPrefix(p, "file:") && !strings.HasPrefix(p, ":memory:")
}

// AMQPEnabled reports whether activity events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := append([]string(nil), c.loadErrs...)

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !oneOf(validLogLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate data backend
	if !oneOf(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if c.SQLiteIsFile() {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if money.GetCurrency(c.Currency) == nil {
		errors = append(errors, fmt.Sprintf("unknown currency '%s': must be an ISO 4217 code", c.Currency))
	}

	// Validate sessions
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}
	if c.SessionMax < 1 {
		errors = append(errors, fmt.Sprintf("invalid session max %d: must be at least 1", c.SessionMax))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate worker configuration
	if c.WorkerReportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid worker report interval %v: must be at least 1 second", c.WorkerReportInterval))
	} else if c.WorkerReportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid worker report interval %v: must be at most 24 hours", c.WorkerReportInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func oneOf(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
