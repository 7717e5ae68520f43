package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Scheduler   SchedulerConfig
	Interpreter InterpreterConfig
	Notifier    NotifierConfig
	Calendar    CalendarConfig
	PubSub      PubSubConfig
	Tracing     TracingConfig
	Log         LogConfig
}

type LogConfig struct {
	Level string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SchedulerConfig struct {
	Interval  time.Duration
	Tolerance time.Duration
	// Lookback keeps un-notified instants eligible for re-dispatch across
	// several ticks, so a failed send can be retried up to MissThreshold
	// times before housekeeping retires the reminder.
	Lookback      time.Duration
	SendDelay     time.Duration
	MissThreshold int
}

// InterpreterConfig configures the LLM fallback used when rule-based time
// parsing finds nothing. An empty API key disables the fallback.
type InterpreterConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type NotifierConfig struct {
	TelegramToken string
}

// CalendarConfig configures CalDAV mirroring. An empty URL disables it.
type CalendarConfig struct {
	URL      string
	Username string
	Password string
}

type PubSubConfig struct {
	NatsURL string
}

type TracingConfig struct {
	Endpoint    string
	Environment string
}

func Load() (*Config, error) {
	serverPort, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("SERVER_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	maxOpenConns, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdleConns, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	interval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL: %w", err)
	}

	tolerance, err := time.ParseDuration(getEnv("SCHEDULER_TOLERANCE", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TOLERANCE: %w", err)
	}

	lookback, err := time.ParseDuration(getEnv("SCHEDULER_LOOKBACK", "150s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_LOOKBACK: %w", err)
	}

	sendDelay, err := time.ParseDuration(getEnv("SCHEDULER_SEND_DELAY", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_SEND_DELAY: %w", err)
	}

	missThreshold, err := strconv.Atoi(getEnv("SCHEDULER_MISS_THRESHOLD", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_MISS_THRESHOLD: %w", err)
	}

	interpreterTimeout, err := time.ParseDuration(getEnv("INTERPRETER_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INTERPRETER_TIMEOUT: %w", err)
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN environment variable is required")
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         serverPort,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		Database: DatabaseConfig{
			DSN:             dsn,
			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		Scheduler: SchedulerConfig{
			Interval:      interval,
			Tolerance:     tolerance,
			Lookback:      lookback,
			SendDelay:     sendDelay,
			MissThreshold: missThreshold,
		},
		Interpreter: InterpreterConfig{
			APIKey:  os.Getenv("OPENROUTER_API_KEY"),
			Model:   getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct"),
			Timeout: interpreterTimeout,
		},
		Notifier: NotifierConfig{
			TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Calendar: CalendarConfig{
			URL:      os.Getenv("CALDAV_URL"),
			Username: os.Getenv("CALDAV_USERNAME"),
			Password: os.Getenv("CALDAV_PASSWORD"),
		},
		PubSub: PubSubConfig{
			NatsURL: os.Getenv("NATS_URL"),
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Environment: getEnv("ENVIRONMENT", "local"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
