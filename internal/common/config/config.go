// internal/common/config/config.go
package config

import (
	"fmt"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/resilience"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                `mapstructure:"app"`
	Server        ServerConfig             `mapstructure:"server"`
	Client        ClientConfig             `mapstructure:"client"`
	Logging       LoggingConfig            `mapstructure:"logging"`
	Redis         RedisConfig              `mapstructure:"redis"`
	History       HistoryConfig            `mapstructure:"history"`
	Simulation    SimulationConfig         `mapstructure:"simulation"`
	Adapters      map[string]AdapterConfig `mapstructure:"adapters" validate:"dive"`
	Console       ConsoleConfig            `mapstructure:"console"`
	Observability ObservabilityConfig      `mapstructure:"observability"`
	Scenarios     ScenariosConfig          `mapstructure:"scenarios"`
	Session       SessionConfig            `mapstructure:"session"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address" validate:"required"`
	ReadTimeout     int    `mapstructure:"read_timeout" validate:"gte=0"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout" validate:"gte=0"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"` // milliseconds
}

// ClientConfig configures the CLI's remote mode.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout int           `mapstructure:"timeout" validate:"gte=0"` // milliseconds
	Retry   AdapterConfig `mapstructure:"retry"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HistoryConfig selects the search history backend.
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory redis"`
	Limit   int    `mapstructure:"limit" validate:"min=1,max=50"`
	TTL     int    `mapstructure:"ttl"` // milliseconds, 0 keeps history forever
}

// SimulationConfig drives injected latency and failures.
type SimulationConfig struct {
	Seed                  int64   `mapstructure:"seed"`
	LatencyScale          float64 `mapstructure:"latency_scale" validate:"gte=0"`
	SearchFailureRate     float64 `mapstructure:"search_failure_rate" validate:"gte=0,lte=1"`
	SuggestionFailureRate float64 `mapstructure:"suggestion_failure_rate" validate:"gte=0,lte=1"`
	AINetworkFailureRate  float64 `mapstructure:"ai_network_failure_rate" validate:"gte=0,lte=1"`
	AIUnavailableRate     float64 `mapstructure:"ai_unavailable_rate" validate:"gte=0,lte=1"`
}

// AdapterConfig holds the timeout budget and retry policy of one call site.
type AdapterConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	Timeout           int      `mapstructure:"timeout" validate:"gte=0"` // milliseconds
	MaxRetries        int      `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	InitialDelay      int      `mapstructure:"initial_delay" validate:"gte=0"` // milliseconds
	MaxDelay          int      `mapstructure:"max_delay" validate:"gte=0"`     // milliseconds
	BackoffMultiplier float64  `mapstructure:"backoff_multiplier" validate:"gte=0"`
	RetryableErrors   []string `mapstructure:"retryable_errors" validate:"dive,oneof=TIMEOUT NETWORK_ERROR SERVER_ERROR ABORT UNKNOWN"`
}

// RetryConfig converts the policy into a resilience.RetryConfig.
func (a AdapterConfig) RetryConfig(operation string) (resilience.RetryConfig, error) {
	types := make([]apperrors.ErrorType, 0, len(a.RetryableErrors))
	for _, name := range a.RetryableErrors {
		t, err := apperrors.ParseErrorType(name)
		if err != nil {
			return resilience.RetryConfig{}, fmt.Errorf("adapter %s: %w", operation, err)
		}
		types = append(types, t)
	}
	return resilience.RetryConfig{
		MaxRetries:        a.MaxRetries,
		InitialDelay:      GetDuration(a.InitialDelay),
		MaxDelay:          GetDuration(a.MaxDelay),
		BackoffMultiplier: a.BackoffMultiplier,
		RetryableErrors:   types,
		Operation:         operation,
	}, nil
}

// ConsoleConfig tunes the interactive search session.
type ConsoleConfig struct {
	SuggestionDebounce int `mapstructure:"suggestion_debounce" validate:"gte=0"` // milliseconds
	SubmitGrace        int `mapstructure:"submit_grace" validate:"gte=0"`        // milliseconds
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// ScenariosConfig points at an optional scripted scenario file.
type ScenariosConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}

type SessionConfig struct {
	DefaultUserID     string `mapstructure:"default_user_id" validate:"required"`
	DefaultCustomerID string `mapstructure:"default_customer_id" validate:"required"`
}
