// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Adapter task types with built-in policies.
const (
	AdapterSearch      = "search-knowledge"
	AdapterSuggestions = "fetch-suggestions"
	AdapterAnswer      = "generate-answer"
	AdapterPermissions = "check-permissions"
	AdapterFeedback    = "submit-feedback"
)

var defaultAdapters = map[string]AdapterConfig{
	AdapterSearch: {
		Enabled: true, Timeout: 10000, MaxRetries: 2, InitialDelay: 500, MaxDelay: 3000,
		BackoffMultiplier: 2, RetryableErrors: []string{"TIMEOUT", "NETWORK_ERROR", "SERVER_ERROR"},
	},
	AdapterSuggestions: {
		Enabled: true, Timeout: 5000, MaxRetries: 0,
	},
	AdapterAnswer: {
		Enabled: true, Timeout: 15000, MaxRetries: 2, InitialDelay: 1000, MaxDelay: 5000,
		BackoffMultiplier: 2, RetryableErrors: []string{"TIMEOUT", "NETWORK_ERROR", "SERVER_ERROR"},
	},
	AdapterPermissions: {
		Enabled: true, Timeout: 3000, MaxRetries: 2, InitialDelay: 500, MaxDelay: 2000,
		BackoffMultiplier: 2, RetryableErrors: []string{"TIMEOUT", "NETWORK_ERROR"},
	},
	AdapterFeedback: {
		Enabled: true, Timeout: 5000, MaxRetries: 1, InitialDelay: 500, MaxDelay: 1000,
		BackoffMultiplier: 2, RetryableErrors: []string{"TIMEOUT", "NETWORK_ERROR"},
	},
}

// Load reads configs/config.yaml (if present), merges config.<env>.yaml and
// applies KS_* environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v)
}

// Default returns the built-in configuration without reading files.
func Default() *Config {
	cfg, err := finish(newViper())
	if err != nil {
		panic(fmt.Sprintf("built-in configuration is invalid: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("KS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "knowledge-search")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", 10000)
	v.SetDefault("client.retry.max_retries", 2)
	v.SetDefault("client.retry.initial_delay", 500)
	v.SetDefault("client.retry.max_delay", 5000)
	v.SetDefault("client.retry.backoff_multiplier", 2)
	v.SetDefault("client.retry.retryable_errors", []string{"TIMEOUT", "NETWORK_ERROR", "SERVER_ERROR"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("history.backend", "memory")
	v.SetDefault("history.limit", 5)

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.latency_scale", 1.0)
	v.SetDefault("simulation.search_failure_rate", 0.02)
	v.SetDefault("simulation.suggestion_failure_rate", 0.02)
	v.SetDefault("simulation.ai_network_failure_rate", 0.03)
	v.SetDefault("simulation.ai_unavailable_rate", 0.02)

	for name, a := range defaultAdapters {
		prefix := "adapters." + name + "."
		v.SetDefault(prefix+"enabled", a.Enabled)
		v.SetDefault(prefix+"timeout", a.Timeout)
		v.SetDefault(prefix+"max_retries", a.MaxRetries)
		v.SetDefault(prefix+"initial_delay", a.InitialDelay)
		v.SetDefault(prefix+"max_delay", a.MaxDelay)
		v.SetDefault(prefix+"backoff_multiplier", a.BackoffMultiplier)
		v.SetDefault(prefix+"retryable_errors", a.RetryableErrors)
	}

	v.SetDefault("console.suggestion_debounce", 300)
	v.SetDefault("console.submit_grace", 100)

	v.SetDefault("observability.service_name", "knowledge-search")
	v.SetDefault("observability.metrics_enabled", true)

	v.SetDefault("session.default_user_id", "user-001")
	v.SetDefault("session.default_customer_id", "cust-001")
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills adapter entries that a config file only partially specified.
func applyDefaults(cfg *Config) {
	if cfg.Adapters == nil {
		cfg.Adapters = map[string]AdapterConfig{}
	}
	for name, def := range defaultAdapters {
		a, ok := cfg.Adapters[name]
		if !ok {
			cfg.Adapters[name] = def
			continue
		}
		if a.Timeout == 0 {
			a.Timeout = def.Timeout
		}
		if a.BackoffMultiplier == 0 {
			a.BackoffMultiplier = def.BackoffMultiplier
		}
		if a.RetryableErrors == nil {
			a.RetryableErrors = def.RetryableErrors
		}
		cfg.Adapters[name] = a
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

var validate = validator.New()

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if cfg.History.Backend == "redis" && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when history.backend is redis")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetAdapterConfig returns the adapter policy, falling back to the built-in one.
func GetAdapterConfig(cfg *Config, name string) AdapterConfig {
	if a, ok := cfg.Adapters[name]; ok {
		return a
	}
	if a, ok := defaultAdapters[name]; ok {
		return a
	}
	return AdapterConfig{Enabled: true, Timeout: 30000}
}
