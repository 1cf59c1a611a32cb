// internal/adapters/knowledge/fetch-suggestions/config.go
package fetchsuggestions

import "time"

type Config struct {
	FailureRate    float64
	MinLatency     time.Duration
	MaxLatency     time.Duration
	MinQueryLength int
	MaxSuggestions int
}

func LoadConfig() *Config {
	return &Config{
		FailureRate:    0.02,
		MinLatency:     200 * time.Millisecond,
		MaxLatency:     350 * time.Millisecond,
		MinQueryLength: 2,
		MaxSuggestions: 3,
	}
}
