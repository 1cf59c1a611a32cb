// internal/adapters/knowledge/search-knowledge/config.go
package searchknowledge

import "time"

type Config struct {
	FailureRate float64
	MinLatency  time.Duration
	MaxLatency  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FailureRate: 0.02,
		MinLatency:  500 * time.Millisecond,
		MaxLatency:  900 * time.Millisecond,
	}
}
