// internal/adapters/ai/submit-feedback/config.go
package submitfeedback

import "time"

type Config struct {
	Latency time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Latency: 100 * time.Millisecond,
	}
}
