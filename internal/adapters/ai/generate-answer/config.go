// internal/adapters/ai/generate-answer/config.go
package generateanswer

import "time"

type Config struct {
	NetworkFailureRate float64
	UnavailableRate    float64
	MinLatency         time.Duration
	MaxLatency         time.Duration
	MaxCitations       int
	SnippetLength      int
	// BaseConfidence and ConfidenceSpread bound unscripted confidence to
	// [BaseConfidence, BaseConfidence+ConfidenceSpread).
	BaseConfidence   int
	ConfidenceSpread int
	RedactedFields   []string
}

func LoadConfig() *Config {
	return &Config{
		NetworkFailureRate: 0.03,
		UnavailableRate:    0.02,
		MinLatency:         300 * time.Millisecond,
		MaxLatency:         800 * time.Millisecond,
		MaxCitations:       3,
		SnippetLength:      150,
		BaseConfidence:     85,
		ConfidenceSpread:   10,
		RedactedFields:     []string{"ssn", "creditCard"},
	}
}
