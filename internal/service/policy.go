package service

import (
	"time"

	"knowledge-search/internal/common/config"
	"knowledge-search/internal/common/resilience"
)

// Policy is the timeout budget and retry policy of one call site.
type Policy struct {
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

var operations = []string{
	config.AdapterSearch,
	config.AdapterSuggestions,
	config.AdapterAnswer,
	config.AdapterPermissions,
	config.AdapterFeedback,
}

// PoliciesFromConfig reads every adapter policy from cfg.
func PoliciesFromConfig(cfg *config.Config) (map[string]Policy, error) {
	out := make(map[string]Policy, len(operations))
	for _, op := range operations {
		ac := config.GetAdapterConfig(cfg, op)
		retry, err := ac.RetryConfig(op)
		if err != nil {
			return nil, err
		}
		out[op] = Policy{Timeout: config.GetDuration(ac.Timeout), Retry: retry}
	}
	return out, nil
}

// DefaultPolicies returns the built-in policies.
func DefaultPolicies() map[string]Policy {
	p, err := PoliciesFromConfig(config.Default())
	if err != nil {
		panic(err)
	}
	return p
}
