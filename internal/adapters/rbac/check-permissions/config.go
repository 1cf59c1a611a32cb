// internal/adapters/rbac/check-permissions/config.go
package checkpermissions

import "time"

type Config struct {
	Latency time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Latency: 50 * time.Millisecond,
	}
}
