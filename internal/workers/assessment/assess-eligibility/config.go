// internal/workers/assessment/assess-eligibility/config.go
package assesseligibility

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
}
