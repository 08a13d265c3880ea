// internal/workers/assessment/summarize-assessments/config.go
package summarizeassessments

import "time"

type Config struct {
	Timeout      time.Duration
	CacheTTL     time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		CacheTTL:     5 * time.Minute,
		DefaultLimit: 1000,
		MaxLimit:     10000,
	}
}
