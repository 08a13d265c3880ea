// internal/workers/assessment/index-assessment/config.go
package indexassessment

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "fra-assessments",
	}
}
