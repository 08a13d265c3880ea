// internal/workers/assessment/validate-assessment-submission/config.go
package validateassessmentsubmission

import (
	"time"

	"fra-workers/internal/eligibility"
)

type Config struct {
	Timeout time.Duration
	Policy  eligibility.Policy
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Policy:  eligibility.DefaultPolicy(),
	}
}
