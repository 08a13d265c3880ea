// internal/workers/assessment/notify-assessment-outcome/config.go
package notifyassessmentoutcome

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   false,
		FromEmail:    "noreply@fra-assessment.example.org",
		SenderID:     "FRACLM",
	}
}
