// internal/common/config/config.go
package config

import (
	"fmt"

	"fra-workers/internal/eligibility"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	HTTP          HTTPConfig              `mapstructure:"http"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Assessment    AssessmentConfig        `mapstructure:"assessment"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// HTTPConfig holds settings for the eligibility API and health endpoints.
type HTTPConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int `mapstructure:"write_timeout"` // milliseconds
	MaxBatchSize int `mapstructure:"max_batch_size"`
}

// NotificationConfig holds settings for the notify-assessment-outcome worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// AssessmentConfig holds the scoring policy and the storage settings of assessments.
type AssessmentConfig struct {
	Weights              map[string]float64 `mapstructure:"weights"`
	EligibilityThreshold int                `mapstructure:"eligibility_threshold"`
	HighlyEligibleScore  int                `mapstructure:"highly_eligible_score"`
	ConditionalScore     int                `mapstructure:"conditional_score"`
	LowScoreThreshold    int                `mapstructure:"low_score_threshold"`
	ForestAreaWarning    float64            `mapstructure:"forest_area_warning_hectares"`
	CacheTTL             int                `mapstructure:"cache_ttl"` // milliseconds
	IndexName            string             `mapstructure:"index_name"`
	BatchConcurrency     int                `mapstructure:"batch_concurrency"`
}

// Policy converts the configured values into a scoring policy. Unset values
// fall back to the defaults.
func (a AssessmentConfig) Policy() eligibility.Policy {
	p := eligibility.DefaultPolicy()
	if len(a.Weights) > 0 {
		p.Weights = make(map[eligibility.CriterionID]float64, len(a.Weights))
		for k, v := range a.Weights {
			p.Weights[eligibility.CriterionID(k)] = v
		}
	}
	if a.EligibilityThreshold > 0 {
		p.EligibilityThreshold = a.EligibilityThreshold
	}
	if a.HighlyEligibleScore > 0 {
		p.HighlyEligibleScore = a.HighlyEligibleScore
	}
	if a.ConditionalScore > 0 {
		p.ConditionalScore = a.ConditionalScore
	}
	if a.LowScoreThreshold > 0 {
		p.LowScoreThreshold = a.LowScoreThreshold
	}
	if a.ForestAreaWarning > 0 {
		p.ForestAreaWarning = a.ForestAreaWarning
	}
	return p
}

type ObservabilityConfig struct {
	ServiceName      string  `mapstructure:"service_name"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio"`
}
