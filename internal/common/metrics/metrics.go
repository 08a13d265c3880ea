// internal/common/metrics/metrics.go
package metrics

import (
	"fra-workers/internal/eligibility"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_total",
			Help: "Completed eligibility assessments by tier",
		},
		[]string{"status"},
	)

	AssessmentOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_overall_score",
			Help:    "Distribution of overall eligibility scores",
			Buckets: []float64{20, 40, 60, 80, 100},
		},
	)

	AssessmentValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_validation_errors_total",
			Help: "Field errors found in rejected submissions",
		},
		[]string{"field", "code"},
	)

	AssessmentCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_cache_total",
			Help: "Assessment result cache lookups",
		},
		[]string{"result"},
	)
)

// ObserveAssessment records a completed assessment.
func ObserveAssessment(result *eligibility.Result) {
	AssessmentsTotal.WithLabelValues(string(result.EligibilityStatus)).Inc()
	AssessmentOverallScore.Observe(float64(result.OverallScore))
}

// ObserveValidationErrors records each field error of a rejected submission.
func ObserveValidationErrors(errs eligibility.ValidationErrors) {
	for _, fe := range errs {
		AssessmentValidationErrors.WithLabelValues(fe.Field, fe.Code).Inc()
	}
}

// ObserveCache records a cache lookup: "hit", "miss" or "error".
func ObserveCache(result string) {
	AssessmentCache.WithLabelValues(result).Inc()
}
