// internal/workers/assessment/assess-eligibility/handler.go
package assesseligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/observability"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/eligibility"
	"fra-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	TaskType = "assess-eligibility"

	cacheKeyPrefix = "assessment:"
)

type Handler struct {
	config   *Config
	assessor *eligibility.Assessor
	redis    *redis.Client
	obs      *observability.Observability
	policyID string
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
}

// NewHandler builds the handler. redisClient and obs may be nil, which
// disables caching and tracing respectively.
func NewHandler(config *Config, assessor *eligibility.Assessor, redisClient *redis.Client, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		assessor: assessor,
		redis:    redisClient,
		obs:      obs,
		policyID: assessor.Policy().Fingerprint(),
		logger:   log,
		errors:   apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("submission.id", input.SubmissionID))
	defer span.End()

	if err := validation.ValidateInput(registry.InputSchema(TaskType), input); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	sub, _, err := eligibility.Validate(input.Submission, h.assessor.Policy())
	if err != nil {
		ve, ok := eligibility.AsValidationErrors(err)
		if !ok {
			return nil, apperrors.NewInternalError(err)
		}
		metrics.ObserveValidationErrors(ve)
		span.SetStatus(codes.Error, "submission rejected")
		return nil, apperrors.NewAssessmentValidationFailedError(ve.Error(), ve)
	}

	fingerprint := eligibility.Fingerprint(*sub)
	span.SetAttributes(attribute.String("submission.fingerprint", fingerprint))

	if cached, ok := h.lookup(ctx, fingerprint); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &Output{Assessment: cached, Fingerprint: fingerprint, Cached: true}, nil
	}

	result, err := h.assessor.AssessSubmission(*sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, eligibility.ErrMissingCriterion) {
			return nil, apperrors.NewCriterionSetMismatchError(err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	metrics.ObserveAssessment(result)
	h.obs.RecordAssessmentScore(ctx, result.OverallScore, string(result.EligibilityStatus))
	span.SetAttributes(
		attribute.Int("assessment.overall_score", result.OverallScore),
		attribute.String("assessment.status", string(result.EligibilityStatus)),
	)

	h.store(ctx, fingerprint, result)

	h.logger.Info("assessment completed", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"overallScore": result.OverallScore,
		"status":       result.EligibilityStatus,
		"eligible":     result.Eligible,
	})

	return &Output{Assessment: result, Fingerprint: fingerprint}, nil
}

// lookup returns a cached result. Cache failures are logged and treated as a miss.
func (h *Handler) lookup(ctx context.Context, fingerprint string) (*eligibility.Result, bool) {
	if h.redis == nil {
		return nil, false
	}

	data, err := h.redis.Get(ctx, h.cacheKey(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveCache("miss")
		return nil, false
	}
	if err != nil {
		metrics.ObserveCache("error")
		h.logger.Warn("assessment cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	var result eligibility.Result
	if err := json.Unmarshal(data, &result); err != nil {
		metrics.ObserveCache("error")
		h.logger.Warn("discarding unreadable cache entry", map[string]interface{}{
			"fingerprint": fingerprint,
			"error":       err.Error(),
		})
		return nil, false
	}

	metrics.ObserveCache("hit")
	return &result, true
}

func (h *Handler) store(ctx context.Context, fingerprint string, result *eligibility.Result) {
	if h.redis == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, h.cacheKey(fingerprint), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("assessment cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// cacheKey scopes a submission fingerprint to the scoring policy in force.
func (h *Handler) cacheKey(fingerprint string) string {
	return cacheKeyPrefix + h.policyID + ":" + fingerprint
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	elapsed := time.Since(start)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(context.Background(), TaskType, "completed")
	h.obs.RecordJobDuration(context.Background(), TaskType, elapsed, "completed")

	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
		"cached": output.Cached,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	elapsed := time.Since(start)
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(context.Background(), TaskType, "failed")
	h.obs.RecordJobDuration(context.Background(), TaskType, elapsed, "failed")
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
