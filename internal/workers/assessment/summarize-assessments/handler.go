// internal/workers/assessment/summarize-assessments/handler.go
package summarizeassessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/eligibility"
	"fra-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "summarize-assessments"

	cacheKeyPrefix = "assessment-summary:"
	allDistricts   = "all"
)

const (
	selectAllResultsQuery = `
		SELECT result FROM assessments ORDER BY created_at DESC LIMIT $1`

	selectDistrictResultsQuery = `
		SELECT result FROM assessments WHERE lower(district) = lower($1) ORDER BY created_at DESC LIMIT $2`
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

// NewHandler wires the worker. redisClient may be nil to disable caching.
func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
		redis:  redisClient,
		logger: log,
		errors: apperrors.NewErrorHandler(log),
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
	if err := validation.ValidateInput(registry.InputSchema(TaskType), input); err != nil {
		return nil, err
	}

	district := strings.TrimSpace(input.District)
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if h.config.MaxLimit > 0 && limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	key := cacheKey(district, limit)
	if summary, ok := h.lookup(ctx, key); ok {
		return &Output{Summary: *summary, District: district, Cached: true}, nil
	}

	results, err := h.loadResults(ctx, district, limit)
	if err != nil {
		return nil, err
	}

	summary := eligibility.Summarize(results)
	h.store(ctx, key, &summary)

	h.logger.Info("assessments summarized", map[string]interface{}{
		"district": district,
		"total":    summary.TotalAssessments,
		"eligible": summary.EligibleCount,
	})

	return &Output{Summary: summary, District: district}, nil
}

func (h *Handler) loadResults(ctx context.Context, district string, limit int) ([]eligibility.Result, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if district == "" {
		rows, err = h.db.QueryContext(ctx, selectAllResultsQuery, limit)
	} else {
		rows, err = h.db.QueryContext(ctx, selectDistrictResultsQuery, district, limit)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("select_assessments")
		}
		return nil, apperrors.NewQueryExecutionFailedError("select_assessments", err)
	}
	defer rows.Close()

	results := make([]eligibility.Result, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("select_assessments", err)
		}
		var r eligibility.Result
		if err := json.Unmarshal(raw, &r); err != nil {
			h.logger.Warn("skipping unreadable assessment row", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("select_assessments", err)
	}
	return results, nil
}

// cacheKey folds case the same way selectDistrictResultsQuery does.
func cacheKey(district string, limit int) string {
	if district == "" {
		district = allDistricts
	}
	return fmt.Sprintf("%s%s:%d", cacheKeyPrefix, strings.ToLower(district), limit)
}

func (h *Handler) lookup(ctx context.Context, key string) (*eligibility.Summary, bool) {
	if h.redis == nil {
		return nil, false
	}

	data, err := h.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveCache("miss")
		return nil, false
	}
	if err != nil {
		metrics.ObserveCache("error")
		h.logger.Warn("summary cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}

	var summary eligibility.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		metrics.ObserveCache("error")
		return nil, false
	}
	metrics.ObserveCache("hit")
	return &summary, true
}

func (h *Handler) store(ctx context.Context, key string, summary *eligibility.Summary) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("summary cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
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

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
		"cached": output.Cached,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
