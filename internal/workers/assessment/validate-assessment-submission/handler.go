// internal/workers/assessment/validate-assessment-submission/handler.go
package validateassessmentsubmission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/eligibility"
	"fra-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-assessment-submission"
)

// Handler checks a submission without scoring it. A rejected submission
// completes the job with valid=false so the process can route it back to
// the claimant; only malformed job variables raise a BPMN error.
type Handler struct {
	config *Config
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

	sub, warnings, err := eligibility.Validate(input.Submission, h.config.Policy)
	if err != nil {
		ve, ok := eligibility.AsValidationErrors(err)
		if !ok {
			return nil, apperrors.NewInternalError(err)
		}
		metrics.ObserveValidationErrors(ve)
		h.logger.Info("submission rejected", map[string]interface{}{
			"submissionId": input.SubmissionID,
			"fields":       ve.Fields(),
		})
		return &Output{
			Valid:            false,
			ValidationErrors: ve,
			Warnings:         []eligibility.Warning{},
		}, nil
	}

	h.logger.Info("submission valid", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"warnings":     len(warnings),
	})

	return &Output{
		Valid:            true,
		Submission:       sub,
		ValidationErrors: eligibility.ValidationErrors{},
		Warnings:         warnings,
	}, nil
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
		"valid":  output.Valid,
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
