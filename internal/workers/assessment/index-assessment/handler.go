// internal/workers/assessment/index-assessment/handler.go
package indexassessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/models"
	"fra-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-assessment"
)

type Handler struct {
	config *Config
	es     *elasticsearch.Client
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, es *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		es:     es,
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

	body, err := json.Marshal(buildDocument(input))
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal document: %w", err))
	}

	req := esapi.IndexRequest{
		Index:      h.config.IndexName,
		DocumentID: input.AssessmentID,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, h.es)
	if err != nil {
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, apperrors.NewIndexingFailedError(h.config.IndexName,
			fmt.Errorf("status %d: %s", res.StatusCode, bytes.TrimSpace(msg)))
	}

	var parsed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		h.logger.Warn("could not decode index response", map[string]interface{}{
			"error": err.Error(),
		})
	}

	h.logger.Info("assessment indexed", map[string]interface{}{
		"assessmentId": input.AssessmentID,
		"index":        h.config.IndexName,
		"result":       parsed.Result,
	})

	return &Output{
		Indexed:   true,
		IndexName: h.config.IndexName,
		Result:    parsed.Result,
		Version:   parsed.Version,
	}, nil
}

func buildDocument(input *Input) models.AssessmentDocument {
	assessedAt := input.RecordedAt
	if assessedAt == "" {
		assessedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return models.AssessmentDocument{
		AssessmentID:       input.AssessmentID,
		SubmissionID:       input.SubmissionID,
		CommunityName:      input.Submission.CommunityName,
		District:           input.Submission.District,
		Block:              input.Submission.Block,
		Village:            input.Submission.Village,
		OverallScore:       input.Assessment.OverallScore,
		Eligible:           input.Assessment.Eligible,
		EligibilityStatus:  input.Assessment.EligibilityStatus,
		CriteriaScores:     input.Assessment.CriteriaScores,
		ForestAreaHectares: input.Submission.ForestAreaHectares,
		AssessedAt:         assessedAt,
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
