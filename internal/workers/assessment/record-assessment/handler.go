// internal/workers/assessment/record-assessment/handler.go
package recordassessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/eligibility"
	"fra-workers/internal/models"
	"fra-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "record-assessment"

	uniqueViolation = "23505"
)

const (
	insertAssessmentQuery = `
		INSERT INTO assessments (
			id, submission_id, community_name, district, block, village,
			overall_score, eligible, eligibility_status, criteria_scores,
			result, fingerprint, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	selectExistingQuery = `
		SELECT id, fingerprint, created_at FROM assessments WHERE submission_id = $1`

	insertAuditQuery = `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
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
	if err := input.Submission.Check(); err != nil {
		ve, _ := eligibility.AsValidationErrors(err)
		return nil, apperrors.NewAssessmentValidationFailedError(err.Error(), ve)
	}

	fingerprint := input.Fingerprint
	if fingerprint == "" {
		fingerprint = eligibility.Fingerprint(input.Submission)
	}

	assessmentID := uuid.New().String()
	recordedAt := time.Now().UTC()
	record := models.NewAssessmentRecord(assessmentID, input.SubmissionID, input.Submission, *input.Assessment, fingerprint, recordedAt)

	criteriaJSON, err := json.Marshal(record.CriteriaScores)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal criteria scores: %w", err))
	}
	resultJSON, err := json.Marshal(input.Assessment)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal assessment: %w", err))
	}

	_, err = h.db.ExecContext(ctx, insertAssessmentQuery,
		record.ID,
		record.SubmissionID,
		record.CommunityName,
		record.District,
		record.Block,
		record.Village,
		record.OverallScore,
		record.Eligible,
		string(record.EligibilityStatus),
		criteriaJSON,
		resultJSON,
		record.Fingerprint,
		record.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return h.existing(ctx, input.SubmissionID, fingerprint)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError("insert_assessment")
		}
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	h.audit(ctx, record)

	h.logger.Info("assessment recorded", map[string]interface{}{
		"assessmentId": record.ID,
		"submissionId": record.SubmissionID,
		"overallScore": record.OverallScore,
		"status":       record.EligibilityStatus,
	})

	return &Output{
		AssessmentID: record.ID,
		RecordedAt:   recordedAt.Format(time.RFC3339),
	}, nil
}

// existing resolves a unique violation on submission_id. A retried job for the
// same claim gets the stored row back; a different claim under a reused
// submission id is rejected.
func (h *Handler) existing(ctx context.Context, submissionID, fingerprint string) (*Output, error) {
	var (
		id          string
		storedPrint string
		createdAt   time.Time
	)
	err := h.db.QueryRowContext(ctx, selectExistingQuery, submissionID).Scan(&id, &storedPrint, &createdAt)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("select_assessment", err)
	}
	if storedPrint != fingerprint {
		return nil, apperrors.NewDuplicateAssessmentError(submissionID)
	}

	h.logger.Info("assessment already recorded", map[string]interface{}{
		"assessmentId": id,
		"submissionId": submissionID,
	})
	return &Output{
		AssessmentID:    id,
		RecordedAt:      createdAt.UTC().Format(time.RFC3339),
		AlreadyRecorded: true,
	}, nil
}

// audit writes the audit trail entry. Failures are logged, not returned.
func (h *Handler) audit(ctx context.Context, record models.AssessmentRecord) {
	details, err := json.Marshal(map[string]interface{}{
		"submissionId":      record.SubmissionID,
		"district":          record.District,
		"overallScore":      record.OverallScore,
		"eligibilityStatus": record.EligibilityStatus,
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, insertAuditQuery,
		models.AuditEventAssessmentRecorded,
		models.AuditResourceAssessment,
		record.ID,
		details,
		record.CreatedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"assessmentId": record.ID,
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
		"jobKey":       job.Key,
		"assessmentId": output.AssessmentID,
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
