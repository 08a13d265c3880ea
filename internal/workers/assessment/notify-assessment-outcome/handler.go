// internal/workers/assessment/notify-assessment-outcome/handler.go
package notifyassessmentoutcome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/validation"
	"fra-workers/internal/models"
	"fra-workers/pkg/registry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-assessment-outcome"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    log,
		errors:    apperrors.NewErrorHandler(log),
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

	output := &Output{
		NotificationID: uuid.New().String(),
		Channels:       []models.ChannelResult{},
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && input.ContactEmail != "" && h.sesClient != nil {
		output.Channels = append(output.Channels, h.sendEmail(ctx, input))
	}
	if h.config.SMSEnabled && input.ContactPhone != "" && h.snsClient != nil {
		output.Channels = append(output.Channels, h.sendSMS(ctx, input))
	}

	failed := 0
	var lastErr string
	for _, c := range output.Channels {
		if c.Error != "" {
			failed++
			lastErr = c.Error
		}
	}

	switch {
	case len(output.Channels) == 0:
		output.Status = models.NotificationStatusDisabled
		h.logger.Info("no notification channel available", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
		return output, nil
	case failed == len(output.Channels):
		return nil, apperrors.NewNotificationSendFailedError(output.Channels[0].Channel, fmt.Errorf("%s", lastErr))
	case failed > 0:
		output.Status = models.NotificationStatusPartial
	default:
		output.Status = models.NotificationStatusSent
	}

	h.logger.Info("assessment outcome sent", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) models.ChannelResult {
	result := models.ChannelResult{Channel: models.ChannelEmail}

	body, err := composeEmail(input)
	if err != nil {
		result.Error = fmt.Sprintf("render email: %v", err)
		return result
	}

	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{input.ContactEmail}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(composeSubject(input)), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		h.logger.Warn("email send failed", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"error":        err.Error(),
		})
		result.Error = err.Error()
		return result
	}
	result.MessageID = aws.ToString(out.MessageId)
	return result
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) models.ChannelResult {
	result := models.ChannelResult{Channel: models.ChannelSMS}

	params := &sns.PublishInput{
		PhoneNumber: aws.String(input.ContactPhone),
		Message:     aws.String(composeSMS(input)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	}
	if h.config.SenderID != "" {
		params.MessageAttributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(h.config.SenderID),
		}
	}

	out, err := h.snsClient.Publish(ctx, params)
	if err != nil {
		h.logger.Warn("sms send failed", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"error":        err.Error(),
		})
		result.Error = err.Error()
		return result
	}
	result.MessageID = aws.ToString(out.MessageId)
	return result
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
		"status": output.Status,
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
