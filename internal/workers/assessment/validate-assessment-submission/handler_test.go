// internal/workers/assessment/validate-assessment-submission/handler_test.go
package validateassessmentsubmission

import (
	"context"
	"testing"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/eligibility"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestSubmission() map[string]interface{} {
	return map[string]interface{}{
		"community_name":         "Korba Van Samiti",
		"district":               "Korba",
		"block":                  "Pali",
		"village":                "Lafa",
		"forest_area_hectares":   5.0,
		"households":             20.0,
		"population":             100.0,
		"tribal_population":      80.0,
		"forest_dependence":      "primary",
		"traditional_occupation": "NTFP collection",
		"supporting_documents": []interface{}{
			map[string]interface{}{"id": "doc-1", "type": "ration_card"},
		},
	}
}

func createTestInput() *Input {
	return &Input{
		SubmissionID: "sub-001",
		Submission:   createTestSubmission(),
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Valid(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, output.Valid)
	require.NotNil(t, output.Submission)
	assert.Equal(t, "Korba Van Samiti", output.Submission.CommunityName)
	assert.Equal(t, 20, output.Submission.Households)
	assert.Empty(t, output.ValidationErrors)
	assert.Empty(t, output.Warnings)
}

func TestHandler_Execute_Rejected(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	delete(input.Submission, "village")
	input.Submission["tribal_population"] = 150.0

	missingBefore := testutil.ToFloat64(metrics.AssessmentValidationErrors.WithLabelValues(eligibility.FieldVillage, eligibility.CodeMissingField))

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, output.Valid)
	assert.Nil(t, output.Submission)
	assert.ElementsMatch(t, []string{eligibility.FieldVillage, eligibility.FieldTribalPopulation}, output.ValidationErrors.Fields())

	fe, ok := output.ValidationErrors.ForField(eligibility.FieldTribalPopulation)
	require.True(t, ok)
	assert.Equal(t, eligibility.CodeExceedsPopulation, fe.Code)

	missingAfter := testutil.ToFloat64(metrics.AssessmentValidationErrors.WithLabelValues(eligibility.FieldVillage, eligibility.CodeMissingField))
	assert.Equal(t, missingBefore+1, missingAfter)
}

func TestHandler_Execute_AreaWarning(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := createTestInput()
	input.Submission["forest_area_hectares"] = 1500.0

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, output.Valid)
	require.Len(t, output.Warnings, 1)
	assert.Equal(t, eligibility.FieldForestAreaHectares, output.Warnings[0].Field)
	assert.Equal(t, eligibility.CodeVerifyValue, output.Warnings[0].Code)
}

func TestHandler_Execute_MissingSubmission(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{SubmissionID: "sub-002"})
	require.Error(t, err)
	assert.Nil(t, output)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
	assert.Contains(t, stdErr.Details, "submission")
}
