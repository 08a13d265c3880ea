// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	apperrors "fra-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"submissionId", "submission"},
		"properties": map[string]interface{}{
			"submissionId": map[string]interface{}{"type": "string", "minLength": 1},
			"submission":   map[string]interface{}{"type": "object"},
			"channel": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"email", "sms"},
			},
		},
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name          string
		doc           map[string]interface{}
		expectedValid bool
		expectedField string
		expectedCode  string
	}{
		{
			name:          "valid document",
			doc:           map[string]interface{}{"submissionId": "s-1", "submission": map[string]interface{}{}},
			expectedValid: true,
		},
		{
			name:          "missing required property",
			doc:           map[string]interface{}{"submissionId": "s-1"},
			expectedField: "submission",
			expectedCode:  "REQUIRED",
		},
		{
			name:          "wrong type",
			doc:           map[string]interface{}{"submissionId": 12, "submission": map[string]interface{}{}},
			expectedField: "submissionId",
			expectedCode:  "INVALID_TYPE",
		},
		{
			name:          "enum violation",
			doc:           map[string]interface{}{"submissionId": "s-1", "submission": map[string]interface{}{}, "channel": "fax"},
			expectedField: "channel",
			expectedCode:  "ENUM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateDocument(createTestSchema(), tt.doc)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedValid, result.Valid)
			if tt.expectedValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.expectedField, result.Errors[0].Field)
			assert.True(t, result.HasErrorCode(tt.expectedCode), "codes: %v", result.GetErrorCodes())
			assert.Contains(t, FormatValidationErrors(result.Errors), tt.expectedField)
		})
	}
}

func TestValidateDocument_InvalidSchema(t *testing.T) {
	_, err := ValidateDocument(map[string]interface{}{"type": 42}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestFormatValidationErrors_Empty(t *testing.T) {
	assert.Equal(t, "", FormatValidationErrors(nil))
}

func TestValidateInput(t *testing.T) {
	type input struct {
		SubmissionID string                 `json:"submissionId"`
		Submission   map[string]interface{} `json:"submission"`
	}

	err := ValidateInput(createTestSchema(), input{SubmissionID: "sub-1", Submission: map[string]interface{}{}})
	assert.NoError(t, err)

	err = ValidateInput(createTestSchema(), input{SubmissionID: ""})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
	assert.Contains(t, stdErr.Details, "submission")
	assert.Contains(t, stdErr.Details, "submissionId")

	assert.NoError(t, ValidateInput(nil, input{}))
}
