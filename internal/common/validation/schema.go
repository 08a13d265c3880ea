// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "fra-workers/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateDocument checks doc against a JSON Schema given as a Go value.
// Errors are sorted by field so results are stable.
func ValidateDocument(schema map[string]interface{}, doc interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		path := re.Context().String()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				path = path + "." + p
			}
		}
		field := strings.TrimPrefix(path, "(root).")
		errs = append(errs, ValidationError{
			Field:   field,
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: result.Valid(), Errors: errs}, nil
}

// FormatValidationErrors formats validation errors into a readable string
func FormatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	messages := make([]string, len(errors))
	for i, err := range errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return strings.Join(messages, "; ")
}

// GetErrorCodes extracts all error codes from validation result
func (vr *ValidationResult) GetErrorCodes() []string {
	codes := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		if err.Code != "" {
			codes = append(codes, err.Code)
		}
	}
	return codes
}

// HasErrorCode checks if validation result contains specific error code
func (vr *ValidationResult) HasErrorCode(code string) bool {
	for _, err := range vr.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}

// ValidateInput checks a job input against its activity schema. Any violation
// is returned as an INVALID_INPUT error naming every offending field.
func ValidateInput(schema map[string]interface{}, input interface{}) error {
	if schema == nil {
		return nil
	}
	result, err := ValidateDocument(schema, input)
	if err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewInvalidInputError(FormatValidationErrors(result.Errors)).
			WithMetadata("validationErrors", result.Errors)
	}
	return nil
}
