// internal/eligibility/errors.go
package eligibility

import (
	"errors"
	"fmt"
	"strings"
)

// Field-level error codes.
const (
	CodeMissingField      = "MISSING_FIELD"
	CodeTooShort          = "TOO_SHORT"
	CodeBelowMinimum      = "BELOW_MINIMUM"
	CodeNotInteger        = "NOT_INTEGER"
	CodeAboveMaximum      = "ABOVE_MAXIMUM"
	CodeExceedsPopulation = "EXCEEDS_POPULATION"
	CodeInvalidType       = "INVALID_TYPE"

	CodeVerifyValue = "VERIFY_VALUE"
)

// ErrMissingCriterion reports a criterion set that does not match the closed set.
// It indicates a programming error rather than bad input.
var ErrMissingCriterion = errors.New("MISSING_CRITERION")

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors is the complete list of field errors found in one submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Code)
	}
	return fmt.Sprintf("%d validation errors: %s", len(v), strings.Join(parts, ", "))
}

// Fields returns the offending field names in report order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Field
	}
	return out
}

// ForField returns the error recorded for field, if any.
func (v ValidationErrors) ForField(field string) (FieldError, bool) {
	for _, e := range v {
		if e.Field == field {
			return e, true
		}
	}
	return FieldError{}, false
}

// AsValidationErrors unwraps err into ValidationErrors.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
