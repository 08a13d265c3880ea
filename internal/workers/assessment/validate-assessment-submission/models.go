// internal/workers/assessment/validate-assessment-submission/models.go
package validateassessmentsubmission

import "fra-workers/internal/eligibility"

type Input struct {
	SubmissionID string                 `json:"submissionId"`
	Submission   map[string]interface{} `json:"submission"`
}

type Output struct {
	Valid            bool                         `json:"valid"`
	Submission       *eligibility.Submission      `json:"submission,omitempty"`
	ValidationErrors eligibility.ValidationErrors `json:"validationErrors"`
	Warnings         []eligibility.Warning        `json:"warnings"`
}
