// internal/workers/assessment/record-assessment/models.go
package recordassessment

import "fra-workers/internal/eligibility"

type Input struct {
	SubmissionID string                 `json:"submissionId"`
	Submission   eligibility.Submission `json:"submission"`
	Assessment   *eligibility.Result    `json:"assessment"`
	Fingerprint  string                 `json:"fingerprint"`
}

type Output struct {
	AssessmentID    string `json:"assessmentId"`
	RecordedAt      string `json:"recordedAt"` // ISO 8601
	AlreadyRecorded bool   `json:"alreadyRecorded"`
}
