// internal/workers/assessment/index-assessment/models.go
package indexassessment

import "fra-workers/internal/eligibility"

type Input struct {
	AssessmentID string                 `json:"assessmentId"`
	SubmissionID string                 `json:"submissionId"`
	Submission   eligibility.Submission `json:"submission"`
	Assessment   *eligibility.Result    `json:"assessment"`
	RecordedAt   string                 `json:"recordedAt,omitempty"`
}

type Output struct {
	Indexed   bool   `json:"indexed"`
	IndexName string `json:"indexName"`
	Result    string `json:"indexResult"` // "created" or "updated"
	Version   int64  `json:"indexVersion"`
}

type indexResponse struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
}
