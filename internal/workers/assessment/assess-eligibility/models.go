// internal/workers/assessment/assess-eligibility/models.go
package assesseligibility

import "fra-workers/internal/eligibility"

type Input struct {
	SubmissionID string                 `json:"submissionId"`
	Submission   map[string]interface{} `json:"submission"`
}

type Output struct {
	Assessment  *eligibility.Result `json:"assessment"`
	Fingerprint string              `json:"fingerprint"`
	Cached      bool                `json:"cached"`
}
