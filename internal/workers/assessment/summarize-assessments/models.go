// internal/workers/assessment/summarize-assessments/models.go
package summarizeassessments

import "fra-workers/internal/eligibility"

type Input struct {
	District string `json:"district,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Summary  eligibility.Summary `json:"summary"`
	District string              `json:"district,omitempty"`
	Cached   bool                `json:"cached"`
}
