// internal/models/assessment.go
package models

import (
	"time"

	"fra-workers/internal/eligibility"
)

// AssessmentRecord is one row of the assessments table.
type AssessmentRecord struct {
	ID                string                          `json:"assessmentId"`
	SubmissionID      string                          `json:"submissionId"`
	CommunityName     string                          `json:"communityName"`
	District          string                          `json:"district"`
	Block             string                          `json:"block"`
	Village           string                          `json:"village"`
	OverallScore      int                             `json:"overallScore"`
	Eligible          bool                            `json:"eligible"`
	EligibilityStatus eligibility.Status              `json:"eligibilityStatus"`
	CriteriaScores    map[eligibility.CriterionID]int `json:"criteriaScores"`
	Fingerprint       string                          `json:"fingerprint"`
	CreatedAt         time.Time                       `json:"createdAt"`
}

// NewAssessmentRecord flattens a submission and its result into a row.
func NewAssessmentRecord(id, submissionID string, sub eligibility.Submission, res eligibility.Result, fingerprint string, at time.Time) AssessmentRecord {
	return AssessmentRecord{
		ID:                id,
		SubmissionID:      submissionID,
		CommunityName:     sub.CommunityName,
		District:          sub.District,
		Block:             sub.Block,
		Village:           sub.Village,
		OverallScore:      res.OverallScore,
		Eligible:          res.Eligible,
		EligibilityStatus: res.EligibilityStatus,
		CriteriaScores:    res.CriteriaScores,
		Fingerprint:       fingerprint,
		CreatedAt:         at,
	}
}

// AssessmentDocument is the Elasticsearch representation of an assessment.
type AssessmentDocument struct {
	AssessmentID       string                          `json:"assessment_id"`
	SubmissionID       string                          `json:"submission_id"`
	CommunityName      string                          `json:"community_name"`
	District           string                          `json:"district"`
	Block              string                          `json:"block"`
	Village            string                          `json:"village"`
	OverallScore       int                             `json:"overall_score"`
	Eligible           bool                            `json:"eligible"`
	EligibilityStatus  eligibility.Status              `json:"eligibility_status"`
	CriteriaScores     map[eligibility.CriterionID]int `json:"criteria_scores"`
	ForestAreaHectares float64                         `json:"forest_area_hectares"`
	AssessedAt         string                          `json:"assessed_at"`
}

// Audit event types written to audit_log.
const (
	AuditEventAssessmentRecorded = "assessment_recorded"
	AuditResourceAssessment      = "assessment"
)
