// internal/eligibility/types.go
package eligibility

// CriterionID names one axis of eligibility evaluation.
type CriterionID string

const (
	CriterionForestDependence      CriterionID = "forest_dependence"
	CriterionOccupationDuration    CriterionID = "occupation_duration"
	CriterionDemographicIndicators CriterionID = "demographic_indicators"
	CriterionDocumentaryEvidence   CriterionID = "documentary_evidence"
)

// Criteria is the closed criterion set in evaluation order.
var Criteria = []CriterionID{
	CriterionForestDependence,
	CriterionOccupationDuration,
	CriterionDemographicIndicators,
	CriterionDocumentaryEvidence,
}

// Status is the eligibility tier derived from the overall score.
type Status string

const (
	StatusHighlyEligible        Status = "highly_eligible"
	StatusEligible              Status = "eligible"
	StatusConditionallyEligible Status = "conditionally_eligible"
	StatusNotEligible           Status = "not_eligible"
)

// DocumentRef is an opaque handle issued by the document storage service.
// Only the declared type is inspected; the referenced bytes are never read.
type DocumentRef struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

// Submission is a validated assessment submission.
type Submission struct {
	CommunityName         string        `json:"community_name"`
	District              string        `json:"district"`
	Block                 string        `json:"block"`
	Village               string        `json:"village"`
	ForestAreaHectares    float64       `json:"forest_area_hectares"`
	Households            int           `json:"households"`
	Population            int           `json:"population"`
	TribalPopulation      int           `json:"tribal_population"`
	ForestDependence      string        `json:"forest_dependence"`
	TraditionalOccupation string        `json:"traditional_occupation"`
	SupportingDocuments   []DocumentRef `json:"supporting_documents"`
}

type CriterionScore struct {
	CriterionID CriterionID `json:"criterion_id"`
	Value       int         `json:"value"`
}

// Warning flags a value for review without rejecting the submission.
type Warning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of one assessment. It is never mutated after Assess returns.
type Result struct {
	Eligible          bool                `json:"eligible"`
	OverallScore      int                 `json:"overall_score"`
	EligibilityStatus Status              `json:"eligibility_status"`
	CriteriaScores    map[CriterionID]int `json:"criteria_scores"`
	Recommendations   []string            `json:"recommendations"`
	RequiredDocuments []string            `json:"required_documents"`
	NextSteps         []string            `json:"next_steps"`
	Warnings          []Warning           `json:"warnings"`
}

// Score returns the value recorded for a criterion.
func (r *Result) Score(id CriterionID) int {
	return r.CriteriaScores[id]
}
