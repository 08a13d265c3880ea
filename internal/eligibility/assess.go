// internal/eligibility/assess.go
package eligibility

import "fmt"

// Assessor runs the full assessment pipeline under one immutable policy.
// It holds no mutable state and is safe for concurrent use.
type Assessor struct {
	policy Policy
}

func NewAssessor(policy Policy) (*Assessor, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	return &Assessor{policy: clonePolicy(policy)}, nil
}

// Policy returns a copy of the policy the assessor scores with.
func (a *Assessor) Policy() Policy {
	return clonePolicy(a.policy)
}

// Assess validates a raw submission and, if it passes, scores it.
// A validation failure is returned as ValidationErrors.
func (a *Assessor) Assess(raw map[string]interface{}) (*Result, error) {
	sub, warnings, err := Validate(raw, a.policy)
	if err != nil {
		return nil, err
	}
	return a.assess(*sub, warnings)
}

// AssessSubmission scores an already validated submission.
func (a *Assessor) AssessSubmission(sub Submission) (*Result, error) {
	warnings := []Warning{}
	if sub.ForestAreaHectares > a.policy.ForestAreaWarning {
		warnings = append(warnings, Warning{
			Field:   FieldForestAreaHectares,
			Code:    CodeVerifyValue,
			Message: fmt.Sprintf("%s of %g exceeds %g; verify the claimed area", FieldForestAreaHectares, sub.ForestAreaHectares, a.policy.ForestAreaWarning),
		})
	}
	return a.assess(sub, warnings)
}

func (a *Assessor) assess(sub Submission, warnings []Warning) (*Result, error) {
	scores := ScoreCriteria(sub)

	overall, eligible, err := Aggregate(scores, a.policy)
	if err != nil {
		return nil, err
	}

	advice := Recommend(scores, eligible, sub.SupportingDocuments, warnings, a.policy)

	criteria := make(map[CriterionID]int, len(scores))
	for _, s := range scores {
		criteria[s.CriterionID] = s.Value
	}

	return &Result{
		Eligible:          eligible,
		OverallScore:      overall,
		EligibilityStatus: a.policy.Classify(overall),
		CriteriaScores:    criteria,
		Recommendations:   advice.Recommendations,
		RequiredDocuments: advice.RequiredDocuments,
		NextSteps:         advice.NextSteps,
		Warnings:          warnings,
	}, nil
}

func clonePolicy(p Policy) Policy {
	weights := make(map[CriterionID]float64, len(p.Weights))
	for k, v := range p.Weights {
		weights[k] = v
	}
	p.Weights = weights
	return p
}
