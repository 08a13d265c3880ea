// internal/eligibility/policy.go
package eligibility

import (
	"fmt"
	"math"
)

const (
	DefaultEligibilityThreshold = 60
	DefaultHighlyEligibleScore  = 80
	DefaultConditionalScore     = 40
	DefaultLowScoreThreshold    = 50
	DefaultForestAreaWarning    = 1000.0

	weightScale = 10000
)

// Policy is the scoring configuration: criterion weights and the score cut-offs.
// The defaults are placeholders until the governing policy document supplies real values.
type Policy struct {
	Weights              map[CriterionID]float64
	EligibilityThreshold int
	HighlyEligibleScore  int
	ConditionalScore     int
	LowScoreThreshold    int
	ForestAreaWarning    float64
}

func DefaultPolicy() Policy {
	return Policy{
		Weights: map[CriterionID]float64{
			CriterionForestDependence:      0.35,
			CriterionOccupationDuration:    0.25,
			CriterionDemographicIndicators: 0.20,
			CriterionDocumentaryEvidence:   0.20,
		},
		EligibilityThreshold: DefaultEligibilityThreshold,
		HighlyEligibleScore:  DefaultHighlyEligibleScore,
		ConditionalScore:     DefaultConditionalScore,
		LowScoreThreshold:    DefaultLowScoreThreshold,
		ForestAreaWarning:    DefaultForestAreaWarning,
	}
}

// Validate checks that every criterion has a non-negative weight, the weights sum
// to 1.0, and the tier cut-offs are ordered within [0,100].
func (p Policy) Validate() error {
	if len(p.Weights) != len(Criteria) {
		return fmt.Errorf("weight table has %d entries, want %d", len(p.Weights), len(Criteria))
	}
	total := 0
	for _, id := range Criteria {
		w, ok := p.Weights[id]
		if !ok {
			return fmt.Errorf("no weight for criterion %q", id)
		}
		if w < 0 {
			return fmt.Errorf("negative weight %f for criterion %q", w, id)
		}
		total += basisPoints(w)
	}
	if total != weightScale {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", float64(total)/weightScale)
	}
	if p.ConditionalScore < 0 || p.ConditionalScore > p.EligibilityThreshold ||
		p.EligibilityThreshold > p.HighlyEligibleScore || p.HighlyEligibleScore > 100 {
		return fmt.Errorf("score cut-offs must satisfy 0 <= conditional (%d) <= eligible (%d) <= highly eligible (%d) <= 100",
			p.ConditionalScore, p.EligibilityThreshold, p.HighlyEligibleScore)
	}
	if p.LowScoreThreshold < 0 || p.LowScoreThreshold > 100 {
		return fmt.Errorf("low score threshold %d out of range", p.LowScoreThreshold)
	}
	if p.ForestAreaWarning <= 0 {
		return fmt.Errorf("forest area warning bound must be positive")
	}
	return nil
}

// Classify maps an overall score to its tier.
func (p Policy) Classify(score int) Status {
	switch {
	case score >= p.HighlyEligibleScore:
		return StatusHighlyEligible
	case score >= p.EligibilityThreshold:
		return StatusEligible
	case score >= p.ConditionalScore:
		return StatusConditionallyEligible
	default:
		return StatusNotEligible
	}
}

func basisPoints(w float64) int {
	return int(math.Round(w * weightScale))
}
