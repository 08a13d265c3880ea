// internal/eligibility/aggregator.go
package eligibility

import "fmt"

// Aggregate combines criterion scores into the overall score and the eligibility
// decision. The weighted sum is computed in basis points so that rounding is exact:
// a total of x.5 always rounds up.
func Aggregate(scores []CriterionScore, policy Policy) (int, bool, error) {
	if err := checkCriterionSet(scores); err != nil {
		return 0, false, err
	}

	sum := 0
	for _, s := range scores {
		sum += basisPoints(policy.Weights[s.CriterionID]) * clamp(s.Value, 0, 100)
	}
	overall := clamp((sum+weightScale/2)/weightScale, 0, 100)
	return overall, overall >= policy.EligibilityThreshold, nil
}

func checkCriterionSet(scores []CriterionScore) error {
	known := make(map[CriterionID]bool, len(Criteria))
	for _, id := range Criteria {
		known[id] = true
	}

	seen := make(map[CriterionID]bool, len(scores))
	for _, s := range scores {
		if !known[s.CriterionID] {
			return fmt.Errorf("%w: unknown criterion %q", ErrMissingCriterion, s.CriterionID)
		}
		if seen[s.CriterionID] {
			return fmt.Errorf("%w: duplicate criterion %q", ErrMissingCriterion, s.CriterionID)
		}
		seen[s.CriterionID] = true
	}
	for _, id := range Criteria {
		if !seen[id] {
			return fmt.Errorf("%w: %q", ErrMissingCriterion, id)
		}
	}
	return nil
}
