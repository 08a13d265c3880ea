// internal/eligibility/summary.go
package eligibility

import "math"

// Score buckets of the summary report.
var ScoreBuckets = []struct {
	Label    string
	Min, Max int
}{
	{"0-20", 0, 20},
	{"21-40", 21, 40},
	{"41-60", 41, 60},
	{"61-80", 61, 80},
	{"81-100", 81, 100},
}

// Summary aggregates a set of assessment results.
type Summary struct {
	TotalAssessments    int                     `json:"total_assessments"`
	EligibleCount       int                     `json:"eligible_count"`
	StatusDistribution  map[Status]int          `json:"status_distribution"`
	ScoreDistribution   map[string]int          `json:"score_distribution"`
	AverageOverallScore float64                 `json:"average_overall_score"`
	AverageCriteria     map[CriterionID]float64 `json:"average_criteria_scores"`
}

// Summarize reports totals, tier and score distributions, and averages rounded
// to two decimals. An empty input yields zero counts with every key present.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalAssessments:   len(results),
		StatusDistribution: make(map[Status]int),
		ScoreDistribution:  make(map[string]int, len(ScoreBuckets)),
		AverageCriteria:    make(map[CriterionID]float64, len(Criteria)),
	}
	for _, st := range []Status{StatusHighlyEligible, StatusEligible, StatusConditionallyEligible, StatusNotEligible} {
		s.StatusDistribution[st] = 0
	}
	for _, b := range ScoreBuckets {
		s.ScoreDistribution[b.Label] = 0
	}
	for _, id := range Criteria {
		s.AverageCriteria[id] = 0
	}
	if len(results) == 0 {
		return s
	}

	overallTotal := 0
	criteriaTotals := make(map[CriterionID]int, len(Criteria))
	for _, r := range results {
		if r.Eligible {
			s.EligibleCount++
		}
		if r.EligibilityStatus != "" {
			s.StatusDistribution[r.EligibilityStatus]++
		}
		s.ScoreDistribution[bucketFor(r.OverallScore)]++
		overallTotal += r.OverallScore
		for _, id := range Criteria {
			criteriaTotals[id] += r.CriteriaScores[id]
		}
	}

	n := float64(len(results))
	s.AverageOverallScore = round2(float64(overallTotal) / n)
	for _, id := range Criteria {
		s.AverageCriteria[id] = round2(float64(criteriaTotals[id]) / n)
	}
	return s
}

func bucketFor(score int) string {
	score = clamp(score, 0, 100)
	for _, b := range ScoreBuckets {
		if score >= b.Min && score <= b.Max {
			return b.Label
		}
	}
	return ScoreBuckets[len(ScoreBuckets)-1].Label
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
