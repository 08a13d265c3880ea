// internal/eligibility/scorer.go
package eligibility

import (
	"math"
	"regexp"
	"strings"
)

type scoringRule struct {
	Criterion CriterionID
	Score     func(sub Submission) int
}

// scoringRules holds one rule per criterion, in Criteria order.
var scoringRules = []scoringRule{
	{CriterionForestDependence, scoreForestDependence},
	{CriterionOccupationDuration, scoreOccupation},
	{CriterionDemographicIndicators, scoreDemographics},
	{CriterionDocumentaryEvidence, scoreDocumentaryEvidence},
}

// Forest dependence bands.
const (
	bandPrimary     = 70
	bandSecondary   = 45
	bandUnspecified = 25
	bandNone        = 10
	tribalBonusMax  = 30
)

var (
	primaryDependence   = []string{"primary", "high", "full", "complete", "total"}
	secondaryDependence = []string{"secondary", "partial", "medium", "moderate", "seasonal"}
	noDependence        = []string{"none", "no", "nil", "not dependent", "independent"}
)

// Traditional forest occupations recognised as specific evidence.
var occupationVocabulary = compileVocabulary(
	"ntfp", "forest produce", "tendu", "kendu leaf", "sal leaf", "sal seed", "mahua",
	"honey", "lac", "bamboo", "medicinal plant", "herb", "grazing", "cattle",
	"shifting cultivation", "podu", "jhum", "forest agriculture", "agriculture in forest",
	"fishing", "hunting", "basket", "siali", "resin", "firewood", "fuelwood", "tamarind",
	"broom grass", "sabai",
)

var forestMention = regexp.MustCompile(`(?i)\bforest`)

// ScoreCriteria returns exactly one clamped score per criterion, in Criteria order.
func ScoreCriteria(sub Submission) []CriterionScore {
	scores := make([]CriterionScore, 0, len(scoringRules))
	for _, rule := range scoringRules {
		scores = append(scores, CriterionScore{
			CriterionID: rule.Criterion,
			Value:       clamp(rule.Score(sub), 0, 100),
		})
	}
	return scores
}

func scoreForestDependence(sub Submission) int {
	base := dependenceBand(sub.ForestDependence)
	bonus := 0
	if sub.Population > 0 && sub.TribalPopulation > 0 {
		// half-up; counts are bounded by maxCount so the product is exact
		share := float64(tribalBonusMax) * float64(sub.TribalPopulation) / float64(sub.Population)
		bonus = int(math.Floor(share + 0.5))
	}
	return clamp(base+bonus, 0, 100)
}

func dependenceBand(raw string) int {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return bandNone
	case matchesAny(v, noDependence):
		return bandNone
	case matchesAny(v, primaryDependence):
		return bandPrimary
	case matchesAny(v, secondaryDependence):
		return bandSecondary
	case forestMention.MatchString(v) || countVocabulary(v) > 0:
		return bandSecondary
	default:
		return bandUnspecified
	}
}

func matchesAny(v string, words []string) bool {
	for _, w := range words {
		if v == w || strings.HasPrefix(v, w+" ") {
			return true
		}
	}
	return false
}

func scoreOccupation(sub Submission) int {
	matches := countVocabulary(sub.TraditionalOccupation)
	if matches == 0 {
		return 50
	}
	return clamp(80+10*(matches-1), 0, 100)
}

func scoreDemographics(sub Submission) int {
	if sub.Households <= 0 {
		return 0
	}
	perHousehold := sub.ForestAreaHectares / float64(sub.Households)

	score := 20
	switch {
	case perHousehold <= 1:
		score = 80
	case perHousehold <= 2.5:
		score = 70
	case perHousehold <= 4:
		score = 60
	case perHousehold <= 10:
		score = 40
	}

	size := float64(sub.Population) / float64(sub.Households)
	if size >= 2 && size <= 10 {
		score += 20
	}
	return clamp(score, 0, 100)
}

func scoreDocumentaryEvidence(sub Submission) int {
	distinct := len(SuppliedTypes(sub.SupportingDocuments))
	n := len(Checklist)
	diversity := (2*75*distinct + n) / (2 * n)

	count := len(sub.SupportingDocuments)
	if count > 5 {
		count = 5
	}
	return clamp(diversity+5*count, 0, 100)
}

func compileVocabulary(terms ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t))
	}
	return out
}

func countVocabulary(text string) int {
	n := 0
	for _, re := range occupationVocabulary {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
