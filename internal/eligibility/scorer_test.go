// internal/eligibility/scorer_test.go
package eligibility

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestScoringSubmission() Submission {
	return Submission{
		CommunityName:         "Korba Van Samiti",
		District:              "Korba",
		Block:                 "Pali",
		Village:               "Lafa",
		ForestAreaHectares:    5,
		Households:            20,
		Population:            100,
		TribalPopulation:      80,
		ForestDependence:      "primary",
		TraditionalOccupation: "NTFP collection",
		SupportingDocuments:   []DocumentRef{},
	}
}

func TestScoreCriteria_OrderAndCount(t *testing.T) {
	scores := ScoreCriteria(createTestScoringSubmission())

	require.Len(t, scores, len(Criteria))
	for i, id := range Criteria {
		assert.Equal(t, id, scores[i].CriterionID)
	}
}

func TestScoreForestDependence(t *testing.T) {
	tests := []struct {
		name       string
		dependence string
		tribal     int
		expected   int
	}{
		{"primary without tribal bonus", "primary", 0, 70},
		{"primary with full tribal bonus", "Primary", 100, 100},
		{"secondary", "secondary", 0, 45},
		{"seasonal counts as secondary", "Seasonal collection", 0, 45},
		{"free text naming the forest", "We gather produce from the forest", 0, 45},
		{"free text naming an occupation", "fishing in the reservoir", 0, 45},
		{"unrelated free text", "agriculture", 0, 25},
		{"unspecified", "", 0, 10},
		{"none", "none", 0, 10},
		{"none with tribal bonus", "None", 50, 25},
		{"bonus rounds half up", "none", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestScoringSubmission()
			sub.ForestDependence = tt.dependence
			sub.TribalPopulation = tt.tribal

			assert.Equal(t, tt.expected, scoreForestDependence(sub))
		})
	}
}

func TestScoreForestDependence_BonusRounding(t *testing.T) {
	sub := createTestScoringSubmission()
	sub.ForestDependence = "none"
	sub.Population = 4
	sub.TribalPopulation = 1 // 30/4 = 7.5

	assert.Equal(t, 18, scoreForestDependence(sub))
}

func TestScoreForestDependence_LargeCountsStayMonotone(t *testing.T) {
	sub := createTestScoringSubmission()
	sub.ForestDependence = "primary"
	sub.Population = maxCount

	previous := -1
	for _, tribal := range []int{0, maxCount / 10, maxCount / 5, maxCount / 2, maxCount - 1, maxCount} {
		sub.TribalPopulation = tribal
		score := scoreForestDependence(sub)
		assert.GreaterOrEqual(t, score, previous, "tribal=%d", tribal)
		previous = score
	}
	assert.Equal(t, 100, previous)

	sub.TribalPopulation = maxCount / 10
	assert.Equal(t, 73, scoreForestDependence(sub))
}

func TestScoreOccupation(t *testing.T) {
	tests := []struct {
		occupation string
		expected   int
	}{
		{"Farming", 50},
		{"NTFP collection", 80},
		{"Tendu leaf and mahua collection", 90},
		{"Tendu leaf, mahua, bamboo craft", 100},
		{"Honey, lac, bamboo, grazing and fishing", 100},
		{"Collecting herbs", 80},
	}

	for _, tt := range tests {
		t.Run(tt.occupation, func(t *testing.T) {
			sub := createTestScoringSubmission()
			sub.TraditionalOccupation = tt.occupation

			assert.Equal(t, tt.expected, scoreOccupation(sub))
		})
	}
}

func TestScoreDemographics(t *testing.T) {
	tests := []struct {
		name       string
		area       float64
		households int
		population int
		expected   int
	}{
		{"small holdings, typical households", 5, 20, 100, 100},
		{"2.5 ha per household", 50, 20, 100, 90},
		{"3 ha per household", 60, 20, 100, 80},
		{"10 ha per household", 200, 20, 100, 60},
		{"large holdings, single-person households", 200, 10, 10, 20},
		{"oversized households", 2, 2, 30, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestScoringSubmission()
			sub.ForestAreaHectares = tt.area
			sub.Households = tt.households
			sub.Population = tt.population

			assert.Equal(t, tt.expected, scoreDemographics(sub))
		})
	}
}

func TestScoreDocumentaryEvidence(t *testing.T) {
	tests := []struct {
		name     string
		docs     []string
		expected int
	}{
		{"no documents", nil, 0},
		{"one unrecognised document", []string{"letter"}, 5},
		{"three distinct", []string{"ration_card", "st_certificate", "gram_sabha_resolution"}, 43},
		{"duplicates add volume only", []string{"ration_card", "voter_id", "aadhaar"}, 34},
		{"full checklist", []string{"ration_card", "st_certificate", "patta", "elders_statement", "gram_sabha", "aadhaar", "photo", "sketch_map"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestScoringSubmission()
			for _, d := range tt.docs {
				sub.SupportingDocuments = append(sub.SupportingDocuments, DocumentRef{Type: d})
			}

			assert.Equal(t, tt.expected, scoreDocumentaryEvidence(sub))
		})
	}
}

// ==========================
// Aggregator Tests
// ==========================

func TestAggregate(t *testing.T) {
	scores := []CriterionScore{
		{CriterionForestDependence, 94},
		{CriterionOccupationDuration, 80},
		{CriterionDemographicIndicators, 100},
		{CriterionDocumentaryEvidence, 43},
	}

	overall, eligible, err := Aggregate(scores, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 82, overall) // 81.5 rounds up
	assert.True(t, eligible)
}

func TestAggregate_ThresholdIsInclusive(t *testing.T) {
	scores := []CriterionScore{
		{CriterionForestDependence, 60},
		{CriterionOccupationDuration, 60},
		{CriterionDemographicIndicators, 60},
		{CriterionDocumentaryEvidence, 60},
	}

	overall, eligible, err := Aggregate(scores, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 60, overall)
	assert.True(t, eligible)
}

func TestAggregate_CriterionSetMismatch(t *testing.T) {
	tests := []struct {
		name   string
		scores []CriterionScore
	}{
		{
			name: "missing criterion",
			scores: []CriterionScore{
				{CriterionForestDependence, 50},
				{CriterionOccupationDuration, 50},
				{CriterionDemographicIndicators, 50},
			},
		},
		{
			name: "duplicate criterion",
			scores: []CriterionScore{
				{CriterionForestDependence, 50},
				{CriterionForestDependence, 50},
				{CriterionDemographicIndicators, 50},
				{CriterionDocumentaryEvidence, 50},
			},
		},
		{
			name: "unknown criterion",
			scores: []CriterionScore{
				{CriterionForestDependence, 50},
				{CriterionOccupationDuration, 50},
				{CriterionDemographicIndicators, 50},
				{CriterionDocumentaryEvidence, 50},
				{"land_quality", 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Aggregate(tt.scores, DefaultPolicy())
			assert.True(t, errors.Is(err, ErrMissingCriterion))
		})
	}
}

// ==========================
// Recommendation Tests
// ==========================

func TestRecommend_TiesFollowCriterionOrder(t *testing.T) {
	scores := []CriterionScore{
		{CriterionDocumentaryEvidence, 30},
		{CriterionDemographicIndicators, 30},
		{CriterionOccupationDuration, 30},
		{CriterionForestDependence, 30},
	}

	advice := Recommend(scores, false, nil, nil, DefaultPolicy())

	require.Len(t, advice.Recommendations, 4)
	for i, id := range Criteria {
		assert.Equal(t, criterionAdvice[id], advice.Recommendations[i])
	}
}

func TestRecommend_NoAdviceAtThreshold(t *testing.T) {
	scores := []CriterionScore{
		{CriterionForestDependence, 50},
		{CriterionOccupationDuration, 50},
		{CriterionDemographicIndicators, 50},
		{CriterionDocumentaryEvidence, 50},
	}

	docs := make([]DocumentRef, 0, len(Checklist))
	for _, entry := range Checklist {
		docs = append(docs, DocumentRef{Type: string(entry.Type)})
	}

	advice := Recommend(scores, true, docs, nil, DefaultPolicy())

	assert.Empty(t, advice.Recommendations)
	assert.Empty(t, advice.RequiredDocuments)
	assert.Equal(t, []string{
		"Place the claim before the Gram Sabha and obtain its resolution",
		"Submit the claim to the Forest Rights Committee for field verification",
		"Present the claim to the Sub-Divisional Level Committee (SDLC)",
		"Await District Level Committee (DLC) approval and title issuance",
	}, advice.NextSteps)
}

func TestRecommend_ConditionalStepsKeepCatalogueOrder(t *testing.T) {
	scores := ScoreCriteria(createTestScoringSubmission())
	warnings := []Warning{{Field: FieldForestAreaHectares, Code: CodeVerifyValue}}

	advice := Recommend(scores, false, nil, warnings, DefaultPolicy())

	require.Len(t, advice.NextSteps, len(nextStepCatalogue))
	for i, step := range nextStepCatalogue {
		assert.Equal(t, step.Text, advice.NextSteps[i])
	}
}
