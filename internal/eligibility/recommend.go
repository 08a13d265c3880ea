// internal/eligibility/recommend.go
package eligibility

import "sort"

var criterionAdvice = map[CriterionID]string{
	CriterionForestDependence:      "Document forest-based livelihood activities and the community's dependence on forest land with evidence",
	CriterionOccupationDuration:    "Describe the traditional occupation specifically (e.g. minor forest produce collection, grazing) and attach evidence of its practice",
	CriterionDemographicIndicators: "Verify the household count and the claimed forest area; the area per household is outside the expected range",
	CriterionDocumentaryEvidence:   "Complete documentation with all required certificates",
}

type stepCondition int

const (
	always stepCondition = iota
	whenNotEligible
	whenDocumentsMissing
	whenAreaFlagged
)

// nextStepCatalogue is the procedural sequence in its fixed order.
var nextStepCatalogue = []struct {
	When stepCondition
	Text string
}{
	{whenNotEligible, "Address the recommendations above before resubmission"},
	{whenDocumentsMissing, "Collect the missing documents listed under required documents"},
	{whenAreaFlagged, "Verify the claimed forest area with a survey sketch before submission"},
	{always, "Place the claim before the Gram Sabha and obtain its resolution"},
	{always, "Submit the claim to the Forest Rights Committee for field verification"},
	{always, "Present the claim to the Sub-Divisional Level Committee (SDLC)"},
	{always, "Await District Level Committee (DLC) approval and title issuance"},
}

// Advice is the advisory part of a result.
type Advice struct {
	Recommendations   []string
	RequiredDocuments []string
	NextSteps         []string
}

// Recommend derives recommendations, outstanding documents and next steps.
func Recommend(scores []CriterionScore, eligible bool, supplied []DocumentRef, warnings []Warning, policy Policy) Advice {
	order := make(map[CriterionID]int, len(Criteria))
	for i, id := range Criteria {
		order[id] = i
	}

	low := make([]CriterionScore, 0, len(scores))
	for _, s := range scores {
		if s.Value < policy.LowScoreThreshold {
			low = append(low, s)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].Value != low[j].Value {
			return low[i].Value < low[j].Value
		}
		return order[low[i].CriterionID] < order[low[j].CriterionID]
	})

	recommendations := make([]string, 0, len(low))
	for _, s := range low {
		recommendations = append(recommendations, criterionAdvice[s.CriterionID])
	}

	have := SuppliedTypes(supplied)
	required := make([]string, 0, len(Checklist))
	for _, entry := range Checklist {
		if !have[entry.Type] {
			required = append(required, entry.Name)
		}
	}

	areaFlagged := false
	for _, w := range warnings {
		if w.Field == FieldForestAreaHectares {
			areaFlagged = true
		}
	}

	steps := make([]string, 0, len(nextStepCatalogue))
	for _, step := range nextStepCatalogue {
		include := false
		switch step.When {
		case always:
			include = true
		case whenNotEligible:
			include = !eligible
		case whenDocumentsMissing:
			include = len(required) > 0
		case whenAreaFlagged:
			include = areaFlagged
		}
		if include {
			steps = append(steps, step.Text)
		}
	}

	return Advice{
		Recommendations:   recommendations,
		RequiredDocuments: required,
		NextSteps:         steps,
	}
}
