// internal/workers/assessment/notify-assessment-outcome/message.go
package notifyassessmentoutcome

import (
	"bytes"
	"fmt"
	"text/template"

	"fra-workers/internal/eligibility"
)

var statusLabels = map[eligibility.Status]string{
	eligibility.StatusHighlyEligible:        "highly eligible",
	eligibility.StatusEligible:              "eligible",
	eligibility.StatusConditionallyEligible: "conditionally eligible",
	eligibility.StatusNotEligible:           "not eligible",
}

var emailBody = template.Must(template.New("email").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`Forest Rights Act claim assessment for {{.Community}}

Overall score: {{.Result.OverallScore}}/100
Outcome: {{.Label}}
{{if .Result.Recommendations}}
Recommendations:
{{range .Result.Recommendations}}  - {{.}}
{{end}}{{end}}{{if .Result.RequiredDocuments}}
Documents still required:
{{range .Result.RequiredDocuments}}  - {{.}}
{{end}}{{end}}{{if .Result.NextSteps}}
Next steps:
{{range $i, $s := .Result.NextSteps}}  {{inc $i}}. {{$s}}
{{end}}{{end}}
Assessment reference: {{.AssessmentID}}
`))

func statusLabel(s eligibility.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func composeSubject(input *Input) string {
	return fmt.Sprintf("FRA claim assessment: %s is %s", input.CommunityName, statusLabel(input.Assessment.EligibilityStatus))
}

func composeEmail(input *Input) (string, error) {
	var buf bytes.Buffer
	err := emailBody.Execute(&buf, map[string]interface{}{
		"Community":    input.CommunityName,
		"Label":        statusLabel(input.Assessment.EligibilityStatus),
		"Result":       input.Assessment,
		"AssessmentID": input.AssessmentID,
	})
	return buf.String(), err
}

// composeSMS keeps the text within one 160 character segment for typical names.
func composeSMS(input *Input) string {
	msg := fmt.Sprintf("FRA claim %s: score %d/100, %s.",
		input.CommunityName, input.Assessment.OverallScore, statusLabel(input.Assessment.EligibilityStatus))
	if n := len(input.Assessment.RequiredDocuments); n > 0 {
		msg += fmt.Sprintf(" %d document(s) still required.", n)
	}
	return msg + " Ref " + input.AssessmentID
}
