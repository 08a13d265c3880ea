// internal/eligibility/validator.go
package eligibility

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Raw submission keys.
const (
	FieldCommunityName         = "community_name"
	FieldDistrict              = "district"
	FieldBlock                 = "block"
	FieldVillage               = "village"
	FieldForestAreaHectares    = "forest_area_hectares"
	FieldHouseholds            = "households"
	FieldPopulation            = "population"
	FieldTribalPopulation      = "tribal_population"
	FieldForestDependence      = "forest_dependence"
	FieldTraditionalOccupation = "traditional_occupation"
	FieldSupportingDocuments   = "supporting_documents"
)

type textRule struct {
	field     string
	required  bool
	minLength int
}

type numberRule struct {
	field     string
	min       float64
	max       float64 // zero means unbounded
	exclusive bool
	integer   bool
	warnAbove bool
}

// maxCount bounds the head counts so they convert to int on every platform.
const maxCount = math.MaxInt32

// Rule tables, in report order.
var (
	textRules = []textRule{
		{field: FieldCommunityName, required: true, minLength: 2},
		{field: FieldDistrict, required: true},
		{field: FieldBlock, required: true},
		{field: FieldVillage, required: true},
	}
	numberRules = []numberRule{
		{field: FieldForestAreaHectares, min: 0, exclusive: true, warnAbove: true},
		{field: FieldHouseholds, min: 1, max: maxCount, integer: true},
		{field: FieldPopulation, min: 1, max: maxCount, integer: true},
		{field: FieldTribalPopulation, min: 0, max: maxCount, integer: true},
	}
	trailingTextRules = []textRule{
		{field: FieldForestDependence},
		{field: FieldTraditionalOccupation, required: true},
	}
)

// Validate checks a raw submission against the field rules. Every failing field is
// reported, one error per field. Warnings never cause rejection.
func Validate(raw map[string]interface{}, policy Policy) (*Submission, []Warning, error) {
	var (
		errs     ValidationErrors
		warnings = []Warning{}
		texts    = make(map[string]string)
		numbers  = make(map[string]float64)
	)

	for _, rule := range textRules {
		value, fe := checkText(raw, rule)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		texts[rule.field] = value
	}

	for _, rule := range numberRules {
		value, fe := checkNumber(raw, rule)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		numbers[rule.field] = value
		if rule.warnAbove && value > policy.ForestAreaWarning {
			warnings = append(warnings, Warning{
				Field:   rule.field,
				Code:    CodeVerifyValue,
				Message: fmt.Sprintf("%s of %g exceeds %g; verify the claimed area", rule.field, value, policy.ForestAreaWarning),
			})
		}
	}

	population, popOK := numbers[FieldPopulation]
	tribal, tribalOK := numbers[FieldTribalPopulation]
	if popOK && tribalOK && tribal > population {
		errs = append(errs, FieldError{
			Field:   FieldTribalPopulation,
			Code:    CodeExceedsPopulation,
			Message: "tribal_population cannot exceed population",
		})
	}

	for _, rule := range trailingTextRules {
		value, fe := checkText(raw, rule)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		texts[rule.field] = value
	}

	docs, fe := parseDocuments(raw[FieldSupportingDocuments])
	if fe != nil {
		errs = append(errs, *fe)
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	return &Submission{
		CommunityName:         texts[FieldCommunityName],
		District:              texts[FieldDistrict],
		Block:                 texts[FieldBlock],
		Village:               texts[FieldVillage],
		ForestAreaHectares:    numbers[FieldForestAreaHectares],
		Households:            int(numbers[FieldHouseholds]),
		Population:            int(population),
		TribalPopulation:      int(tribal),
		ForestDependence:      texts[FieldForestDependence],
		TraditionalOccupation: texts[FieldTraditionalOccupation],
		SupportingDocuments:   docs,
	}, warnings, nil
}

// Check runs a submission that arrived already decoded back through the field
// rules, so a zero-valued or out-of-range struct is rejected like raw input.
func (s Submission) Check() error {
	_, _, err := Validate(map[string]interface{}{
		FieldCommunityName:         s.CommunityName,
		FieldDistrict:              s.District,
		FieldBlock:                 s.Block,
		FieldVillage:               s.Village,
		FieldForestAreaHectares:    s.ForestAreaHectares,
		FieldHouseholds:            s.Households,
		FieldPopulation:            s.Population,
		FieldTribalPopulation:      s.TribalPopulation,
		FieldForestDependence:      s.ForestDependence,
		FieldTraditionalOccupation: s.TraditionalOccupation,
		FieldSupportingDocuments:   s.SupportingDocuments,
	}, DefaultPolicy())
	return err
}

func checkText(raw map[string]interface{}, rule textRule) (string, *FieldError) {
	v, present := raw[rule.field]
	if !present || v == nil {
		if rule.required {
			return "", missing(rule.field)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{
			Field:   rule.field,
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("%s must be text", rule.field),
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if rule.required {
			return "", missing(rule.field)
		}
		return "", nil
	}
	if rule.minLength > 0 && utf8.RuneCountInString(s) < rule.minLength {
		return "", &FieldError{
			Field:   rule.field,
			Code:    CodeTooShort,
			Message: fmt.Sprintf("%s must be at least %d characters", rule.field, rule.minLength),
		}
	}
	return s, nil
}

func checkNumber(raw map[string]interface{}, rule numberRule) (float64, *FieldError) {
	v, present := raw[rule.field]
	if !present || v == nil {
		return 0, missing(rule.field)
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0, missing(rule.field)
	}

	n, ok := parseNumber(v)
	if !ok || n < rule.min || (rule.exclusive && n == rule.min) {
		bound := "at least"
		if rule.exclusive {
			bound = "greater than"
		}
		return 0, &FieldError{
			Field:   rule.field,
			Code:    CodeBelowMinimum,
			Message: fmt.Sprintf("%s must be a number %s %g", rule.field, bound, rule.min),
		}
	}
	if rule.max > 0 && n > rule.max {
		return 0, &FieldError{
			Field:   rule.field,
			Code:    CodeAboveMaximum,
			Message: fmt.Sprintf("%s must be at most %g", rule.field, rule.max),
		}
	}
	if rule.integer && math.Trunc(n) != n {
		return 0, &FieldError{
			Field:   rule.field,
			Code:    CodeNotInteger,
			Message: fmt.Sprintf("%s must be a whole number", rule.field),
		}
	}
	return n, nil
}

func missing(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// parseNumber accepts JSON numbers and numeric strings such as " 1,200 ".
func parseNumber(raw interface{}) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseDocuments(raw interface{}) ([]DocumentRef, *FieldError) {
	invalid := func(msg string) *FieldError {
		return &FieldError{Field: FieldSupportingDocuments, Code: CodeInvalidType, Message: msg}
	}

	switch v := raw.(type) {
	case nil:
		return []DocumentRef{}, nil
	case []DocumentRef:
		return append([]DocumentRef{}, v...), nil
	case []string:
		docs := make([]DocumentRef, 0, len(v))
		for _, t := range v {
			docs = append(docs, DocumentRef{Type: t})
		}
		return docs, nil
	case []interface{}:
		docs := make([]DocumentRef, 0, len(v))
		for i, item := range v {
			switch doc := item.(type) {
			case string:
				docs = append(docs, DocumentRef{Type: doc})
			case map[string]interface{}:
				docType, _ := doc["type"].(string)
				if strings.TrimSpace(docType) == "" {
					return nil, invalid(fmt.Sprintf("supporting_documents[%d] has no type", i))
				}
				id, _ := doc["id"].(string)
				docs = append(docs, DocumentRef{ID: id, Type: docType})
			default:
				return nil, invalid(fmt.Sprintf("supporting_documents[%d] must be a document reference", i))
			}
		}
		return docs, nil
	default:
		return nil, invalid("supporting_documents must be a list of document references")
	}
}
