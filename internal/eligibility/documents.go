// internal/eligibility/documents.go
package eligibility

import "strings"

// DocumentType is one entry of the required-document checklist.
type DocumentType string

const (
	DocResidenceProof        DocumentType = "residence_proof"
	DocCommunityCertificate  DocumentType = "community_certificate"
	DocLandRecords           DocumentType = "land_records"
	DocForestDependenceProof DocumentType = "forest_dependence_proof"
	DocCommunityResolution   DocumentType = "community_resolution"
	DocIdentityProof         DocumentType = "identity_proof"
	DocPhotographs           DocumentType = "photographs"
	DocLandSketch            DocumentType = "land_sketch"
)

type checklistEntry struct {
	Type DocumentType
	Name string
}

// Checklist is the required-document list in its fixed order.
var Checklist = []checklistEntry{
	{DocResidenceProof, "Residence proof (ration card, voter ID, etc.)"},
	{DocCommunityCertificate, "Scheduled Tribe/OTFD certificate"},
	{DocLandRecords, "Land records and survey settlement"},
	{DocForestDependenceProof, "Forest dependence evidence"},
	{DocCommunityResolution, "Gram Sabha resolution"},
	{DocIdentityProof, "Identity proof documents"},
	{DocPhotographs, "Recent photographs"},
	{DocLandSketch, "Land sketch/map"},
}

// Common names that uploaders attach to documents, keyed by normalised label.
var documentAliases = map[string]DocumentType{
	"ration_card":           DocResidenceProof,
	"domicile_certificate":  DocResidenceProof,
	"residence_certificate": DocResidenceProof,
	"st_certificate":        DocCommunityCertificate,
	"caste_certificate":     DocCommunityCertificate,
	"tribe_certificate":     DocCommunityCertificate,
	"otfd_certificate":      DocCommunityCertificate,
	"record_of_rights":      DocLandRecords,
	"khatian":               DocLandRecords,
	"patta":                 DocLandRecords,
	"survey_settlement":     DocLandRecords,
	"elders_statement":      DocForestDependenceProof,
	"gram_sabha_resolution": DocCommunityResolution,
	"gram_sabha":            DocCommunityResolution,
	"voter_id":              DocIdentityProof,
	"aadhaar":               DocIdentityProof,
	"aadhaar_card":          DocIdentityProof,
	"photo":                 DocPhotographs,
	"photograph":            DocPhotographs,
	"sketch_map":            DocLandSketch,
	"land_map":              DocLandSketch,
	"map":                   DocLandSketch,
}

// InferDocumentType maps a reference's declared type onto the checklist.
func InferDocumentType(ref DocumentRef) (DocumentType, bool) {
	label := normaliseLabel(ref.Type)
	if label == "" {
		return "", false
	}
	if t, ok := documentAliases[label]; ok {
		return t, true
	}
	for _, entry := range Checklist {
		key := string(entry.Type)
		if label == key || strings.Contains(label, key) || (len(label) >= 4 && strings.Contains(key, label)) {
			return entry.Type, true
		}
	}
	return "", false
}

// SuppliedTypes returns the distinct checklist types present among refs.
func SuppliedTypes(refs []DocumentRef) map[DocumentType]bool {
	out := make(map[DocumentType]bool)
	for _, ref := range refs {
		if t, ok := InferDocumentType(ref); ok {
			out[t] = true
		}
	}
	return out
}

func normaliseLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
	return strings.Trim(s, "_")
}
