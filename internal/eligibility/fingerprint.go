// internal/eligibility/fingerprint.go
package eligibility

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint identifies a validated submission. Equal submissions always
// produce equal results, so the fingerprint doubles as a result cache key.
func Fingerprint(sub Submission) string {
	if sub.SupportingDocuments == nil {
		sub.SupportingDocuments = []DocumentRef{}
	}
	// struct fields marshal in declaration order, so the encoding is canonical
	data, _ := json.Marshal(sub)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint identifies the scoring configuration. Results computed under one
// policy must not be served under another, so cache keys include it.
func (p Policy) Fingerprint() string {
	// map keys marshal sorted
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:6])
}
