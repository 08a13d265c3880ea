// internal/api/api_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fra-workers/internal/common/logger"
	"fra-workers/internal/eligibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const validSubmission = `{
	"community_name": "Korba Van Samiti",
	"district": "Korba",
	"block": "Pali",
	"village": "Lafa",
	"forest_area_hectares": 5,
	"households": 20,
	"population": 100,
	"tribal_population": 80,
	"forest_dependence": "primary",
	"traditional_occupation": "NTFP collection",
	"supporting_documents": [
		{"id": "doc-1", "type": "ration_card"},
		{"id": "doc-2", "type": "st_certificate"},
		{"id": "doc-3", "type": "gram_sabha_resolution"}
	]
}`

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func createTestServer(t *testing.T, checks map[string]Pinger) *Server {
	t.Helper()
	a, err := eligibility.NewAssessor(eligibility.DefaultPolicy())
	require.NoError(t, err)
	return New(Config{MaxBatchSize: 3, BatchConcurrency: 2}, a, nil, checks, logger.NewTestLogger(t))
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

// ==========================
// Eligibility Check Tests
// ==========================

func TestEligibilityCheck_Success(t *testing.T) {
	s := createTestServer(t, nil)

	rec, body := doRequest(t, s, http.MethodPost, "/api/eligibility-check", validSubmission)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 82.0, result["overall_score"])
	assert.Equal(t, true, result["eligible"])
	assert.Equal(t, "highly_eligible", result["eligibility_status"])
}

func TestEligibilityCheck_ValidationErrors(t *testing.T) {
	s := createTestServer(t, nil)

	rec, body := doRequest(t, s, http.MethodPost, "/api/eligibility-check",
		`{"district": "Korba", "population": 10, "tribal_population": 50}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])

	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	fields := map[string]string{}
	for _, e := range errs {
		fe := e.(map[string]interface{})
		fields[fe["field"].(string)] = fe["code"].(string)
	}
	assert.Equal(t, eligibility.CodeMissingField, fields["community_name"])
	assert.Equal(t, eligibility.CodeExceedsPopulation, fields["tribal_population"])
}

func TestEligibilityCheck_MalformedBody(t *testing.T) {
	s := createTestServer(t, nil)

	rec, body := doRequest(t, s, http.MethodPost, "/api/eligibility-check", `{"community_name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "invalid JSON body")
}

func TestEligibilityCheck_MethodNotAllowed(t *testing.T) {
	s := createTestServer(t, nil)

	rec, _ := doRequest(t, s, http.MethodGet, "/api/eligibility-check", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ==========================
// Batch and Summary Tests
// ==========================

func TestBatch_MixedItems(t *testing.T) {
	s := createTestServer(t, nil)

	payload := fmt.Sprintf(`{"submissions": [%s, {"district": "Korba"}]}`, validSubmission)
	rec, body := doRequest(t, s, http.MethodPost, "/api/eligibility-check/batch", payload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["total"])
	assert.Equal(t, 1.0, body["rejected"])

	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	second := items[1].(map[string]interface{})
	assert.Equal(t, 0.0, first["index"])
	assert.NotNil(t, first["result"])
	assert.Equal(t, 1.0, second["index"])
	assert.NotEmpty(t, second["errors"])
}

func TestBatch_Limits(t *testing.T) {
	s := createTestServer(t, nil)

	tests := []struct {
		name           string
		payload        string
		expectedStatus int
	}{
		{"empty batch", `{"submissions": []}`, http.StatusBadRequest},
		{"over the limit", `{"submissions": [{}, {}, {}, {}]}`, http.StatusRequestEntityTooLarge},
		{"malformed", `{"submissions": {}}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doRequest(t, s, http.MethodPost, "/api/eligibility-check/batch", tt.payload)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "error", body["status"])
		})
	}
}

func TestSummary(t *testing.T) {
	s := createTestServer(t, nil)

	payload := `{"results": [
		{"eligible": true, "overall_score": 82, "eligibility_status": "highly_eligible",
		 "criteria_scores": {"forest_dependence": 94, "occupation_duration": 80, "demographic_indicators": 100, "documentary_evidence": 43}},
		{"eligible": false, "overall_score": 30, "eligibility_status": "not_eligible",
		 "criteria_scores": {"forest_dependence": 20, "occupation_duration": 40, "demographic_indicators": 30, "documentary_evidence": 10}}
	]}`
	rec, body := doRequest(t, s, http.MethodPost, "/api/assessments/summary", payload)

	require.Equal(t, http.StatusOK, rec.Code)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 2.0, summary["total_assessments"])
	assert.Equal(t, 1.0, summary["eligible_count"])
	assert.Equal(t, 56.0, summary["average_overall_score"])

	buckets := summary["score_distribution"].(map[string]interface{})
	assert.Equal(t, 1.0, buckets["81-100"])
	assert.Equal(t, 1.0, buckets["21-40"])
	assert.Equal(t, 0.0, buckets["41-60"])
}

// ==========================
// Health and Readiness Tests
// ==========================

func TestHealth(t *testing.T) {
	s := createTestServer(t, map[string]Pinger{"postgres": fakePinger{err: errors.New("down")}})

	rec, body := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "all dependencies up",
			checks:         map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{}},
			expectedStatus: http.StatusOK,
			expectedState:  "ready",
		},
		{
			name:           "redis down",
			checks:         map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{err: errors.New("connection refused")}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "not_ready",
		},
		{
			name:           "no dependencies",
			checks:         nil,
			expectedStatus: http.StatusOK,
			expectedState:  "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestServer(t, tt.checks)

			rec, body := doRequest(t, s, http.MethodGet, "/ready", "")
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedState, body["status"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := createTestServer(t, nil)

	doRequest(t, s, http.MethodPost, "/api/eligibility-check", validSubmission)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "assessments_total")
}
