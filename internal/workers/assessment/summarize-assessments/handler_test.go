// internal/workers/assessment/summarize-assessments/handler_test.go
package summarizeassessments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "fra-workers/internal/common/errors"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/eligibility"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		CacheTTL:     time.Minute,
		DefaultLimit: 100,
		MaxLimit:     500,
	}
}

func createTestResult(score int, status eligibility.Status, eligible bool, criteria int) []byte {
	r := eligibility.Result{
		Eligible:          eligible,
		OverallScore:      score,
		EligibilityStatus: status,
		CriteriaScores: map[eligibility.CriterionID]int{
			eligibility.CriterionForestDependence:      criteria,
			eligibility.CriterionOccupationDuration:    criteria,
			eligibility.CriterionDemographicIndicators: criteria,
			eligibility.CriterionDocumentaryEvidence:   criteria,
		},
	}
	data, _ := json.Marshal(r)
	return data
}

func createTestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"result"}).
		AddRow(createTestResult(82, eligibility.StatusHighlyEligible, true, 80)).
		AddRow(createTestResult(44, eligibility.StatusConditionallyEligible, false, 40))
}

func createTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AllDistricts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT result FROM assessments ORDER BY created_at DESC`).
		WithArgs(100).
		WillReturnRows(createTestRows())

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	s := output.Summary
	assert.False(t, output.Cached)
	assert.Equal(t, 2, s.TotalAssessments)
	assert.Equal(t, 1, s.EligibleCount)
	assert.Equal(t, 63.0, s.AverageOverallScore)
	assert.Equal(t, 1, s.StatusDistribution[eligibility.StatusHighlyEligible])
	assert.Equal(t, 1, s.StatusDistribution[eligibility.StatusConditionallyEligible])
	assert.Equal(t, 0, s.StatusDistribution[eligibility.StatusNotEligible])
	assert.Equal(t, 1, s.ScoreDistribution["81-100"])
	assert.Equal(t, 1, s.ScoreDistribution["41-60"])
	assert.Equal(t, 60.0, s.AverageCriteria[eligibility.CriterionForestDependence])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_District(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT result FROM assessments WHERE lower\(district\) = lower\(\$1\)`).
		WithArgs("Korba", 500).
		WillReturnRows(createTestRows())

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{District: " Korba ", Limit: 5000})
	require.NoError(t, err)

	assert.Equal(t, "Korba", output.District)
	assert.Equal(t, 2, output.Summary.TotalAssessments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoAssessments(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT result FROM assessments`).
		WillReturnRows(sqlmock.NewRows([]string{"result"}))

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 0, output.Summary.TotalAssessments)
	assert.Equal(t, 0.0, output.Summary.AverageOverallScore)
	assert.Len(t, output.Summary.ScoreDistribution, len(eligibility.ScoreBuckets))
}

func TestHandler_Execute_SkipsUnreadableRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT result FROM assessments`).
		WillReturnRows(sqlmock.NewRows([]string{"result"}).
			AddRow([]byte(`{not json`)).
			AddRow(createTestResult(82, eligibility.StatusHighlyEligible, true, 80)))

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Summary.TotalAssessments)
}

func TestHandler_Execute_CachesSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, client := createTestRedis(t)

	mock.ExpectQuery(`SELECT result FROM assessments WHERE lower\(district\) = lower\(\$1\)`).
		WithArgs("Korba", 100).
		WillReturnRows(createTestRows())

	handler := NewHandler(createTestConfig(), db, client, logger.NewTestLogger(t))

	first, err := handler.Execute(context.Background(), &Input{District: "Korba"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.True(t, mr.Exists("assessment-summary:korba:100"))
	assert.Equal(t, time.Minute, mr.TTL("assessment-summary:korba:100"))

	second, err := handler.Execute(context.Background(), &Input{District: "Korba"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)

	// a second query would be unexpected
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DistrictCaseSharesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	_, client := createTestRedis(t)

	mock.ExpectQuery(`SELECT result FROM assessments WHERE lower\(district\) = lower\(\$1\)`).
		WithArgs("Korba", 100).
		WillReturnRows(createTestRows())

	handler := NewHandler(createTestConfig(), db, client, logger.NewTestLogger(t))

	first, err := handler.Execute(context.Background(), &Input{District: "Korba"})
	require.NoError(t, err)

	// same rows either way, so the cached summary is the right answer
	upper, err := handler.Execute(context.Background(), &Input{District: "KORBA"})
	require.NoError(t, err)
	assert.True(t, upper.Cached)
	assert.Equal(t, first.Summary, upper.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DistrictMatchIgnoresCase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT result FROM assessments WHERE lower\(district\) = lower\(\$1\)`).
		WithArgs("KORBA", 100).
		WillReturnRows(createTestRows())

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{District: "KORBA"})
	require.NoError(t, err)
	assert.False(t, output.Cached)
	assert.Positive(t, output.Summary.TotalAssessments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_QueryErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode apperrors.ErrorCode
	}{
		{"query failure", errors.New("relation \"assessments\" does not exist"), apperrors.ErrCodeQueryExecutionFailed},
		{"deadline", context.DeadlineExceeded, apperrors.ErrCodeQueryTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT result FROM assessments`).WillReturnError(tt.err)

			handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), &Input{})
			assert.Nil(t, output)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.True(t, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_InvalidLimit(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewHandler(createTestConfig(), db, nil, logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{Limit: -3})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "assessment-summary:all:100", cacheKey("", 100))
	assert.Equal(t, "assessment-summary:korba:25", cacheKey("Korba", 25))
}
