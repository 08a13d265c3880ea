// internal/api/api.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apphttp "fra-workers/internal/common/http"
	"fra-workers/internal/common/logger"
	"fra-workers/internal/common/metrics"
	"fra-workers/internal/common/observability"
	"fra-workers/internal/eligibility"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxBodyBytes = 8 << 20
	readyTimeout = 2 * time.Second
)

// Pinger is a dependency the readiness endpoint checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	MaxBatchSize     int
	BatchConcurrency int
}

type Server struct {
	config   Config
	assessor *eligibility.Assessor
	obs      *observability.Observability
	checks   map[string]Pinger
	logger   logger.Logger
}

func New(config Config, assessor *eligibility.Assessor, obs *observability.Observability, checks map[string]Pinger, log logger.Logger) *Server {
	return &Server{
		config:   config,
		assessor: assessor,
		obs:      obs,
		checks:   checks,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Routes mounts every endpoint on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/eligibility-check", s.handleEligibilityCheck)
		r.Post("/eligibility-check/batch", s.handleBatch)
		r.Post("/assessments/summary", s.handleSummary)
	})
	return r
}

type errorResponse struct {
	Status  string                       `json:"status"`
	Message string                       `json:"message,omitempty"`
	Errors  eligibility.ValidationErrors `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	apphttp.WriteJSON(w, status, errorResponse{Status: "error", Message: message})
}

func (s *Server) handleEligibilityCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.StartSpan(r.Context(), "api.eligibility-check")
	defer span.End()

	var raw map[string]interface{}
	if err := apphttp.DecodeJSON(w, r, maxBodyBytes, &raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	result, err := s.assessor.Assess(raw)
	if err != nil {
		if ve, ok := eligibility.AsValidationErrors(err); ok {
			metrics.ObserveValidationErrors(ve)
			span.SetAttributes(attribute.Int("validation.errors", len(ve)))
			apphttp.WriteJSON(w, http.StatusBadRequest, errorResponse{Status: "error", Errors: ve})
			return
		}
		s.logger.Error("eligibility check failed", map[string]interface{}{
			"requestId": middleware.GetReqID(ctx),
			"error":     err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "assessment failed")
		return
	}

	metrics.ObserveAssessment(result)
	s.obs.RecordAssessmentScore(ctx, result.OverallScore, string(result.EligibilityStatus))
	span.SetAttributes(
		attribute.Int("assessment.overall_score", result.OverallScore),
		attribute.String("assessment.status", string(result.EligibilityStatus)),
	)

	apphttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"result": result,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.obs.StartSpan(r.Context(), "api.eligibility-check.batch")
	defer span.End()

	var body struct {
		Submissions []map[string]interface{} `json:"submissions"`
	}
	if err := apphttp.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if len(body.Submissions) == 0 {
		writeError(w, http.StatusBadRequest, "submissions must not be empty")
		return
	}
	if s.config.MaxBatchSize > 0 && len(body.Submissions) > s.config.MaxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch of %d exceeds the limit of %d", len(body.Submissions), s.config.MaxBatchSize))
		return
	}

	items, err := s.assessor.AssessBatch(ctx, body.Submissions, s.config.BatchConcurrency)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Error("batch assessment failed", map[string]interface{}{
			"requestId": middleware.GetReqID(ctx),
			"size":      len(body.Submissions),
			"error":     err.Error(),
		})
		writeError(w, status, "batch assessment failed")
		return
	}

	rejected := 0
	for _, item := range items {
		if item.Result != nil {
			metrics.ObserveAssessment(item.Result)
			continue
		}
		rejected++
		metrics.ObserveValidationErrors(item.Errors)
	}
	span.SetAttributes(
		attribute.Int("batch.size", len(items)),
		attribute.Int("batch.rejected", rejected),
	)

	apphttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"total":    len(items),
		"rejected": rejected,
		"items":    items,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Results []eligibility.Result `json:"results"`
	}
	if err := apphttp.DecodeJSON(w, r, maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"summary": eligibility.Summarize(body.Results),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
		s.logger.Warn("readiness check failed", map[string]interface{}{"checks": checks})
	}
	apphttp.WriteJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
