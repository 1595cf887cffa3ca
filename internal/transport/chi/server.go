// Package chi exposes the discovery pipeline over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/domain"
	logpkg "github.com/maxange-developer/master-start2impact/internal/logger"
	healthuc "github.com/maxange-developer/master-start2impact/internal/usecase/health"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeQuotaExceeded    = "quota_exceeded"
	codeConfigError      = "configuration_error"
	codePipelineTimeout  = "pipeline_timeout"
	codeInternalError    = "internal_error"
)

// Discoverer runs the discovery pipeline for one query.
type Discoverer interface {
	Discover(ctx context.Context, q domain.Query) (domain.SearchResponse, error)
}

// errorHandler tries to handle a pipeline error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// searchRequest is the POST /api/v1/search body.
type searchRequest struct {
	Query        string `json:"query"`
	Language     string `json:"language,omitempty"`
	IsSuggestion bool   `json:"is_suggestion,omitempty"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// healthResponse is the GET /health body.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server routes HTTP requests to the pipeline and health services.
type Server struct {
	discovery     Discoverer
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(discovery Discoverer, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		discovery: discovery,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrQuotaExceeded,
			http.StatusServiceUnavailable, codeQuotaExceeded, "service temporarily unavailable"),
		sentinelHandler(domain.ErrInvalidCredential,
			http.StatusServiceUnavailable, codeConfigError, "service misconfigured"),
		sentinelHandler(domain.ErrPipelineTimeout,
			http.StatusGatewayTimeout, codePipelineTimeout, "search took too long"),
	}
	return s
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/api/v1/search", s.SearchActivities)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchActivities handles POST /api/v1/search.
func (s *Server) SearchActivities(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query is required")
		return
	}

	q := domain.NewQuery(req.Query, req.Language, req.IsSuggestion)

	resp, err := s.discovery.Discover(r.Context(), q)
	if err != nil {
		s.handlePipelineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handlePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("pipeline error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
