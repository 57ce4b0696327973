package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jonathan/a11y-checker/internal/types"
)

// Envelope wraps every API response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// handleAnalyze analyzes the markup in the request body
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAnalyzeRequest(w, r)
	if err != nil {
		s.failureResponse(w, r, err)
		return
	}

	start := time.Now()
	report := s.engine.Analyze(req.HTML)
	elapsed := time.Since(start)
	recordAnalysis(report, len(req.HTML), elapsed.Seconds())

	s.requestLogger(r).Info("analysis completed",
		"bytes", len(req.HTML),
		"score", report.ComplianceScore,
		"violations", report.ViolationCount(),
		"duration", elapsed,
	)

	s.envelopeResponse(w, http.StatusOK, "Accessibility analysis completed.", report)
}

// decodeAnalyzeRequest reads and validates the analyze request body.
func (s *Server) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (*types.AnalyzeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, &ErrPayloadTooLarge{Limit: maxBytesErr.Limit}
		}
		return nil, &ErrMalformedBody{Cause: err}
	}

	if err := req.Validate(); err != nil {
		return nil, validationErrors(err)[0]
	}

	return &req, nil
}

// handleRules lists the active rules
func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	s.envelopeResponse(w, http.StatusOK, "Accessibility rules retrieved.", s.engine.RuleInfos())
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleNotFound is the fallback for every unregistered route
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.envelopeResponse(w, http.StatusNotFound, "Specified endpoint not found.", []any{})
}

// envelopeResponse writes data wrapped in the standard envelope
func (s *Server) envelopeResponse(w http.ResponseWriter, status int, message string, data any) {
	s.jsonResponse(w, status, Envelope{
		StatusCode: status,
		Success:    status >= 200 && status < 300,
		Message:    message,
		Data:       data,
	})
}

// failureResponse maps an error to its status and writes an error envelope
func (s *Server) failureResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var (
		validationErr *ErrValidation
		malformedErr  *ErrMalformedBody
	)
	switch {
	case errors.As(err, &validationErr):
		s.envelopeResponse(w, status, "The given data was invalid.", map[string]string{
			validationErr.Field: validationErr.Message,
		})
	case errors.As(err, &malformedErr):
		s.envelopeResponse(w, status, "The given data was invalid.", map[string]string{
			"body": "The request body must be a JSON object.",
		})
	case status == http.StatusRequestEntityTooLarge:
		s.envelopeResponse(w, status, "The request body is too large.", []any{})
	default:
		s.requestLogger(r).Error("request failed", "error", err)
		s.envelopeResponse(w, status, "Internal server error.", []any{})
	}
}
