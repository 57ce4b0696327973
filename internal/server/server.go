package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/a11y-checker/internal/accessibility"
	"github.com/jonathan/a11y-checker/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds request bodies when Config leaves it unset.
const DefaultMaxBodyBytes int64 = 2 << 20

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	handler      http.Handler
	engine       *accessibility.Engine
	rateLimiter  *ratelimit.Limiter
	logger       *slog.Logger
	maxBodyBytes int64
}

// Config holds server configuration
type Config struct {
	Port          int
	MaxBodyBytes  int64
	DisabledRules []string
	RateLimit     *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
	Logger        *slog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	for _, category := range cfg.DisabledRules {
		if !accessibility.IsKnownCategory(category) {
			return nil, fmt.Errorf("unknown rule %q", category)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	rateLimit := cfg.RateLimit
	if rateLimit == nil {
		rateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		engine:       accessibility.NewEngine().Without(cfg.DisabledRules...),
		rateLimiter:  ratelimit.NewLimiter(rateLimit),
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/accessibility/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/accessibility/rules", s.handleRules)
	mux.HandleFunc("GET /up", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	s.handler = s.withRateLimit(s.withRequestID(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is canceled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID propagates X-Request-ID, generating one when absent
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// withLogging logs each request and records request metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		recordRequest(routeLabel(r), rec.status, elapsed.Seconds())
		s.requestLogger(r).Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
			"remote", r.RemoteAddr,
		)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// routeLabel keeps metric cardinality bounded to registered patterns.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" || r.Pattern == "/" {
		return "unmatched"
	}
	return r.Pattern
}

// requestLogger returns the server logger tagged with the request ID.
func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests envelope.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, clientID string, info ratelimit.Info) {
	data := map[string]any{
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		data["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		// Round up so clients never retry early
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		data["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	rateLimitedTotal.Inc()
	s.logger.Warn("rate limit exceeded",
		"client", clientID,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", info.Limit,
	)

	s.envelopeResponse(w, http.StatusTooManyRequests, "Too many requests. Please try again later.", data)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", "error", err)
	}
}
