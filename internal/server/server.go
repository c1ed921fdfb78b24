// Package server provides the HTTP API for outline extraction and persona analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/config"
	"github.com/jonathan/docsight/internal/logger"
	"github.com/jonathan/docsight/internal/metrics"
	"github.com/jonathan/docsight/internal/server/middleware"
	"github.com/jonathan/docsight/internal/server/ratelimit"
	"github.com/jonathan/docsight/internal/types"
)

// defaultMaxUploadBytes bounds PDF bodies posted to /v1/outline.
const defaultMaxUploadBytes = 32 << 20

// Analyzer runs persona analyses.
type Analyzer interface {
	Analyze(ctx context.Context, req *types.AnalysisRequest, onProgress analysis.ProgressCallback) (*analysis.Result, error)
	EncoderName() string
}

// Outliner builds the outline of a single PDF.
type Outliner interface {
	ProcessFile(ctx context.Context, path string) (types.Outline, error)
}

// Recorder persists finished runs. It is optional.
type Recorder interface {
	RecordAnalysis(ctx context.Context, req *types.AnalysisRequest, result *analysis.Result) (uuid.UUID, error)
	RecordOutline(ctx context.Context, path string, outline *types.Outline, outlineErr error) (uuid.UUID, error)
}

// Config holds server configuration
type Config struct {
	Port     int
	Analyzer Analyzer
	Outliner Outliner
	Recorder Recorder          // nil disables persistence
	JWT      *config.JWTConfig // nil disables bearer auth
	// DocumentRoot confines document paths named in requests. Empty allows any path.
	DocumentRoot   string
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
	Logger         *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	analyzer   Analyzer
	outliner   Outliner
	recorder   Recorder
	validator  middleware.TokenValidator
	limiter    *ratelimit.Limiter
	docRoot    string
	maxUpload  int64
	logger     *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil || cfg.Outliner == nil {
		return nil, fmt.Errorf("server requires an analyzer and an outliner")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	s := &Server{
		analyzer:  cfg.Analyzer,
		outliner:  cfg.Outliner,
		recorder:  cfg.Recorder,
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		docRoot:   cfg.DocumentRoot,
		maxUpload: cfg.MaxUploadBytes,
		logger:    cfg.Logger,
	}
	if cfg.JWT != nil {
		s.validator = NewTokenValidator(cfg.JWT)
	}

	metrics.Register()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analyses of large collections are slow
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("POST /v1/analyze", s.protect(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /v1/outline", s.protect(http.HandlerFunc(s.handleOutline)))

	return s.withLogging(s.withRateLimit(s.withCORS(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer s.limiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// protect applies bearer auth when it is configured.
func (s *Server) protect(next http.Handler) http.Handler {
	if s.validator == nil {
		return next
	}
	return middleware.AuthMiddleware(s.validator)(next)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their per-route budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds()+0.5)))
			}
			s.logger.Warn("Rate limit exceeded",
				zap.String("client", clientID(r)),
				zap.String("path", r.URL.Path))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request and attaches a request-scoped logger to the context.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := s.logger.With(
			zap.String("request_id", uuid.NewString()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.ContextWithLogger(r.Context(), reqLogger)))

		reqLogger.Info("Request completed",
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// statusRecorder captures the response status. It forwards Flush so SSE keeps working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"encoder": s.analyzer.EncoderName(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
