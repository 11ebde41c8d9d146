package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
)

// requestIDHeader carries the per-request correlation id in both directions
const requestIDHeader = "X-Request-ID"

// multipartOverhead is the slack allowed on top of the document limit for form framing
const multipartOverhead = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	parser         *parsing.Parser
	client         llm.Client
	apiKey         string
	maxUploadBytes int64
	rateLimiter    *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port             int
	APIKey           string
	LLM              *llm.Config
	Retry            llm.RetryPolicy
	MaxUploadBytes   int64
	BinaryTypes      []string
	DisableRateLimit bool
}

// New creates a new server instance. A missing API key is not fatal:
// the server starts and every parse request fails with a configuration error.
func New(cfg Config) (*Server, error) {
	client, err := llm.NewClient(context.Background(), cfg.LLM, cfg.APIKey)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		logging.Logger.Warn().Msg("GEMINI_API_KEY is not set; parse requests will fail")
		client = nil
	case err != nil:
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	default:
		client = llm.WithRetry(client, cfg.Retry)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient creates a server around an existing LLM client. client may be nil.
func NewWithClient(cfg Config, client llm.Client) *Server {
	loader := parsing.NewLoader(cfg.MaxUploadBytes, cfg.BinaryTypes)

	s := &Server{
		parser:         parsing.NewParser(client, loader),
		client:         client,
		apiKey:         cfg.APIKey,
		maxUploadBytes: loader.MaxBytes(),
	}

	if cfg.DisableRateLimit {
		s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	} else {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse", s.handleParseText)
	mux.HandleFunc("POST /api/parse-pdf", s.handleParseDocument)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.handler = s.withLogging(s.withCORS(s.withRateLimit(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // one LLM call per request
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	logging.Logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	logging.Logger.Info().Msg("server stopped")
	return nil
}

// Close releases the rate limiter and the LLM client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logging.Logger.Warn().Err(err).Msg("failed to close LLM client")
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging attaches a request-scoped logger with a request id and logs completion
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := logging.Logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		r = r.WithContext(logging.WithContext(r.Context(), logger))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request completed")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger.Error().Err(err).Msg("error encoding JSON response")
	}
}

// extractClientID returns the caller's IP from RemoteAddr.
// X-Forwarded-For is ignored because no proxy is trusted.
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
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if info.RetryAfter > 0 && retryAfter == 0 {
		retryAfter = 1
	}
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	logging.Ctx(r.Context()).Warn().
		Str("client", s.extractClientID(r)).
		Int("limit", info.Limit).
		Int("retry_after", retryAfter).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "Rate limit exceeded. Please try again later.",
		"retry_after": retryAfter,
	})
}
