// Package server provides the HTTP API for the sanitization pipeline:
// sanitize, context, llm, output-filter, final, and the metadata log feed.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Pramodsai29/AegisAI/internal/llm"
	"github.com/Pramodsai29/AegisAI/internal/logring"
	"github.com/Pramodsai29/AegisAI/internal/otel"
	"github.com/Pramodsai29/AegisAI/internal/sanitizer"
)

const defaultTimeout = 90 * time.Second

// Server holds all dependencies for the HTTP API.
type Server struct {
	router      *chi.Mux
	engine      *sanitizer.Sanitizer
	llmClient   *llm.Client
	ring        *logring.Ring
	limiter     *RateLimiter
	corsOrigins []string
	startTime   time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLLMClient sets the chat client used by the /api/llm route.
func WithLLMClient(c *llm.Client) Option {
	return func(s *Server) { s.llmClient = c }
}

// WithCORSOrigins sets allowed CORS origins (e.g. ["*"] for development).
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithRateLimiter sets the per-client request rate limiter (optional).
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.limiter = rl }
}

// WithLogRing sets the metadata log ring. A default ring is created when
// unset.
func WithLogRing(r *logring.Ring) Option {
	return func(s *Server) { s.ring = r }
}

// NewServer builds a Server around the sanitization engine.
func NewServer(engine *sanitizer.Sanitizer, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		engine:    engine,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.llmClient == nil {
		s.llmClient = llm.NewClient(nil, "")
	}
	if s.ring == nil {
		s.ring = logring.New()
	}
	return s
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	r := s.router
	r.Use(RequestIDMiddleware())
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otel.Middleware())
	r.Use(CORSMiddleware(s.corsOrigins))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimitMiddleware(s.limiter))
		r.Use(middleware.Timeout(defaultTimeout))

		r.Post("/sanitize", s.handleSanitize)
		r.Post("/context", s.handleContext)
		r.Post("/llm", s.handleLLM)
		r.Post("/output-filter", s.handleOutputFilter)
		r.Post("/final", s.handleFinal)
		r.Get("/logs", s.handleLogs)
	})

	return r
}
