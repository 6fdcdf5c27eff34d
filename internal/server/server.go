// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/workforce-intel/internal/config"
	"github.com/sells-group/workforce-intel/internal/report"
)

// GeneratorFactory builds the report generator for one request. It is called
// only after the request has been validated, so configuration errors surface
// as 500s rather than at startup.
type GeneratorFactory func(ctx context.Context) (*report.Generator, error)

// Server holds the HTTP configuration and its collaborators. It keeps no
// per-request state.
type Server struct {
	cfg          config.ServerConfig
	reference    time.Time
	newGenerator GeneratorFactory
	limiter      *rate.Limiter
	now          func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New returns a Server. reference is the frozen date ages are computed
// against when a request does not carry its own.
func New(cfg config.ServerConfig, reference time.Time, factory GeneratorFactory, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg,
		reference:    reference,
		newGenerator: factory,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     s.allowedOrigins(),
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		OptionsPassthrough: true,
		MaxAge:             300,
	}))
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(s.recoverPanics)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})

	r.Get("/health", handleHealth)
	r.Options("/api/analyze", handlePreflight)
	r.With(s.rateLimit).Post("/api/analyze", s.handleAnalyze)

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.cfg.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.AllowedOrigins
}
