// Package api declares the HTTP surface: route registration, request
// validation, and the JSON response envelope shared by every endpoint.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// Dependencies bundles what handlers need from the application service.
type Dependencies interface {
	AnalyzeOne(ctx context.Context, team model.Team) (model.ScoreRecord, error)
	Refresh(ctx context.Context) (model.RefreshSummary, error)
	Scores(ctx context.Context) ([]model.ScoreRecord, error)
	Commentary(ctx context.Context) ([]model.CommentaryEvent, error)
	LastRefresh() time.Time
}

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	deps          Dependencies
	refreshSecret string
	production    bool
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRefreshAuth enables the bearer check on /api/refresh. The check
// only applies in production mode.
func WithRefreshAuth(secret string, production bool) Option {
	return func(s *Server) {
		s.refreshSecret = secret
		s.production = production
	}
}

// NewServer creates an API server over the given dependencies.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with middleware and all routes attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.With(Metrics("analyze")).Post("/analyze", s.handleAnalyze)
		r.With(Metrics("refresh")).Get("/refresh", s.handleRefresh)
		r.With(Metrics("refresh")).Post("/refresh", s.handleRefresh)
		r.With(Metrics("leaderboard")).Get("/leaderboard", s.handleLeaderboard)
	})

	return r
}

// envelope is the uniform response shape: success plus either data or an
// error string with optional details.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, envelope{Success: false, Error: msg, Details: details})
}
