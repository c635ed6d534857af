// Package http exposes the engine as a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/graph"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/report"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/environment"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// MaxSeedBytes bounds the request body of POST /runs.
const MaxSeedBytes = 64 << 10

// Engine is the part of the engine the server drives.
type Engine interface {
	Run(ctx context.Context, seed string) *domain.RunResult
	Workflow() domain.Workflow
}

// Server serves the run API.
type Server struct {
	engine   Engine
	store    ports.RunStore
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithRunStore enables the run history endpoints.
func WithRunStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithGatherer mounts /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

type runRequest struct {
	Seed string `json:"seed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		logger:  slog.New(slog.DiscardHandler),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	r.Get("/workflow", s.getWorkflow)
	r.Get("/workflow/graph", s.getGraph)

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.createRun)
		r.Get("/", s.listRuns)
		r.Get("/{id}", s.getRun)
		r.Get("/{id}/report", s.getReport)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":      "agendev-http",
		"version":  s.version,
		"workflow": s.engine.Workflow().Name,
	})
}

func (s *Server) getWorkflow(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Workflow())
}

func (s *Server) getGraph(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.engine.Workflow(), nil)))
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxSeedBytes)).Decode(&body); err != nil {
		s.logger.Warn("create run: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seed, err := environment.SanitizeSeed(body.Seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := s.engine.Run(r.Context(), seed)
	s.logger.Info("run finished", "run_id", res.ID, "status", res.Status,
		"request_id", middleware.GetReqID(r.Context()))

	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented, "run history is not configured")
		return
	}
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list runs failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*domain.RunResult, bool) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented, "run history is not configured")
		return nil, false
	}
	id := chi.URLParam(r, "id")
	res, err := s.store.Load(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrRunNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	case err != nil:
		s.logger.Error("load run failed", "run_id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return res, true
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.loadRun(w, r); ok {
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	all := r.URL.Query().Get("all") == "true"
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(report.Markdown(res, all)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
