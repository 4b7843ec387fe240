// Package api exposes the ops HTTP surface: a health check and task queue
// statistics. The bot itself does not speak HTTP; this is for operators and
// probes.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skirmish-bot/skirmish/internal/task"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server holds the handlers behind the ops routes.
type Server struct {
	db     Pinger
	tasks  task.TaskStore
	logger *slog.Logger
}

// NewServer creates a Server. If logger is nil, the default logger is used.
func NewServer(db Pinger, tasks task.TaskStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		db:     db,
		tasks:  tasks,
		logger: logger.With(slog.String("component", "ops_api")),
	}
}

// Router assembles the chi router for the ops surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tasks/stats", s.handleTaskStats)
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.Any("error", err))
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type taskStatsResponse struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Error     int `json:"error"`
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.tasks.CountByState(r.Context())
	if err != nil {
		s.logger.Error("failed to count tasks", slog.Any("error", err))
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to count tasks",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, taskStatsResponse{
		Pending:   counts[task.StatePending],
		Completed: counts[task.StateCompleted],
		Error:     counts[task.StateError],
	})
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
