package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pacerkit/pacer/pkg/ports"
)

// Server exposes read-only run introspection: health, metrics, and the
// latest snapshot per run. It never starts or mutates runs.
type Server struct {
	store  ports.StateStore
	logger *slog.Logger
}

// NewHandler builds the HTTP handler. The gatherer backs the /metrics
// endpoint; pass prometheus.DefaultGatherer unless tests need isolation.
func NewHandler(store ports.StateStore, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	s := &Server{store: store, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/runs", s.listRuns)
	r.Get("/runs/{id}", s.getRun)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list runs", "err", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": ids})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to load run", "run_id", id, "err", err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
