package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/httpapi/middleware"
	"github.com/hamed0406/sentinel/internal/repo"
)

// CheckRunner is the engine's manual-trigger surface: run one check now,
// outside the polling cadence.
type CheckRunner interface {
	CheckOne(ctx context.Context, t domain.Target) domain.Outcome
}

type Server struct {
	Logger   *zap.Logger
	Targets  repo.TargetStore
	Outcomes repo.OutcomeStore
	Runner   CheckRunner
	Keys     middleware.Keys
	RPM      int
	Burst    int
}

func NewServer(l *zap.Logger, ts repo.TargetStore, out repo.OutcomeStore, runner CheckRunner, keys middleware.Keys, rpm, burst int) *Server {
	if rpm <= 0 {
		rpm = 120
	}
	if burst <= 0 {
		burst = 30
	}
	return &Server{Logger: l, Targets: ts, Outcomes: out, Runner: runner, Keys: keys, RPM: rpm, Burst: burst}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(s.RPM, s.Burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAny(s.Keys))
		r.Get("/api/targets", s.handleListTargets)
		r.Get("/api/targets/{id}/outcomes", s.handleListOutcomes)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(s.Keys))
		r.Post("/api/targets", s.handleAddTarget)
		r.Post("/api/targets/{id}/check", s.handleCheckNow)
	})

	return r
}

type addPayload struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Address        string `json:"address"`
	ExpectedDigest string `json:"expected_digest"`
	ExpectedPorts  string `json:"expected_ports"`
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Address == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	kind, err := domain.ParseKind(p.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t := &domain.Target{
		Name:           p.Name,
		Kind:           kind,
		Address:        p.Address,
		ExpectedDigest: p.ExpectedDigest,
		ExpectedPorts:  p.ExpectedPorts,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Targets.Add(r.Context(), t); err != nil {
		http.Error(w, "could not add", http.StatusInternalServerError)
		return
	}

	// Run a single check synchronously for immediate feedback.
	out := s.Runner.CheckOne(r.Context(), *t)

	s.Logger.Info("added_target",
		zap.String("address", t.Address),
		zap.String("kind", string(t.Kind)),
		zap.String("status", string(out.Status)),
	)

	writeJSON(w, map[string]any{"target": t, "outcome": out})
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Targets.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ts)
}

func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	out := s.Runner.CheckOne(r.Context(), *t)
	writeJSON(w, out)
}

func (s *Server) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookupTarget(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	outs, err := s.Outcomes.ListByTarget(r.Context(), t.ID, limit)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, outs)
}

func (s *Server) lookupTarget(w http.ResponseWriter, r *http.Request) (*domain.Target, bool) {
	id := domain.TargetID(chi.URLParam(r, "id"))
	t, err := s.Targets.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "lookup error", http.StatusInternalServerError)
		return nil, false
	}
	if t == nil {
		http.Error(w, "target not found", http.StatusNotFound)
		return nil, false
	}
	return t, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
