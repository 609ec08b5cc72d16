package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lifelineconnect/lifeline/engine/ask"
	"github.com/lifelineconnect/lifeline/engine/catalog"
	"github.com/lifelineconnect/lifeline/engine/domain"
	"github.com/lifelineconnect/lifeline/engine/filter"
	"github.com/lifelineconnect/lifeline/engine/location"
	"github.com/lifelineconnect/lifeline/pkg/metrics"
	"github.com/lifelineconnect/lifeline/pkg/mid"
)

const maxBodyBytes = 1 << 20

// server holds the process-wide state shared by all handlers.
type server struct {
	idx      *location.Index
	store    *catalog.Store
	composer *ask.Composer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// events receives every answered question; nil when NATS is off.
	events func(context.Context, ask.Event)
	now    func() time.Time
}

func newServer(idx *location.Index, store *catalog.Store, composer *ask.Composer, m *metrics.Metrics, logger *slog.Logger) *server {
	return &server{
		idx:      idx,
		store:    store,
		composer: composer,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /health", s.observe("/health", s.handleHealth))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /resources", s.observe("/resources/", s.handleResources))
	mux.Handle("GET /resources/{$}", s.observe("/resources/", s.handleResources))
	mux.Handle("POST /ask", s.observe("/ask", s.handleAsk))
	return mux
}

func (s *server) observe(route string, h http.HandlerFunc) http.Handler {
	return mid.Observe(route, s.metrics.ObserveRequest)(h)
}

type healthResponse struct {
	Status    string `json:"status"`
	Resources int    `json:"resources"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Resources: len(s.store.Resources())})
}

func (s *server) handleResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := domain.Criteria{City: q.Get("city"), Zip: q.Get("zip")}
	if v := q.Get("is_virtual"); v != "" {
		b, ok := parseVirtual(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "is_virtual must be true or false")
			return
		}
		c.Virtual = &b
	}

	rows := filter.Filter(s.store.Resources(), s.idx, c)
	s.metrics.ResultSize.WithLabelValues("resources").Observe(float64(len(rows)))
	writeJSON(w, http.StatusOK, rows)
}

// parseVirtual accepts "true" or "false" in any case.
func parseVirtual(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Response  string            `json:"response"`
	Resources []domain.Resource `json:"resources"`
}

func (s *server) handleAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	a := s.composer.Answer(ctx, req.Query)
	if !a.Empty {
		s.metrics.ObserveAsk(string(a.Topic), !a.Location.Empty(), a.Fallback, len(a.Resources))
		if s.events != nil {
			s.events(ctx, ask.NewEvent(mid.RequestIDFrom(ctx), req.Query, a, s.now()))
		}
	}
	writeJSON(w, http.StatusOK, askResponse{Response: a.Response, Resources: a.Resources})
}

// reload re-reads the catalog source. A failed reload keeps serving the
// previous snapshot.
func (s *server) reload(reason string) {
	snap, err := s.store.Reload()
	if err != nil {
		s.metrics.ObserveCatalog(0, 0, err)
		s.logger.Error("catalog reload failed", "reason", reason, "err", err)
		return
	}
	s.metrics.ObserveCatalog(len(snap.Resources), snap.Rejected, nil)
	s.logger.Info("catalog reloaded", "reason", reason, "resources", len(snap.Resources), "rejected", snap.Rejected)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
