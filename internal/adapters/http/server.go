// Package http exposes hosted worlds over a small JSON API: input events,
// ticks, blackboard inspection and persistence, plus an SSE event stream.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/onclick"
	"github.com/aretw0/onclick/internal/logging"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/session"
	"github.com/aretw0/onclick/pkg/world"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the worlds registered in a session.Manager.
type Server struct {
	manager  *session.Manager
	events   *Events
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithEvents enables GET /events. The same Events must be wired into the
// apps as lifecycle hooks.
func WithEvents(events *Events) Option {
	return func(s *Server) {
		s.events = events
	}
}

// WithGatherer enables GET /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(manager *session.Manager, opts ...Option) http.Handler {
	s := &Server{manager: manager, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.health)
	r.Get("/info", s.info)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.events != nil {
		r.Get("/events", s.subscribe)
	}

	r.Route("/worlds", func(r chi.Router) {
		r.Get("/", s.listWorlds)
		r.Route("/{world}", func(r chi.Router) {
			r.Get("/objects", s.listObjects)
			r.Post("/objects/{id}/{interaction}", s.interact)
			r.Post("/tick", s.tick)
			r.Get("/vars", s.vars)
			r.Post("/save", s.save)
			r.Post("/load", s.load)
		})
	})
	return r
}

// ObjectView is the JSON shape of one object.
type ObjectView struct {
	ID          string   `json:"id"`
	Interaction string   `json:"interaction,omitempty"`
	Disabled    bool     `json:"disabled"`
	Queue       []string `json:"queue,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "onclick-http",
		"version": onclick.Version,
	})
}

func (s *Server) listWorlds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.Worlds())
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request) {
	var views []ObjectView
	err := s.manager.Do(r.Context(), chi.URLParam(r, "world"), func(_ context.Context, h session.Host) error {
		wd := h.World()
		views = make([]ObjectView, 0, wd.Len())
		for _, id := range wd.Objects() {
			v := ObjectView{ID: id.String(), Disabled: wd.IsDisabled(id)}
			if state, ok := wd.InteractionOf(id); ok {
				v.Interaction = string(state)
			}
			if q, ok := world.Get[action.OnClick](wd, id); ok {
				for _, k := range q.Kinds() {
					v.Queue = append(v.Queue, string(k))
				}
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) interact(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid object id: %v", err), http.StatusBadRequest)
		return
	}
	var state domain.Interaction
	switch chi.URLParam(r, "interaction") {
	case "press":
		state = domain.InteractionPressed
	case "hover":
		state = domain.InteractionHovered
	case "release":
		state = domain.InteractionNone
	default:
		http.Error(w, "unknown interaction", http.StatusNotFound)
		return
	}

	err = s.manager.Do(r.Context(), chi.URLParam(r, "world"), func(_ context.Context, h session.Host) error {
		if state == domain.InteractionPressed {
			return h.World().Press(id)
		}
		return h.World().SetInteraction(id, state)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Tick(r.Context(), chi.URLParam(r, "world")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) vars(w http.ResponseWriter, r *http.Request) {
	var snapshot map[string]any
	err := s.manager.Do(r.Context(), chi.URLParam(r, "world"), func(_ context.Context, h session.Host) error {
		snapshot = world.VarsOf(h.World()).Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Save(r.Context(), chi.URLParam(r, "world")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Load(r.Context(), chi.URLParam(r, "world")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// subscribe handles GET /events (SSE).
func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.events.Subscribe(r.Context())

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrWorldNotFound),
		errors.Is(err, domain.ErrObjectNotFound),
		errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	default:
		var slotErr *domain.SlotError
		if errors.As(err, &slotErr) {
			status = http.StatusUnprocessableEntity
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
