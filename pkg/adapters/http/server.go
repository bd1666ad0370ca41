package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/internal/input"
	"github.com/aretw0/fsm/internal/logging"
	"github.com/aretw0/fsm/internal/presentation/graph"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a session manager over HTTP.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager

	logger   *slog.Logger
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry registers the server metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewServer wires the metrics and the stream manager around mgr.
func NewServer(mgr *session.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		Manager: mgr,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.ops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fsm_http_operations_total",
			Help: "Total number of session operations served over HTTP",
		},
		[]string{"op", "result"},
	)
	s.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fsm_http_operation_duration_seconds",
			Help:    "Duration of session operations served over HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	for _, c := range []prometheus.Collector{s.ops, s.duration} {
		if err := s.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return s, nil
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(mgr *session.Manager, opts ...Option) (http.Handler, error) {
	s, err := NewServer(mgr, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/states", s.GetStates)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/trigger/{event}", s.operate("trigger", func(r *http.Request, id string) (session.Result, error) {
				event, err := input.Sanitize(chi.URLParam(r, "event"))
				if err != nil {
					return session.Result{}, err
				}
				return s.Manager.Trigger(r.Context(), id, event)
			}))
			r.Post("/state/{state}", s.operate("change_state", func(r *http.Request, id string) (session.Result, error) {
				target, err := input.Sanitize(chi.URLParam(r, "state"))
				if err != nil {
					return session.Result{}, err
				}
				return s.Manager.ChangeState(r.Context(), id, target)
			}))
			r.Post("/undo", s.operate("undo", func(r *http.Request, id string) (session.Result, error) {
				return s.Manager.Undo(r.Context(), id)
			}))
			r.Post("/redo", s.operate("redo", func(r *http.Request, id string) (session.Result, error) {
				return s.Manager.Redo(r.Context(), id)
			}))
			r.Post("/reset", s.operate("reset", func(r *http.Request, id string) (session.Result, error) {
				return s.Manager.Reset(r.Context(), id)
			}))
			r.Post("/clear", s.operate("clear", func(r *http.Request, id string) (session.Result, error) {
				return s.Manager.ClearHistory(r.Context(), id)
			}))
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type operation func(r *http.Request, sessionID string) (session.Result, error)

// operate wraps a session operation with metrics, diff broadcasting and error mapping.
func (s *Server) operate(name string, op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sanitizeSessionID(chi.URLParam(r, "id"))
		if err != nil {
			s.ops.WithLabelValues(name, "error").Inc()
			s.writeError(w, name, err)
			return
		}
		start := time.Now()

		res, err := op(r, sessionID)
		s.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			s.ops.WithLabelValues(name, "error").Inc()
			s.writeError(w, name, err)
			return
		}

		result := "ok"
		if !res.Moved {
			result = "noop"
		}
		s.ops.WithLabelValues(name, result).Inc()

		if res.Diff != nil {
			s.logger.Debug("session changed", "op", name, "session_id", sessionID, "diff", res.Diff)
			if bytes, err := json.Marshal(res.Diff); err == nil {
				s.Streams.Publish(sessionID, streamEvent{Kind: eventDiff, Data: string(bytes)})
			}
		}

		s.writeJSON(w, http.StatusOK, res)
	}
}

// GetStates handles GET /states?event=.
func (s *Server) GetStates(w http.ResponseWriter, r *http.Request) {
	event, err := input.Sanitize(r.URL.Query().Get("event"))
	if err != nil {
		s.writeError(w, "states", err)
		return
	}

	// A throwaway machine answers the query; States never depends on the active state.
	mc, err := fsm.New(s.Manager.Config())
	if err != nil {
		s.writeError(w, "states", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"event":  event,
		"states": mc.States(event),
	})
}

// GetGraph handles GET /graph, optionally overlaying ?session=.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if raw := r.URL.Query().Get("session"); raw != "" {
		id, err := sanitizeSessionID(raw)
		if err != nil {
			s.writeError(w, "graph", err)
			return
		}
		snap, err := s.Manager.Store().Load(r.Context(), id)
		if err != nil {
			s.writeError(w, "graph", err)
			return
		}
		overlay = graph.OverlayFrom(snap)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Manager.Config(), overlay))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.writeError(w, "list", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sessions": ids})
}

// GetSession handles GET /sessions/{id}. Unlike the mutating routes it does not start
// a session that does not exist yet.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sanitizeSessionID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "get", err)
		return
	}
	snap, err := s.Manager.Store().Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "get", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sanitizeSessionID(chi.URLParam(r, "id"))
	if err != nil {
		s.ops.WithLabelValues("delete", "error").Inc()
		s.writeError(w, "delete", err)
		return
	}
	if err := s.Manager.Delete(r.Context(), id); err != nil {
		s.ops.WithLabelValues("delete", "error").Inc()
		s.writeError(w, "delete", err)
		return
	}
	s.ops.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "fsm-http",
		"version": strings.TrimSpace(fsm.Version),
		"initial": s.Manager.Config().Initial,
	})
}

// NotifyReload tells global event subscribers that the definition changed.
func (s *Server) NotifyReload(name string) {
	s.Streams.Publish(globalStream, streamEvent{Kind: eventReload, Data: name})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("operation failed", "op", op, "err", err)
	} else {
		s.logger.Warn("operation rejected", "op", op, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// errEmptySessionID rejects session IDs that are blank once sanitized.
var errEmptySessionID = errors.New("session id is empty")

// sanitizeSessionID applies the interactive input rules to a session ID.
func sanitizeSessionID(raw string) (string, error) {
	id, err := input.Sanitize(raw)
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	if id == "" {
		return "", errEmptySessionID
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownState), errors.Is(err, domain.ErrUnknownEvent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, input.ErrInputTooLarge), errors.Is(err, input.ErrInvalidUTF8),
		errors.Is(err, errEmptySessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
