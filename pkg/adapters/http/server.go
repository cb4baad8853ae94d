package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// Engine defines the flow operations served over HTTP.
type Engine interface {
	Run(ctx context.Context, sessionID string, vars map[string]string) (*canopy.Result, error)
	Validate(ctx context.Context) error
	Inspect(ctx context.Context) (*actor.Description, error)
}

// SessionStore exposes persisted root scopes.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*domain.ScopeSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server serves an Engine.
type Server struct {
	Engine   Engine
	Sessions SessionStore
	Streams  *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables the /sessions endpoints.
func WithSessions(store SessionStore) Option {
	return func(s *Server) {
		s.Sessions = store
	}
}

// WithGatherer serves the given registry on /metrics.
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

// RunRequest is the body of POST /run.
type RunRequest struct {
	SessionID string            `json:"session_id,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// ValidateResponse is returned by POST /validate.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/flow", server.GetFlow)
	r.Post("/validate", server.Validate)
	r.Post("/run", server.Run)
	r.Get("/events", server.SubscribeEvents)

	if server.Sessions != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", server.ListSessions)
			r.Get("/{id}", server.GetSession)
			r.Delete("/{id}", server.DeleteSession)
		})
	}
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}
	return r
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

// Run handles the POST /run request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Run: invalid request body", "err", err)
		return
	}

	if err := sanitizeVariables(body.Variables); err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("Run: input rejected", "err", err)
		return
	}

	res, err := s.Engine.Run(r.Context(), body.SessionID, body.Variables)
	if err != nil {
		status := http.StatusInternalServerError
		var structure *domain.StructureError
		if errors.As(err, &structure) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Run error: %v", err), status)
		s.logger.Error("Run failed", "session_id", body.SessionID, "err", err)
		return
	}

	if body.SessionID != "" {
		if data, err := json.Marshal(res); err == nil {
			s.Streams.Broadcast(body.SessionID, string(data))
		}
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	err := s.Engine.Validate(r.Context())
	if err == nil {
		s.writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
		return
	}

	var structure *domain.StructureError
	if !errors.As(err, &structure) {
		http.Error(w, fmt.Sprintf("Validate error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Validate failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Errors: errorList(err)})
}

// GetFlow handles the GET /flow request.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	desc, err := s.Engine.Inspect(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Inspect error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Inspect failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, desc)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List sessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Load session failed", "session_id", id, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Delete session failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "canopy-http",
		"version": strings.TrimSpace(canopy.Version),
	})
}

// SubscribeEvents handles GET /events?session_id=... (SSE), streaming the
// result of every run of the session.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// errorList flattens joined errors into their messages.
func errorList(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, errorList(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
