package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/motion"
	"github.com/aretw0/motion/internal/logging"
	"github.com/aretw0/motion/pkg/domain"
	"github.com/aretw0/motion/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the preview API of a session engine.
type Server struct {
	Engine   ports.SessionEngine
	spec     *openapi3.T
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer sets the registry exposed at /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.SessionEngine, opts ...Option) (http.Handler, error) {
	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	server := &Server{
		Engine:   engine,
		spec:     doc,
		logger:   logging.NewNop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Get("/{id}", server.withSessionID(server.GetFrame))
		r.Delete("/{id}", server.withSessionID(server.CloseSession))
		r.Post("/{id}/visibility", server.withSessionID(server.OpenVisibility))
		r.Put("/{id}/visible", server.withSessionID(server.SetVisible))
		r.Post("/{id}/content", server.withSessionID(server.OpenContent))
		r.Put("/{id}/target", server.withSessionID(server.SetTarget))
		r.Get("/{id}/events", server.withSessionID(server.SubscribeEvents))
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Motion API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type sessionHandler func(w http.ResponseWriter, r *http.Request, sessionID string)

// withSessionID binds the {id} path parameter.
func (s *Server) withSessionID(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &sessionID,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
			return
		}
		next(w, r, sessionID)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "motion-http",
		"version":     strings.TrimSpace(motion.Version),
		"api_version": apiVersion,
	})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetFrame handles the GET /sessions/{id} request.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request, sessionID string) {
	frame, err := s.Engine.Frame(r.Context(), sessionID)
	if err != nil {
		s.fail(w, "GetFrame", err)
		return
	}
	s.writeJSON(w, http.StatusOK, frame)
}

// CloseSession handles the DELETE /sessions/{id} request.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.Engine.Close(r.Context(), sessionID); err != nil {
		s.fail(w, "CloseSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenVisibility handles the POST /sessions/{id}/visibility request.
func (s *Server) OpenVisibility(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body ports.VisibilityRequest
	if !s.readBody(w, r, "VisibilityRequest", &body) {
		return
	}
	frame, err := s.Engine.OpenVisibility(r.Context(), sessionID, body)
	if err != nil {
		s.fail(w, "OpenVisibility", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, frame)
}

// SetVisibleRequest is the body of PUT /sessions/{id}/visible.
type SetVisibleRequest struct {
	Visible bool   `json:"visible"`
	Enter   string `json:"enter,omitempty"`
	Exit    string `json:"exit,omitempty"`
}

// SetVisible handles the PUT /sessions/{id}/visible request.
func (s *Server) SetVisible(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body SetVisibleRequest
	if !s.readBody(w, r, "SetVisibleRequest", &body) {
		return
	}
	frame, err := s.Engine.SetVisible(r.Context(), sessionID, body.Visible, body.Enter, body.Exit)
	if err != nil {
		s.fail(w, "SetVisible", err)
		return
	}
	s.writeJSON(w, http.StatusOK, frame)
}

// OpenContent handles the POST /sessions/{id}/content request.
func (s *Server) OpenContent(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body ports.ContentRequest
	if !s.readBody(w, r, "ContentRequest", &body) {
		return
	}
	frame, err := s.Engine.OpenContent(r.Context(), sessionID, body)
	if err != nil {
		s.fail(w, "OpenContent", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, frame)
}

// SetTargetRequest is the body of PUT /sessions/{id}/target.
type SetTargetRequest struct {
	Target string `json:"target"`
	Enter  string `json:"enter,omitempty"`
	Exit   string `json:"exit,omitempty"`
}

// SetTarget handles the PUT /sessions/{id}/target request.
func (s *Server) SetTarget(w http.ResponseWriter, r *http.Request, sessionID string) {
	var body SetTargetRequest
	if !s.readBody(w, r, "SetTargetRequest", &body) {
		return
	}
	frame, err := s.Engine.SetTarget(r.Context(), sessionID, body.Target, body.Enter, body.Exit)
	if err != nil {
		s.fail(w, "SetTarget", err)
		return
	}
	s.writeJSON(w, http.StatusOK, frame)
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	var watch string
	if err := runtime.BindQueryParameter("form", true, false, "watch", r.URL.Query(), &watch); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter watch: %w", err))
		return
	}
	var watchList []string
	if watch != "" {
		for _, field := range strings.Split(watch, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	diffs, err := s.Engine.Watch(r.Context(), sessionID)
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}
	s.logger.Info("SSE: subscribing to session", "session_id", sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case diff, ok := <-diffs:
			if !ok {
				fmt.Fprintf(w, "event: closed\ndata: %s\n\n", sessionID)
				flusher.Flush()
				return
			}
			if !matchesWatch(diff, watchList) {
				continue
			}
			payload, err := json.Marshal(diff)
			if err != nil {
				s.logger.Error("SSE: diff encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

// matchesWatch reports whether diff touches any watched part. An empty
// list watches everything.
func matchesWatch(diff domain.FrameDiff, watchList []string) bool {
	if len(watchList) == 0 {
		return true
	}
	for _, field := range watchList {
		switch field {
		case "container":
			if diff.Container != nil {
				return true
			}
		case "changed":
			if len(diff.Changed) > 0 {
				return true
			}
		case "removed":
			if len(diff.Removed) > 0 {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, schema string, dest any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := decodeBody(s.spec, schema, body, dest); err != nil {
		s.logger.Warn("request body rejected", "schema", schema, "err", err)
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists), errors.Is(err, domain.ErrSessionKind):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownTransition),
		errors.Is(err, domain.ErrUnknownSpec),
		errors.Is(err, domain.ErrInvalidSessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "err", err)
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
