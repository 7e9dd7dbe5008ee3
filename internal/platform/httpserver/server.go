package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	taskservice "zodchiy/contexts/site-operations/task-service"
	taskhttp "zodchiy/contexts/site-operations/task-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "zodchiy/internal/platform/httpserver/docs"
)

type Options struct {
	Addr          string
	Version       string
	AllowedOrigin string
	// Health reports storage readiness. Nil means always healthy.
	Health func(ctx context.Context) error
}

type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	addr    string
	options Options
	tasks   taskservice.Module
}

func New(
	tasks taskservice.Module,
	options Options,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Addr == "" {
		options.Addr = ":8080"
	}
	if options.AllowedOrigin == "" {
		options.AllowedOrigin = "*"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    options.Addr,
		options: options,
		tasks:   tasks,
	}
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/health", s.cors(s.handleHealth))
	s.mux.HandleFunc("OPTIONS /api/", s.cors(func(http.ResponseWriter, *http.Request) {}))

	s.mux.HandleFunc("GET /api/tasks", s.cors(s.handleListTasks))
	s.mux.HandleFunc("POST /api/tasks", s.cors(s.handleCreateTask))
	s.mux.HandleFunc("GET /api/tasks/{task_id}", s.cors(s.handleGetTask))
	s.mux.HandleFunc("PATCH /api/tasks/{task_id}/status", s.cors(s.handleUpdateTaskStatus))
	s.mux.HandleFunc("GET /api/tasks/{task_id}/evidence", s.cors(s.handleListEvidence))
	s.mux.HandleFunc("POST /api/tasks/{task_id}/evidence", s.cors(s.handleAddEvidence))
}

func (s *Server) cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.options.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id, X-User-Role")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

// handleHealth godoc
// @Summary Service health
// @Tags platform
// @Produce json
// @Success 200 {object} taskhttp.HealthResponse
// @Failure 503 {object} taskhttp.HealthResponse
// @Router /api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := taskhttp.HealthResponse{Status: "active", Version: s.options.Version}
	if s.options.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.options.Health(ctx); err != nil {
			s.logger.Warn("health check failed",
				"event", "http_health_check_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			resp.Status = "degraded"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func headerValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.Header.Get(name))
}
