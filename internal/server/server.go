// Package server provides the HTTP API for ragmill.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ragmill/ragmill/internal/config"
	"github.com/ragmill/ragmill/internal/modelserver"
	"github.com/ragmill/ragmill/internal/rag"
	"go.uber.org/zap"
)

// Server is the HTTP server for the ragmill API.
type Server struct {
	service *rag.Service
	models  *modelserver.Client
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. models may be
// nil when no model server is configured; the models endpoint then
// responds 501.
func NewServer(svc *rag.Service, models *modelserver.Client, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		service: svc,
		models:  models,
		config:  cfg,
		logger:  logger,
	}
}

// Handler returns the API routes with the full middleware stack. Exposed
// so the server can be mounted in tests or in a larger mux.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/documents", s.handleUploadDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Delete("/api/v1/documents", s.handleClearDocuments)
	r.Post("/api/v1/retrieve", s.handleRetrieve)
	r.Get("/api/v1/models", s.handleListModels)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
