// Package server provides the web front end for Image Finder.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"imagefinder/internal/config"
	"imagefinder/internal/domain"
	"imagefinder/internal/imagestore"
)

// FinderPort is the server-facing subset of the finder service.
type FinderPort interface {
	StoreImage(fileName string, data []byte) (string, error)
	FindImage(query string) (domain.SearchMatch, error)
}

// Server is the HTTP server for the web UI and image delivery.
type Server struct {
	finder FinderPort
	images *imagestore.Store
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(finder FinderPort, images *imagestore.Store, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		finder: finder,
		images: images,
		config: cfg,
		logger: logger,
	}
}

// Router assembles the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/", s.handleIndex)
	r.Post("/api/v1/images", s.handleStoreImage)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/images/{name}", s.handleImage)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
