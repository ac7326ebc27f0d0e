// Package server provides the HTTP API for the colmatch sidecar.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/smartetl/colmatch/internal/config"
	"github.com/smartetl/colmatch/internal/embedding"
	"github.com/smartetl/colmatch/internal/fields"
	"github.com/smartetl/colmatch/internal/metrics"
	"github.com/smartetl/colmatch/internal/scoring"
	"github.com/smartetl/colmatch/internal/storage"
)

// ServiceName is reported in discovery and health responses.
const ServiceName = "colmatch"

// Server is the HTTP server for the scoring API.
type Server struct {
	scorer     *scoring.Service
	provider   *embedding.LazyEmbedder
	dictionary *fields.Dictionary
	audit      *storage.AuditStore
	collector  *metrics.Collector
	config     *config.ServerConfig
	version    string
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies. dictionary and
// audit may be nil (features disabled).
func NewServer(
	scorer *scoring.Service,
	provider *embedding.LazyEmbedder,
	dictionary *fields.Dictionary,
	audit *storage.AuditStore,
	collector *metrics.Collector,
	cfg *config.ServerConfig,
	version string,
	logger *zap.Logger,
) *Server {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Server{
		scorer:     scorer,
		provider:   provider,
		dictionary: dictionary,
		audit:      audit,
		collector:  collector,
		config:     cfg,
		version:    version,
		logger:     logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/statusz", s.handleStatus)
	r.Get("/fields", s.handleFields)
	r.Post("/similarity/headers", s.handleSimilarityHeaders)
	r.Post("/similarity/lexical", s.handleSimilarityLexical)
	r.Post("/headers/extract", s.handleExtractHeaders)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
