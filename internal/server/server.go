// Package server provides the HTTP API for hotelrag.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/config"
	"github.com/hyperjump/hotelrag/internal/interactions"
	"github.com/hyperjump/hotelrag/internal/keyword"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/pipeline"
	"github.com/hyperjump/hotelrag/internal/vector"
)

// Server is the HTTP server for the hotelrag API.
type Server struct {
	pipeline    *pipeline.Pipeline
	log         interactions.Log
	keywords    *keyword.CorpusIndex
	docs        []models.Document
	vectorIndex vector.VectorIndex
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies. keywords may be nil, which
// disables corpus search.
func NewServer(
	p *pipeline.Pipeline,
	log interactions.Log,
	keywords *keyword.CorpusIndex,
	docs []models.Document,
	vectorIndex vector.VectorIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		pipeline:    p,
		log:         log,
		keywords:    keywords,
		docs:        docs,
		vectorIndex: vectorIndex,
		config:      cfg,
		logger:      logger,
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout()))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/interactions", s.handleInteractions)
		r.Get("/corpus/search", s.handleCorpusSearch)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// requestTimeout leaves room for a generation call that runs to its own timeout.
func (s *Server) requestTimeout() time.Duration {
	secs := 60
	if s.config != nil && s.config.Generation.TimeoutSecs > 0 {
		secs = s.config.Generation.TimeoutSecs + 30
	}
	return time.Duration(secs) * time.Second
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
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
