// Package api serves chunking, chunk lookup and background ingest over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docchunk.
type Server struct {
	router chi.Router
	store  storage.Store
	runner *pipeline.Runner
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. runner may be nil, in
// which case ingest endpoints answer 503.
func NewServer(store storage.Store, runner *pipeline.Runner, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:  store,
		runner: runner,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints. Auth is skipped when no key is configured.
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(s.cfg.Server.APIKey, s.log))

		r.Post("/api/chunk", s.handleChunk)

		r.Get("/api/chunks", s.handleListChunks)
		r.Get("/api/chunks/{chunkID}", s.handleGetChunk)
		r.Get("/api/stats", s.handleStats)

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}", s.handleIngestStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
