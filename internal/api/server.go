package api

import (
	"log/slog"
	"net/http"

	"github.com/docpin/docpin/internal/citation"
	"github.com/docpin/docpin/internal/config"
	"github.com/docpin/docpin/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docpin.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	resolver     *citation.Resolver
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, stats *citation.MatchStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		resolver: &citation.Resolver{
			Opts: citation.Options{
				Threshold:      cfg.CitationThreshold,
				ContextRadius:  cfg.DefaultContextRadius,
				MinMatchLength: cfg.MinMatchLength,
			},
			Stats: stats,
		},
		log: log,
		cfg: cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DocpinAPIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Post("/api/citations", s.handleCitations)
		r.Post("/api/citations/locate", s.handleLocate)
		r.Get("/api/search", s.handleSearch)
		r.Get("/api/stats/citations", s.handleCitationStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
