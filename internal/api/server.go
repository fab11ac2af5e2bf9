package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finlens/finlens/internal/config"
	"github.com/finlens/finlens/internal/insight"
	"github.com/finlens/finlens/internal/store"
)

// Server is the HTTP API around the analysis core.
type Server struct {
	router   chi.Router
	analyzer *insight.Analyzer
	store    *store.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(analyzer *insight.Analyzer, st *store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		analyzer: analyzer,
		store:    st,
		log:      log,
		cfg:      cfg,
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

	// Authenticated endpoints (auth is a no-op when no key is set).
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/upload", s.handleUpload)
		r.Post("/api/analyze", s.handleUploadAndAnalyze)
		r.Get("/api/analyze/{fileID}", s.handleAnalyze)
		r.Get("/api/summary/{fileID}", s.handleSummary)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{fileID}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
