package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/iiifsearch/internal/config"
	"github.com/dgallion1/iiifsearch/internal/search"
	"github.com/dgallion1/iiifsearch/internal/stats"
	"github.com/dgallion1/iiifsearch/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for IIIF content search.
type Server struct {
	router chi.Router
	engine *search.Engine
	store  store.Store
	stats  *stats.SearchStats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(engine *search.Engine, st store.Store, searchStats *stats.SearchStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine: engine,
		store:  st,
		stats:  searchStats,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Accept", "Authorization"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/iiif/{docID}/search", s.handleSearch)

	// Operational endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats/search", s.handleSearchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
