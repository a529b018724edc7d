package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"agiradar/internal/database"
	"agiradar/internal/journal"
	"agiradar/internal/ladder"
	"agiradar/internal/portfolio"
	"agiradar/internal/scan"
	"agiradar/internal/settings"
	"agiradar/internal/universe"
)

// Config holds server configuration
type Config struct {
	Port    int
	DevMode bool
	Log     zerolog.Logger

	DB        *database.DB
	Portfolio *portfolio.Service
	Scan      *scan.Service
	Journal   *journal.Repository
	Universe  *universe.Repository
	Settings  *settings.Repository
	Progress  *ladder.ProgressRepository
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	db        *database.DB
	portfolio *portfolio.Service
	scan      *scan.Service
	journal   *journal.Repository
	universe  *universe.Repository
	settings  *settings.Repository
	progress  *ladder.ProgressRepository

	startedAt time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		db:        cfg.DB,
		portfolio: cfg.Portfolio,
		scan:      cfg.Scan,
		journal:   cfg.Journal,
		universe:  cfg.Universe,
		settings:  cfg.Settings,
		progress:  cfg.Progress,
		startedAt: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Analysis endpoints fan out to the market-data API per ticker, so
	// the timeout is generous.
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.handlePortfolio)
			r.Get("/actions", s.handlePortfolioActions)
			r.Get("/ladder", s.handleLadderOverview)
			r.Get("/ladder/today", s.handleLadderToday)
			r.Post("/ladder/{ticker}/done", s.handleLadderDone)
		})

		r.Route("/universe", func(r chi.Router) {
			r.Get("/", s.handleRadar)
			r.Post("/", s.handleUniverseUpsert)
			r.Get("/buylist", s.handleBuyList)
			r.Post("/scan", s.handleScanNow)
			r.Delete("/{ticker}", s.handleUniverseDelete)
		})

		r.Route("/journal", func(r chi.Router) {
			r.Get("/", s.handleJournalList)
			r.Post("/", s.handleJournalAppend)
			r.Delete("/{id}", s.handleJournalDelete)
			r.Delete("/ticker/{ticker}", s.handleJournalDeleteTicker)
			r.Put("/targets/{ticker}", s.handleSetTargets)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/thresholds", s.handleGetThresholds)
			r.Put("/thresholds", s.handlePutThresholds)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
