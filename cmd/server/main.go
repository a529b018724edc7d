package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agiradar/internal/analysis"
	"agiradar/internal/config"
	"agiradar/internal/database"
	"agiradar/internal/journal"
	"agiradar/internal/ladder"
	"agiradar/internal/marketdata"
	"agiradar/internal/portfolio"
	"agiradar/internal/scan"
	"agiradar/internal/scheduler"
	"agiradar/internal/scoring"
	"agiradar/internal/server"
	"agiradar/internal/settings"
	"agiradar/internal/universe"
	"agiradar/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting agiradar")

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Repositories
	journalRepo := journal.NewRepository(db.Conn(), log)
	universeRepo := universe.NewRepository(db.Conn(), log)
	settingsRepo := settings.NewRepository(db.Conn(), log)
	progressRepo := ladder.NewProgressRepository(db.Conn(), log)

	// Market data and analysis
	client := marketdata.NewClient(log)
	client.SetIndexSymbol(cfg.IndexSymbol)
	fundCache := marketdata.NewFundamentalsCache(client)
	analyzer := analysis.NewAnalyzer(client, fundCache, log)
	macro := analysis.NewMacro(client, log)
	scorer := scoring.NewScorer(scoring.DefaultConfig())

	// Services
	portfolioSvc := portfolio.NewService(journalRepo, universeRepo, settingsRepo, progressRepo, analyzer, log)
	scanSvc := scan.NewService(universeRepo, settingsRepo, analyzer, scorer, macro, log)

	// Scheduler
	sched := scheduler.New(log)
	if cfg.ScanSchedule != "" {
		if err := sched.AddJob(cfg.ScanSchedule, scan.NewJob(scanSvc)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register scan job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Log:       log,
		DB:        db,
		Portfolio: portfolioSvc,
		Scan:      scanSvc,
		Journal:   journalRepo,
		Universe:  universeRepo,
		Settings:  settingsRepo,
		Progress:  progressRepo,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
