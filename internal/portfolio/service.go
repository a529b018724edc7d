// Package portfolio composes the journal, analyzer, decider, and ladder
// engine into the views the dashboard serves.
package portfolio

import (
	"context"

	"github.com/rs/zerolog"

	"agiradar/internal/analysis"
	"agiradar/internal/decision"
	"agiradar/internal/domain"
	"agiradar/internal/journal"
	"agiradar/internal/ladder"
	"agiradar/internal/settings"
	"agiradar/internal/universe"
)

// Row is one position in the portfolio overview.
type Row struct {
	Ticker      string                `json:"ticker"`
	Shares      float64               `json:"shares"`
	AvgBuyPrice float64               `json:"avg_buy_price"`
	Price       *float64              `json:"price,omitempty"`
	PLPct       *float64              `json:"pl_pct,omitempty"`
	Invested    float64               `json:"invested"`
	Value       float64               `json:"value"`
	Trend       domain.Trend          `json:"trend"`
	IsWave      bool                  `json:"is_wave"`
	WaveZone    domain.WaveZone       `json:"wave_zone"`
	Targets     []float64             `json:"targets,omitempty"`
	Status      analysis.LadderStatus `json:"status"`
}

// Overview is the full portfolio view with aggregate totals.
type Overview struct {
	Rows          []Row   `json:"rows"`
	TotalInvested float64 `json:"total_invested"`
	TotalValue    float64 `json:"total_value"`
}

// Service rebuilds positions from the journal and enriches them with
// analysis on every call. Nothing derived is persisted.
type Service struct {
	journal  *journal.Repository
	universe *universe.Repository
	settings *settings.Repository
	progress *ladder.ProgressRepository
	analyzer *analysis.Analyzer
	log      zerolog.Logger
}

func NewService(
	journalRepo *journal.Repository,
	universeRepo *universe.Repository,
	settingsRepo *settings.Repository,
	progressRepo *ladder.ProgressRepository,
	analyzer *analysis.Analyzer,
	log zerolog.Logger,
) *Service {
	return &Service{
		journal:  journalRepo,
		universe: universeRepo,
		settings: settingsRepo,
		progress: progressRepo,
		analyzer: analyzer,
		log:      log.With().Str("component", "portfolio").Logger(),
	}
}

// Positions rebuilds the position list from the journal.
func (s *Service) Positions() ([]domain.Position, error) {
	trades, err := s.journal.All()
	if err != nil {
		return nil, err
	}
	targets, err := s.journal.AllTargets()
	if err != nil {
		return nil, err
	}
	return journal.Rebuild(trades, targets), nil
}

// Overview analyzes every held position and aggregates totals.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	positions, err := s.Positions()
	if err != nil {
		return Overview{}, err
	}
	th, err := s.settings.Thresholds()
	if err != nil {
		return Overview{}, err
	}

	var overview Overview
	for _, pos := range positions {
		rec := s.analyzer.Analyze(ctx, pos.Ticker, nil, th)
		row := s.buildRow(pos, rec)
		overview.Rows = append(overview.Rows, row)
		overview.TotalInvested += row.Invested
		overview.TotalValue += row.Value
	}
	return overview, nil
}

func (s *Service) buildRow(pos domain.Position, rec domain.AnalysisRecord) Row {
	row := Row{
		Ticker:      pos.Ticker,
		Shares:      pos.TotalShares,
		AvgBuyPrice: pos.AvgBuyPrice,
		Price:       rec.Price,
		Trend:       rec.Trend,
		IsWave:      rec.IsWave,
		WaveZone:    rec.WaveZone,
		Targets:     resolveTargets(pos, rec),
	}
	if rec.Price != nil {
		row.Value = pos.TotalShares * *rec.Price
		if pos.AvgBuyPrice > 0 {
			row.PLPct = analysis.PLPct(*rec.Price, pos.AvgBuyPrice)
		}
		row.Status = analysis.PositionStatus(*rec.Price, row.Targets)
	}
	if pos.AvgBuyPrice > 0 {
		row.Invested = pos.TotalShares * pos.AvgBuyPrice
	}
	return row
}

// resolveTargets prefers the explicit per-ticker override; otherwise the
// ladder is derived from the cost basis and the wave levels.
func resolveTargets(pos domain.Position, rec domain.AnalysisRecord) []float64 {
	if len(pos.Targets) > 0 {
		return pos.Targets
	}
	if pos.AvgBuyPrice <= 0 {
		return nil
	}
	return analysis.DeriveTargets(pos.AvgBuyPrice, rec.TPLevel, rec.ReentryLevel)
}

// Actions runs the decider over every position.
func (s *Service) Actions(ctx context.Context) ([]domain.Decision, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}
	th, err := s.settings.Thresholds()
	if err != nil {
		return nil, err
	}

	var decisions []domain.Decision
	for _, pos := range positions {
		rec := s.analyzer.Analyze(ctx, pos.Ticker, nil, th)
		row := s.buildRow(pos, rec)
		decisions = append(decisions, decision.Decide(decision.Input{
			Record:      rec,
			TotalShares: pos.TotalShares,
			PLPct:       row.PLPct,
			Targets:     row.Targets,
			Reached:     row.Status.Reached,
		}))
	}
	return decisions, nil
}

// LadderOverview is the aggregate untracked ladder view.
func (s *Service) LadderOverview(ctx context.Context) ([]ladder.Signal, error) {
	holdings, err := s.holdings(ctx)
	if err != nil {
		return nil, err
	}
	return ladder.AggregateSignals(holdings), nil
}

// LadderToday emits today's incremental ladder sells against the
// confirmed progress.
func (s *Service) LadderToday(ctx context.Context) ([]ladder.Signal, error) {
	holdings, err := s.holdings(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress.All()
	if err != nil {
		return nil, err
	}
	return ladder.DailySignals(holdings, progress), nil
}

func (s *Service) holdings(ctx context.Context) ([]ladder.Holding, error) {
	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}
	th, err := s.settings.Thresholds()
	if err != nil {
		return nil, err
	}
	exposures, err := s.universe.ExposureMap()
	if err != nil {
		return nil, err
	}

	var holdings []ladder.Holding
	for _, pos := range positions {
		if pos.TotalShares <= 0 {
			continue
		}
		rec := s.analyzer.Analyze(ctx, pos.Ticker, nil, th)
		var pl *float64
		if rec.Price != nil && pos.AvgBuyPrice > 0 {
			pl = analysis.PLPct(*rec.Price, pos.AvgBuyPrice)
		}
		holdings = append(holdings, ladder.Holding{
			Ticker:   pos.Ticker,
			Shares:   pos.TotalShares,
			PLPct:    pl,
			Exposure: exposures[pos.Ticker],
		})
	}
	return holdings, nil
}
