// Package scan scores the whole universe and persists daily snapshots.
package scan

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agiradar/internal/analysis"
	"agiradar/internal/domain"
	"agiradar/internal/scoring"
	"agiradar/internal/settings"
	"agiradar/internal/universe"
)

// Radar buckets by score.
const (
	BucketBuyZone   = "buy_zone"
	BucketWatchlist = "watchlist"
	BucketObserve   = "observe"
)

// Score floors for the buckets.
const (
	buyZoneSTS   = 65.0
	buyZoneLAS   = 60.0
	watchlistSTS = 50.0
	watchlistLAS = 50.0
)

// RadarRow is one scored universe entry.
type RadarRow struct {
	Entry      universe.Entry        `json:"entry"`
	Record     domain.AnalysisRecord `json:"record"`
	STS        float64               `json:"sts"`
	LAS        float64               `json:"las"`
	Bucket     string                `json:"bucket"`
	IsReversal bool                  `json:"is_reversal"`
}

// Service runs the universe radar.
type Service struct {
	universe *universe.Repository
	settings *settings.Repository
	analyzer *analysis.Analyzer
	scorer   *scoring.Scorer
	macro    *analysis.Macro
	log      zerolog.Logger
}

func NewService(
	universeRepo *universe.Repository,
	settingsRepo *settings.Repository,
	analyzer *analysis.Analyzer,
	scorer *scoring.Scorer,
	macro *analysis.Macro,
	log zerolog.Logger,
) *Service {
	return &Service{
		universe: universeRepo,
		settings: settingsRepo,
		analyzer: analyzer,
		scorer:   scorer,
		macro:    macro,
		log:      log.With().Str("component", "scan").Logger(),
	}
}

// Radar analyzes and scores every universe entry, ranked by STS
// descending. Zombie listings are scored (0, 0) and left off the radar.
func (s *Service) Radar(ctx context.Context) ([]RadarRow, error) {
	entries, err := s.universe.All()
	if err != nil {
		return nil, err
	}
	th, err := s.settings.Thresholds()
	if err != nil {
		return nil, err
	}
	macro := s.macro.Context(ctx)

	var rows []RadarRow
	for _, entry := range entries {
		rec := s.analyzer.Analyze(ctx, entry.Ticker, entry.ReferencePrice, th)
		if !rec.IsViable {
			s.log.Debug().Str("ticker", entry.Ticker).Str("note", rec.QualityNote).Msg("skipping zombie listing")
			continue
		}
		score := s.scorer.Score(rec, macro, th)
		rows = append(rows, RadarRow{
			Entry:      entry,
			Record:     rec,
			STS:        score.STS,
			LAS:        score.LAS,
			Bucket:     bucketFor(score),
			IsReversal: isReversal(rec),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].STS > rows[j].STS
	})
	return rows, nil
}

// BuyList returns the top of the radar for the monthly buy decision.
func (s *Service) BuyList(ctx context.Context, limit int) ([]RadarRow, error) {
	rows, err := s.Radar(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Run executes a full scan and persists one snapshot per radar row under
// a fresh scan id. Returns the scan id and row count.
func (s *Service) Run(ctx context.Context) (string, int, error) {
	rows, err := s.Radar(ctx)
	if err != nil {
		return "", 0, err
	}

	scanID := uuid.New().String()
	snapshots := make([]universe.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, universe.Snapshot{
			ScanID:     scanID,
			Ticker:     row.Entry.Ticker,
			STS:        row.STS,
			LAS:        row.LAS,
			Bucket:     row.Bucket,
			IsReversal: row.IsReversal,
		})
	}
	if err := s.universe.SaveSnapshots(snapshots); err != nil {
		return "", 0, err
	}

	s.log.Info().Str("scan_id", scanID).Int("entries", len(rows)).Msg("universe scan completed")
	return scanID, len(rows), nil
}

func bucketFor(score scoring.DualScore) string {
	switch {
	case score.STS >= buyZoneSTS || score.LAS >= buyZoneLAS:
		return BucketBuyZone
	case score.STS >= watchlistSTS || score.LAS >= watchlistLAS:
		return BucketWatchlist
	default:
		return BucketObserve
	}
}

// isReversal flags deeply discounted tickers that are either in a strong
// correction or already back at a wave re-entry level.
func isReversal(rec domain.AnalysisRecord) bool {
	if rec.Drawdown52 == nil || *rec.Drawdown52 > -30 {
		return false
	}
	return rec.Stage == domain.StageCorrection || rec.WaveZone == domain.WaveReentry
}
