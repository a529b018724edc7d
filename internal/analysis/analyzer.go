package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

const historyDays = 365

// Viability floor: anything under these is flagged as a zombie listing.
// The flag is advisory, records are still produced and served.
const (
	minViablePrice  = 0.50
	minViableHigh52 = 1.00
	minViableVolume = 100_000
)

// PriceSource provides daily OHLCV history for a ticker.
type PriceSource interface {
	History(ctx context.Context, ticker string, days int) ([]domain.Candle, error)
}

// FundamentalsSource provides coarse quote-level fundamentals and the
// offset to the next earnings date. Implementations are expected to cache
// per ticker; the analyzer calls them on every run.
type FundamentalsSource interface {
	Fundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error)
	EarningsInDays(ctx context.Context, ticker string) (*int, error)
}

// Analyzer turns raw market data into one AnalysisRecord per ticker.
type Analyzer struct {
	prices PriceSource
	funds  FundamentalsSource
	log    zerolog.Logger
}

func NewAnalyzer(prices PriceSource, funds FundamentalsSource, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		prices: prices,
		funds:  funds,
		log:    log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze builds the full classification snapshot for a ticker. A failed
// or empty price fetch is not an error: the record comes back with a nil
// price, every classification at its n/a variant, and IsViable still true.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, refPrice *float64, th domain.Thresholds) domain.AnalysisRecord {
	rec := domain.AnalysisRecord{
		Ticker:     strings.ToUpper(ticker),
		Trend:      domain.TrendNA,
		Stage:      domain.StageNA,
		Momentum:   domain.MomentumNA,
		WaveZone:   domain.WaveNone,
		RefStatus:  domain.MomentumNA,
		IsViable:   true,
		AnalyzedAt: time.Now().UTC(),
	}

	candles, err := a.prices.History(ctx, ticker, historyDays)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", rec.Ticker).Msg("price history fetch failed")
		return rec
	}
	if len(candles) == 0 {
		a.log.Debug().Str("ticker", rec.Ticker).Msg("no price history")
		return rec
	}

	closes := make([]float64, len(candles))
	volumes := make([]int64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	price := closes[len(closes)-1]
	rec.Price = &price
	rec.High52, rec.Low52 = HighLow(closes)

	rec.MA50 = MovingAverage(closes, 50)
	rec.MA200 = MovingAverage(closes, 200)
	rec.Trend = ClassifyTrend(rec.Price, rec.MA50, rec.MA200)
	rec.Stage, rec.Drawdown52, rec.RangePos52 = ClassifyStage(rec.Price, rec.High52, rec.Low52)

	rec.Change20d = ChangeSince(closes, 20)
	rec.Change3d = ChangeSince(closes, 3)
	rec.Momentum = ClassifyMomentum(rec.Change20d, th)

	wave := DetectWave(candles)
	rec.AvgRangePct = wave.AvgRangePct
	rec.Crossings = wave.Crossings
	rec.WaveUpPct, rec.WaveDownPct = WaveParams(wave.AvgRangePct)
	if wave.IsWave && rec.WaveUpPct != nil {
		state := WaveSignal(price, closes, *rec.WaveUpPct, *rec.WaveDownPct)
		rec.WaveZone = state.Zone
		rec.SwingLow = state.SwingLow
		rec.SwingHigh = state.SwingHigh
		rec.TPLevel = state.TPLevel
		rec.ReentryLevel = state.ReentryLevel
		rec.IsWave = state.Zone != domain.WaveNone
	}

	rec.AvgVolume20 = AvgVolume(volumes, 20)
	rec.IsViable, rec.QualityNote = checkViability(rec)

	if funds, err := a.funds.Fundamentals(ctx, ticker); err == nil {
		rec.Fundamentals = funds
	} else {
		a.log.Debug().Err(err).Str("ticker", rec.Ticker).Msg("fundamentals unavailable")
	}
	if days, err := a.funds.EarningsInDays(ctx, ticker); err == nil {
		rec.EarningsInDays = days
	}

	rec.RefStatus, rec.RefChangePct = RefStatus(rec.Price, refPrice, th)
	return rec
}

// checkViability applies the zombie gate. A fetch failure never makes a
// ticker a zombie; only a present-but-degenerate listing does.
func checkViability(rec domain.AnalysisRecord) (bool, string) {
	var reasons []string
	if rec.Price != nil && *rec.Price < minViablePrice {
		reasons = append(reasons, "price below 0.50")
	}
	if rec.High52 != nil && *rec.High52 < minViableHigh52 {
		reasons = append(reasons, "52w high below 1.00")
	}
	if rec.AvgVolume20 != nil && *rec.AvgVolume20 < minViableVolume {
		reasons = append(reasons, "avg volume below 100k/day")
	}
	if len(reasons) == 0 {
		return true, ""
	}
	return false, "zombie: " + strings.Join(reasons, ", ")
}
