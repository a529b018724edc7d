package analysis

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

// IndexSource provides daily closes for the broad-market reference index.
type IndexSource interface {
	IndexHistory(ctx context.Context, days int) ([]domain.Candle, error)
}

// Macro computes the broad-market context at most once per process and
// hands the same snapshot to every caller. Safe for concurrent use.
type Macro struct {
	source IndexSource
	log    zerolog.Logger

	once sync.Once
	ctx  domain.MacroContext
}

func NewMacro(source IndexSource, log zerolog.Logger) *Macro {
	return &Macro{
		source: source,
		log:    log.With().Str("component", "macro").Logger(),
	}
}

// Context returns the cached market snapshot, fetching it on first call.
// A failed fetch pins the regime to unknown for the rest of the process.
func (m *Macro) Context(ctx context.Context) domain.MacroContext {
	m.once.Do(func() {
		m.ctx = m.compute(ctx)
	})
	return m.ctx
}

func (m *Macro) compute(ctx context.Context) domain.MacroContext {
	candles, err := m.source.IndexHistory(ctx, historyDays)
	if err != nil || len(candles) == 0 {
		m.log.Warn().Err(err).Msg("index history unavailable, regime unknown")
		return domain.MacroContext{Regime: domain.RegimeUnknown}
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	price := closes[len(closes)-1]
	high, _ := HighLow(closes)
	dd := (price - *high) / *high * 100
	chg20 := ChangeSince(closes, 20)

	var regime domain.Regime
	switch {
	case dd <= -30:
		regime = domain.RegimeCrash
	case dd <= -20:
		regime = domain.RegimeCorrection
	case dd >= -5:
		regime = domain.RegimeBull
	default:
		regime = domain.RegimeNormal
	}

	m.log.Info().
		Float64("drawdown_pct", dd).
		Str("regime", string(regime)).
		Msg("market regime computed")

	return domain.MacroContext{
		IndexPrice: &price,
		Drawdown:   &dd,
		Change20d:  chg20,
		Regime:     regime,
	}
}
