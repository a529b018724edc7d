package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

type fakePrices struct {
	candles map[string][]domain.Candle
	err     error
}

func (f *fakePrices) History(_ context.Context, ticker string, _ int) ([]domain.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[ticker], nil
}

type fakeFunds struct {
	funds    domain.Fundamentals
	earnings *int
	calls    int
}

func (f *fakeFunds) Fundamentals(_ context.Context, _ string) (domain.Fundamentals, error) {
	f.calls++
	return f.funds, nil
}

func (f *fakeFunds) EarningsInDays(_ context.Context, _ string) (*int, error) {
	return f.earnings, nil
}

func TestAnalyzeFetchFailureIsNotZombie(t *testing.T) {
	a := NewAnalyzer(&fakePrices{err: errors.New("network down")}, &fakeFunds{}, zerolog.Nop())

	rec := a.Analyze(context.Background(), "bbai", nil, domain.DefaultThresholds())

	if rec.Ticker != "BBAI" {
		t.Errorf("ticker = %q, want BBAI", rec.Ticker)
	}
	if !rec.IsViable {
		t.Error("fetch failure must not mark the ticker as zombie")
	}
	if rec.Price != nil {
		t.Errorf("price = %v, want nil", *rec.Price)
	}
	if rec.Trend != domain.TrendNA || rec.Stage != domain.StageNA || rec.Momentum != domain.MomentumNA {
		t.Errorf("classifications should be n/a, got trend=%v stage=%v momentum=%v", rec.Trend, rec.Stage, rec.Momentum)
	}
	if rec.WaveZone != domain.WaveNone {
		t.Errorf("wave zone = %v, want none", rec.WaveZone)
	}
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	a := NewAnalyzer(&fakePrices{}, &fakeFunds{}, zerolog.Nop())

	rec := a.Analyze(context.Background(), "SOUN", nil, domain.DefaultThresholds())
	if !rec.IsViable || rec.Price != nil {
		t.Errorf("empty history: viable=%v price=%v, want true/nil", rec.IsViable, rec.Price)
	}
}

func TestAnalyzeZombieGate(t *testing.T) {
	// Penny stock: price 0.20, 52w high 0.40, thin volume.
	candles := flat(250, 0.20)
	for i := range candles {
		candles[i].Volume = 10_000
	}
	a := NewAnalyzer(&fakePrices{candles: map[string][]domain.Candle{"ZMB": candles}}, &fakeFunds{}, zerolog.Nop())

	rec := a.Analyze(context.Background(), "ZMB", nil, domain.DefaultThresholds())
	if rec.IsViable {
		t.Error("degenerate listing should be flagged as zombie")
	}
	if rec.QualityNote == "" {
		t.Error("zombie flag should carry a quality note")
	}
	// A zombie is still fully analyzed.
	if rec.Price == nil || rec.Trend == domain.TrendNA {
		t.Error("zombie records should still carry analysis data")
	}
}

func TestAnalyzeHealthyTicker(t *testing.T) {
	days := 7
	funds := &fakeFunds{
		funds:    domain.Fundamentals{RevenueGrowthPct: fp(25)},
		earnings: &days,
	}
	a := NewAnalyzer(&fakePrices{candles: map[string][]domain.Candle{"TSLA": flat(250, 100)}}, funds, zerolog.Nop())

	rec := a.Analyze(context.Background(), "TSLA", fp(80), domain.DefaultThresholds())

	if rec.Price == nil || *rec.Price != 100 {
		t.Fatalf("price = %v, want 100", deref(rec.Price))
	}
	if !rec.IsViable {
		t.Errorf("healthy ticker flagged as zombie: %s", rec.QualityNote)
	}
	if rec.MA50 == nil || rec.MA200 == nil {
		t.Error("250 days of history should fill both MAs")
	}
	if rec.Stage != domain.StageNearHigh {
		t.Errorf("flat series stage = %v, want near_high", rec.Stage)
	}
	if rec.Fundamentals.RevenueGrowthPct == nil || *rec.Fundamentals.RevenueGrowthPct != 25 {
		t.Error("fundamentals not carried into the record")
	}
	if rec.EarningsInDays == nil || *rec.EarningsInDays != 7 {
		t.Errorf("earnings offset = %v, want 7", rec.EarningsInDays)
	}
	// +25% vs the pinned reference is below the +30 run threshold.
	if rec.RefStatus != domain.MomentumNeutral {
		t.Errorf("ref status = %v, want neutral", rec.RefStatus)
	}
}
