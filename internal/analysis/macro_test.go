package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

type fakeIndex struct {
	mu     sync.Mutex
	closes []float64
	err    error
	calls  int
}

func (f *fakeIndex) IndexHistory(_ context.Context, _ int) ([]domain.Candle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	candles := make([]domain.Candle, len(f.closes))
	for i, c := range f.closes {
		candles[i].Close = c
	}
	return candles, nil
}

func indexSeries(high, last float64) []float64 {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = last
	}
	closes[0] = high
	return closes
}

func TestMacroRegimes(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   domain.Regime
	}{
		{"bull at the high", indexSeries(100, 100), domain.RegimeBull},
		{"bull within 5%", indexSeries(100, 95), domain.RegimeBull},
		{"normal at -10%", indexSeries(100, 90), domain.RegimeNormal},
		{"correction at -20%", indexSeries(100, 80), domain.RegimeCorrection},
		{"crash at -30%", indexSeries(100, 70), domain.RegimeCrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMacro(&fakeIndex{closes: tt.closes}, zerolog.Nop())
			ctx := m.Context(context.Background())
			if ctx.Regime != tt.want {
				t.Errorf("regime = %v, want %v", ctx.Regime, tt.want)
			}
			if ctx.IndexPrice == nil || ctx.Drawdown == nil {
				t.Error("successful fetch should fill price and drawdown")
			}
		})
	}
}

func TestMacroFetchFailure(t *testing.T) {
	m := NewMacro(&fakeIndex{err: errors.New("down")}, zerolog.Nop())
	ctx := m.Context(context.Background())
	if ctx.Regime != domain.RegimeUnknown {
		t.Errorf("regime = %v, want unknown", ctx.Regime)
	}
	if ctx.IndexPrice != nil || ctx.Drawdown != nil || ctx.Change20d != nil {
		t.Error("failed fetch should leave all numerics nil")
	}
}

func TestMacroComputesOnce(t *testing.T) {
	src := &fakeIndex{closes: indexSeries(100, 95)}
	m := NewMacro(src, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Context(context.Background())
		}()
	}
	wg.Wait()

	if src.calls != 1 {
		t.Errorf("index fetched %d times, want exactly once", src.calls)
	}
}
