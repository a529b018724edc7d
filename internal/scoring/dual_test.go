package scoring

import (
	"math"
	"testing"

	"agiradar/internal/domain"
)

func fp(v float64) *float64 { return &v }

func viableRecord(price float64) domain.AnalysisRecord {
	return domain.AnalysisRecord{
		Ticker:    "XYZ",
		Price:     &price,
		Trend:     domain.TrendSideways,
		Stage:     domain.StageNA,
		Momentum:  domain.MomentumNA,
		WaveZone:  domain.WaveNone,
		RefStatus: domain.MomentumNA,
		IsViable:  true,
	}
}

func score(rec domain.AnalysisRecord, macro domain.MacroContext) DualScore {
	return NewScorer(DefaultConfig()).Score(rec, macro, domain.DefaultThresholds())
}

func TestScoreZombieIsZero(t *testing.T) {
	rec := viableRecord(50)
	rec.IsViable = false
	if s := score(rec, domain.MacroContext{Regime: domain.RegimeNormal}); s.STS != 0 || s.LAS != 0 {
		t.Errorf("zombie score = %+v, want (0, 0)", s)
	}
}

func TestScoreMissingPriceIsZero(t *testing.T) {
	rec := viableRecord(50)
	rec.Price = nil
	if s := score(rec, domain.MacroContext{}); s.STS != 0 || s.LAS != 0 {
		t.Errorf("priceless score = %+v, want (0, 0)", s)
	}

	rec.Price = fp(0)
	if s := score(rec, domain.MacroContext{}); s.STS != 0 || s.LAS != 0 {
		t.Errorf("zero-price score = %+v, want (0, 0)", s)
	}
}

func TestScoreKnownValues(t *testing.T) {
	rec := viableRecord(50)
	rec.Drawdown52 = fp(-35)
	rec.Change20d = fp(-10)

	s := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})

	// STS: drawdown 35/70*20 = 10, dip 10/60*25 = 4.1667 -> 14.2
	if math.Abs(s.STS-14.2) > 1e-9 {
		t.Errorf("STS = %v, want 14.2", s.STS)
	}
	// LAS: drawdown 35/80*30 = 13.125, dip 10/60*15 = 2.5 -> 15.6
	if math.Abs(s.LAS-15.6) > 1e-9 {
		t.Errorf("LAS = %v, want 15.6", s.LAS)
	}
}

func TestScoreBounds(t *testing.T) {
	// Stack every bonus: deep discount, hard dip, re-entry zone at the
	// level, high volatility, strong fundamentals, conviction ticker.
	rec := viableRecord(10)
	rec.Ticker = "BBAI"
	rec.Drawdown52 = fp(-75)
	rec.Change20d = fp(-60)
	rec.WaveZone = domain.WaveReentry
	rec.ReentryLevel = fp(12)
	rec.Trend = domain.TrendUp
	rec.AvgRangePct = fp(12)
	rec.Fundamentals = domain.Fundamentals{
		RevenueGrowthPct: fp(90),
		NetMarginPct:     fp(40),
	}

	s := score(rec, domain.MacroContext{Regime: domain.RegimeCrash})
	if s.STS < 0 || s.STS > 100 || s.LAS < 0 || s.LAS > 100 {
		t.Errorf("score out of bounds: %+v", s)
	}
	if s.LAS < 90 {
		t.Errorf("stacked LAS = %v, expected near the cap", s.LAS)
	}

	// Stack every penalty: above the high, hard run, at the TP level,
	// imminent earnings, heavy debt, crash regime.
	rec = viableRecord(100)
	rec.Drawdown52 = fp(25)
	rec.Change20d = fp(80)
	rec.WaveZone = domain.WaveTakeProfit
	rec.TPLevel = fp(95)
	rec.Trend = domain.TrendDown
	rec.EarningsInDays = func() *int { d := 1; return &d }()
	rec.Fundamentals = domain.Fundamentals{DebtToAssets: fp(2)}

	s = score(rec, domain.MacroContext{Regime: domain.RegimeCrash})
	if s.STS != 0 {
		t.Errorf("stacked penalties STS = %v, want clamped to 0", s.STS)
	}
	if s.LAS < 0 || s.LAS > 100 {
		t.Errorf("LAS out of bounds: %v", s.LAS)
	}
}

func TestScoreMacroPullsOppositeDirections(t *testing.T) {
	rec := viableRecord(50)
	rec.Drawdown52 = fp(-40)

	normal := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})
	crash := score(rec, domain.MacroContext{Regime: domain.RegimeCrash})

	if crash.STS >= normal.STS {
		t.Errorf("crash STS %v should be below normal %v", crash.STS, normal.STS)
	}
	if crash.LAS <= normal.LAS {
		t.Errorf("crash LAS %v should be above normal %v", crash.LAS, normal.LAS)
	}
}

func TestScoreConvictionBonus(t *testing.T) {
	rec := viableRecord(50)
	rec.Drawdown52 = fp(-40)

	base := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})

	rec.Ticker = "BBAI"
	boosted := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})

	if math.Abs((boosted.STS-base.STS)-8) > 1e-9 {
		t.Errorf("BBAI STS bonus = %v, want 8", boosted.STS-base.STS)
	}
	if math.Abs((boosted.LAS-base.LAS)-30) > 1e-9 {
		t.Errorf("BBAI LAS bonus = %v, want 30", boosted.LAS-base.LAS)
	}
}

func TestScoreEarningsWindowPenalty(t *testing.T) {
	rec := viableRecord(50)
	rec.Drawdown52 = fp(-40)
	base := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})

	tests := []struct {
		days    int
		penalty float64
	}{
		{0, 10}, {2, 10}, {-2, 10},
		{5, 5}, {-5, 5},
		{14, 2},
		{30, 0},
	}
	for _, tt := range tests {
		d := tt.days
		rec.EarningsInDays = &d
		got := score(rec, domain.MacroContext{Regime: domain.RegimeNormal})
		if math.Abs((base.STS-got.STS)-tt.penalty) > 1e-9 {
			t.Errorf("days=%d: penalty = %v, want %v", tt.days, base.STS-got.STS, tt.penalty)
		}
	}
}
