package scoring

import (
	"math"
	"strings"

	"agiradar/internal/domain"
)

// DualScore carries both scores for one ticker. STS ranks short-term
// swing-trade attractiveness, LAS long-horizon accumulation. Both live in
// [0, 100] at one decimal.
type DualScore struct {
	STS float64 `json:"sts"`
	LAS float64 `json:"las"`
}

// Scorer applies the configured dual-score policy to analysis records.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes both scores. Zombie listings and tickers without a
// tradeable price score exactly (0, 0).
func (s *Scorer) Score(rec domain.AnalysisRecord, macro domain.MacroContext, th domain.Thresholds) DualScore {
	if !rec.IsViable || rec.Price == nil || *rec.Price <= 0 {
		return DualScore{}
	}
	return DualScore{
		STS: round1(clamp(s.shortTerm(rec, macro, th), 0, 100)),
		LAS: round1(clamp(s.longTerm(rec, macro, th), 0, 100)),
	}
}

func (s *Scorer) shortTerm(rec domain.AnalysisRecord, macro domain.MacroContext, th domain.Thresholds) float64 {
	w := s.cfg.STS
	price := *rec.Price
	score := 0.0

	// Discount to the 52-week high is the main edge; trading above the
	// high costs a little.
	if dd := rec.Drawdown52; dd != nil {
		if *dd >= 0 {
			score -= clamp(*dd, 0, w.DrawdownPenaltyCap) / w.DrawdownPenaltyCap * w.DrawdownPenaltyMax
		} else {
			score += math.Abs(clamp(*dd, -w.DrawdownBonusCap, 0)) / w.DrawdownBonusCap * w.DrawdownBonusMax
		}
	}

	// 20-day momentum, scaled against twice the run-up/dip thresholds.
	if chg := rec.Change20d; chg != nil {
		if *chg >= 0 {
			maxUp := th.RunUpPct * 2
			score -= clamp(*chg, 0, maxUp) / maxUp * w.MomentumPenaltyMax
		} else {
			maxDip := th.DipPct * 2
			score += math.Abs(clamp(*chg, maxDip, 0)) / math.Abs(maxDip) * w.MomentumBonusMax
		}
	}

	switch rec.WaveZone {
	case domain.WaveReentry:
		score += w.ReentryZoneBonus
	case domain.WaveTakeProfit:
		score -= w.TPZonePenalty
	}

	// Distance to the re-entry level: below it is prime, slightly above
	// still earns a sliver.
	if rec.ReentryLevel != nil && *rec.ReentryLevel != 0 {
		dist := (price - *rec.ReentryLevel) / *rec.ReentryLevel * 100
		if dist <= 0 {
			score += math.Abs(clamp(dist, -w.ReentryDistBonusCap, 0)) / w.ReentryDistBonusCap * w.ReentryDistBonusMax
		} else if dist <= w.ReentryNearBand {
			score += (w.ReentryNearBand - dist) / w.ReentryNearBand * w.ReentryNearBonusMax
		}
	}

	// Closing in on the take-profit level leaves little room to run.
	if rec.TPLevel != nil && *rec.TPLevel != 0 {
		distTP := (price - *rec.TPLevel) / *rec.TPLevel * 100
		if distTP >= w.TPDistFloor {
			span := w.TPDistCeil - w.TPDistFloor
			score -= (clamp(distTP, w.TPDistFloor, w.TPDistCeil) - w.TPDistFloor) / span * w.TPDistPenaltyMax
		}
	}

	switch rec.Trend {
	case domain.TrendUp:
		score += w.TrendBonus
	case domain.TrendDown:
		score -= w.TrendPenalty
	}

	// Volatility is the fuel for swing trades.
	if rec.AvgRangePct != nil {
		ar := math.Max(0, *rec.AvgRangePct-w.VolatilityBase)
		score += clamp(ar/w.VolatilitySpan*w.VolatilityBonusMax, 0, w.VolatilityBonusMax)
	}

	if rg := rec.Fundamentals.RevenueGrowthPct; rg != nil {
		score += clamp(*rg, w.RevenueGrowthLo, w.RevenueGrowthHi) / w.RevenueGrowthHi * w.RevenueGrowthMax
	}
	if nm := rec.Fundamentals.NetMarginPct; nm != nil {
		score += clamp(*nm, -w.NetMarginCap, w.NetMarginCap) / w.NetMarginCap * w.NetMarginMax
	}
	if dta := rec.Fundamentals.DebtToAssets; dta != nil {
		score -= clamp(*dta, 0, w.DebtCap) / w.DebtCap * w.DebtPenaltyMax
	}

	// Earnings are a coin flip; stand back the closer they are.
	if d := rec.EarningsInDays; d != nil {
		switch {
		case *d >= -2 && *d <= 2:
			score -= w.EarningsImminentPenalty
		case *d >= -7 && *d <= 7:
			score -= w.EarningsNearPenalty
		case *d > 7 && *d <= 21:
			score -= w.EarningsSoonPenalty
		}
	}

	score += s.cfg.BonusSTS[strings.ToUpper(rec.Ticker)]

	switch macro.Regime {
	case domain.RegimeCrash:
		score -= w.MacroCrashPenalty
	case domain.RegimeCorrection:
		score -= w.MacroCorrectionPenalty
	case domain.RegimeBull:
		score += w.MacroBullBonus
	}

	return score
}

func (s *Scorer) longTerm(rec domain.AnalysisRecord, macro domain.MacroContext, th domain.Thresholds) float64 {
	w := s.cfg.LAS
	price := *rec.Price
	score := 0.0

	if dd := rec.Drawdown52; dd != nil {
		if *dd >= 0 {
			score -= clamp(*dd, 0, w.DrawdownPenaltyCap) / w.DrawdownPenaltyCap * w.DrawdownPenaltyMax
		} else {
			score += math.Abs(clamp(*dd, -w.DrawdownBonusCap, 0)) / w.DrawdownBonusCap * w.DrawdownBonusMax
		}
	}

	if chg := rec.Change20d; chg != nil {
		if *chg >= 0 {
			maxUp := th.RunUpPct * 2
			score -= clamp(*chg, 0, maxUp) / maxUp * w.MomentumPenaltyMax
		} else {
			maxDip := th.DipPct * 2
			score += math.Abs(clamp(*chg, maxDip, 0)) / math.Abs(maxDip) * w.MomentumBonusMax
		}
	}

	if rec.WaveZone == domain.WaveReentry {
		score += w.ReentryZoneBonus
	}

	if rec.ReentryLevel != nil && *rec.ReentryLevel != 0 {
		dist := (price - *rec.ReentryLevel) / *rec.ReentryLevel * 100
		if dist <= w.ReentryDistHi {
			span := w.ReentryDistHi - w.ReentryDistLo
			score += (w.ReentryDistHi - clamp(dist, w.ReentryDistLo, w.ReentryDistHi)) / span * w.ReentryDistBonusMax
		}
	}

	if rec.AvgRangePct != nil && *rec.AvgRangePct >= w.VolatilityMinRange {
		score += w.VolatilityBonus
	}

	// Fundamentals carry more weight on the long horizon.
	if rg := rec.Fundamentals.RevenueGrowthPct; rg != nil {
		score += clamp(*rg, w.RevenueGrowthLo, w.RevenueGrowthHi) / w.RevenueGrowthHi * w.RevenueGrowthMax
	}
	if nm := rec.Fundamentals.NetMarginPct; nm != nil {
		score += clamp(*nm, -w.NetMarginCap, w.NetMarginCap) / w.NetMarginCap * w.NetMarginMax
	}
	if dta := rec.Fundamentals.DebtToAssets; dta != nil {
		score -= clamp(*dta, 0, w.DebtCap) / w.DebtCap * w.DebtPenaltyMax
	}

	score += s.cfg.BonusLAS[strings.ToUpper(rec.Ticker)]

	// Broad-market stress is a discount window for accumulation, not a
	// reason to stand aside.
	switch macro.Regime {
	case domain.RegimeCrash:
		score += w.MacroCrashBonus
	case domain.RegimeCorrection:
		score += w.MacroCorrectionBonus
	case domain.RegimeBull:
		score -= w.MacroBullPenalty
	}

	return score
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
