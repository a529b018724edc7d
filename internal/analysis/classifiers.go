package analysis

import "agiradar/internal/domain"

// ClassifyTrend orders price against its 50d and 200d moving averages.
// Any missing input degrades to TrendNA.
func ClassifyTrend(price, ma50, ma200 *float64) domain.Trend {
	if price == nil || ma50 == nil || ma200 == nil {
		return domain.TrendNA
	}
	switch {
	case *price > *ma50 && *ma50 > *ma200:
		return domain.TrendUp
	case *price < *ma50 && *ma50 < *ma200:
		return domain.TrendDown
	default:
		return domain.TrendSideways
	}
}

// ClassifyStage places price inside its 52-week range. It returns the
// stage together with the drawdown (percent, <= 0 near the high) and the
// range position in [0, 1]. Zone boundaries are inclusive: a drawdown of
// exactly -30 is a strong correction, exactly -60 a crash zone.
func ClassifyStage(price, high52, low52 *float64) (domain.Stage, *float64, *float64) {
	if price == nil || high52 == nil || low52 == nil || *high52 <= 0 {
		return domain.StageNA, nil, nil
	}
	dd := (*price - *high52) / *high52 * 100

	var pos float64
	if *high52 != *low52 {
		pos = (*price - *low52) / (*high52 - *low52)
	}

	var stage domain.Stage
	switch {
	case dd <= -60:
		stage = domain.StageCrash
	case dd <= -30:
		stage = domain.StageCorrection
	default:
		stage = domain.StageNearHigh
	}
	return stage, &dd, &pos
}

// ClassifyMomentum buckets a percentage change against the run-up/dip
// thresholds. A nil change degrades to MomentumNA.
func ClassifyMomentum(changePct *float64, th domain.Thresholds) domain.Momentum {
	if changePct == nil {
		return domain.MomentumNA
	}
	switch {
	case *changePct >= th.RunUpPct:
		return domain.MomentumRun
	case *changePct <= th.DipPct:
		return domain.MomentumDip
	default:
		return domain.MomentumNeutral
	}
}

// RefStatus classifies price against a manually pinned reference price
// using the same thresholds as 20-day momentum.
func RefStatus(price *float64, refPrice *float64, th domain.Thresholds) (domain.Momentum, *float64) {
	if price == nil || refPrice == nil || *refPrice <= 0 {
		return domain.MomentumNA, nil
	}
	chg := (*price - *refPrice) / *refPrice * 100
	return ClassifyMomentum(&chg, th), &chg
}
