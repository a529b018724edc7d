// Package decision turns a ticker analysis plus position state into one
// of five portfolio actions. Rules are evaluated in order, first match
// wins; HOLD is the fallthrough.
package decision

import (
	"fmt"

	"agiradar/internal/domain"
)

// Input is everything the decider looks at for one held position.
type Input struct {
	Record      domain.AnalysisRecord
	TotalShares float64
	PLPct       *float64
	Targets     []float64
	Reached     int // ladder targets already at or below price
}

// Decide recommends an action for a held position.
func Decide(in Input) domain.Decision {
	rec := in.Record
	d := domain.Decision{Ticker: rec.Ticker, Action: domain.ActionHold}

	if in.TotalShares <= 0 || rec.Price == nil || in.PLPct == nil {
		d.Reason = "no data or no shares"
		return d
	}
	pl := *in.PLPct

	takeProfit := rec.WaveZone == domain.WaveTakeProfit
	reentry := rec.WaveZone == domain.WaveReentry
	run := rec.Momentum == domain.MomentumRun
	dip := rec.Momentum == domain.MomentumDip
	crash := rec.Stage == domain.StageCrash
	correction := rec.Stage == domain.StageCorrection
	bear := rec.Trend == domain.TrendDown
	bull := rec.Trend == domain.TrendUp

	// Capital protection beats everything else.
	if pl < -45 && bear && (crash || correction) {
		d.Action = domain.ActionSellAll
		d.Reason = "strong downtrend and more than 45% underwater, protect capital and re-enter later"
		return d
	}

	// Ladder selling on strength.
	if takeProfit || (run && pl > 30) {
		if len(in.Targets) > 0 && in.Reached < 4 && pl > 20 {
			rung := in.Reached + 1
			d.Action = domain.ActionSell20
			d.Reason = fmt.Sprintf("ladder rung %d reached (price above target %d), sell 20%% to lock in gains", rung, rung)
			return d
		}
		if in.Reached >= 4 && pl > 0 {
			d.Reason = "all 4 targets reached, let the 20% core run until a clear sell signal"
			return d
		}
	}

	// Re-entry zones are buy opportunities when the trend cooperates.
	if reentry {
		if crash && !bear {
			d.Action = domain.ActionBuy40
			d.Reason = "re-entry in crash zone with a stabilizing trend, rebound setup, add 40%"
			return d
		}
		if correction || dip || bull {
			d.Action = domain.ActionBuy20
			d.Reason = "wave re-entry zone after a correction, scale in with a 20% add"
			return d
		}
	}

	// Strong run without a wave signal still deserves a trim.
	if run && pl > 60 && !takeProfit {
		d.Action = domain.ActionSell20
		d.Reason = "very strong run with a large gain, trim 20% to cut risk"
		return d
	}

	// Deep drawdown without a confirmed downtrend.
	if pl < -30 && (crash || correction) && !bear {
		d.Action = domain.ActionBuy20
		d.Reason = "large paper loss in crash/correction but trend not deep red, cautious 20% add"
		return d
	}

	d.Reason = "no clear signal"
	return d
}
