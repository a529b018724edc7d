package analysis

import "fmt"

// fallbackMultiples produce the fixed ladder when no usable wave anchors
// exist or the anchored range is degenerate.
var fallbackMultiples = [4]float64{1.3, 1.5, 1.7, 2.0}

// DeriveTargets builds exactly four strictly ascending sell targets from
// the buy price, anchored on the wave take-profit and re-entry levels when
// both are usable. Targets are full precision; rounding is a display
// concern and would break monotonicity for sub-cent prices.
func DeriveTargets(buyPrice float64, tpLevel, reentryLevel *float64) []float64 {
	if buyPrice <= 0 {
		return nil
	}
	if tpLevel == nil && reentryLevel == nil {
		return multiples(buyPrice)
	}

	start := buyPrice
	if reentryLevel != nil && *reentryLevel != 0 {
		if anchored := *reentryLevel * 1.05; anchored > start {
			start = anchored
		}
	}
	var end *float64
	if tpLevel != nil && *tpLevel > 0 {
		e := *tpLevel * 0.98
		end = &e
	}
	if end == nil || *end <= start*1.05 {
		return multiples(buyPrice)
	}

	step := (*end - start) / 4
	targets := make([]float64, 4)
	for i := range targets {
		targets[i] = start + step*float64(i+1)
	}
	return targets
}

func multiples(buyPrice float64) []float64 {
	targets := make([]float64, 4)
	for i, m := range fallbackMultiples {
		targets[i] = buyPrice * m
	}
	return targets
}

// LadderStatus describes where price sits on a target ladder.
type LadderStatus struct {
	Reached int      `json:"reached"`
	Label   string   `json:"label"`
	Next    *float64 `json:"next_target,omitempty"`
}

// PositionStatus counts the targets price has reached and names the next one.
func PositionStatus(price float64, targets []float64) LadderStatus {
	reached := 0
	for _, t := range targets {
		if price >= t {
			reached++
		}
	}
	switch {
	case len(targets) == 0:
		return LadderStatus{Label: "no targets"}
	case reached == 0:
		return LadderStatus{Label: "below target 1", Next: &targets[0]}
	case reached == len(targets):
		return LadderStatus{Reached: reached, Label: fmt.Sprintf("above target %d", reached)}
	default:
		return LadderStatus{
			Reached: reached,
			Label:   fmt.Sprintf("target %d reached", reached),
			Next:    &targets[reached],
		}
	}
}

// PLPct is the unrealized profit/loss percentage against the buy price.
func PLPct(price, buyPrice float64) *float64 {
	if buyPrice <= 0 {
		return nil
	}
	pl := (price - buyPrice) / buyPrice * 100
	return &pl
}
