// Package ladder sells winners in six profit rungs, keeping a
// conviction-sized core untouched.
package ladder

import "strings"

// Rungs are the profit fractions at which one sixth of the ladder part
// of a position is released.
var Rungs = [6]float64{0.30, 0.50, 0.75, 1.00, 1.50, 2.00}

// CoreAndLadderPct splits a position by conviction exposure (1-10):
// 9-10 keeps a 20% core, 7-8 keeps 10%, anything lower ladders out fully.
func CoreAndLadderPct(exposure *int) (float64, float64) {
	if exposure == nil {
		return 0.0, 1.0
	}
	switch {
	case *exposure >= 9:
		return 0.20, 0.80
	case *exposure >= 7:
		return 0.10, 0.90
	default:
		return 0.0, 1.0
	}
}

func coreNote(corePct float64) string {
	switch {
	case corePct >= 0.19:
		return "keep 20% core (exposure 9-10)"
	case corePct >= 0.09:
		return "keep 10% core (exposure 7-8)"
	default:
		return "no core, ladder out the whole position"
	}
}

// Holding is one portfolio row as the ladder engine sees it.
type Holding struct {
	Ticker   string
	Shares   float64
	PLPct    *float64
	Exposure *int
}

// Signal is one recommended ladder sale.
type Signal struct {
	Ticker       string  `json:"ticker"`
	Exposure     *int    `json:"exposure,omitempty"`
	ProfitPct    float64 `json:"profit_pct"`
	RungsDone    int     `json:"rungs_done"`
	RungHit      int     `json:"rung_hit"` // 1-based, 0 in the aggregate view
	SharesToSell int     `json:"shares_to_sell"`
	CoreNote     string  `json:"core_note"`
}

// AggregateSignals is the untracked overview: for each profitable holding
// it reports the total shares the ladder would have released by now,
// ignoring any confirmed progress.
func AggregateSignals(holdings []Holding) []Signal {
	var signals []Signal
	for _, h := range holdings {
		if h.Ticker == "" || h.Shares <= 0 || h.PLPct == nil || *h.PLPct <= 0 {
			continue
		}
		corePct, ladderPct := CoreAndLadderPct(h.Exposure)
		ladderShares := int(h.Shares * ladderPct)
		if ladderShares <= 0 {
			continue
		}

		profitFrac := *h.PLPct / 100
		reached := 0
		for _, lvl := range Rungs {
			if profitFrac >= lvl {
				reached++
			}
		}
		if reached == 0 {
			continue
		}

		toSell := int(float64(ladderShares) * float64(reached) / float64(len(Rungs)))
		if toSell <= 0 {
			continue
		}
		signals = append(signals, Signal{
			Ticker:       strings.ToUpper(h.Ticker),
			Exposure:     h.Exposure,
			ProfitPct:    *h.PLPct,
			RungsDone:    reached,
			SharesToSell: toSell,
			CoreNote:     coreNote(corePct),
		})
	}
	return signals
}

// DailySignals emits today's incremental sales: one rung per holding at
// most, sized so that cumulative whole-share rounding never oversells.
// Progress is keyed by uppercase ticker and only advances via an explicit
// confirmation, never here.
func DailySignals(holdings []Holding, progress map[string]int) []Signal {
	var signals []Signal
	for _, h := range holdings {
		if h.Ticker == "" || h.Shares <= 0 || h.PLPct == nil || *h.PLPct <= 0 {
			continue
		}
		ticker := strings.ToUpper(h.Ticker)
		corePct, ladderPct := CoreAndLadderPct(h.Exposure)
		ladderShares := int(h.Shares * ladderPct)
		if ladderShares <= 0 {
			continue
		}

		done := progress[ticker]
		if done >= len(Rungs) {
			continue
		}
		profitFrac := *h.PLPct / 100
		if profitFrac < Rungs[done] {
			continue
		}

		sellBefore := int(float64(ladderShares) * float64(done) / float64(len(Rungs)))
		sellAfter := int(float64(ladderShares) * float64(done+1) / float64(len(Rungs)))
		toSell := sellAfter - sellBefore
		if toSell <= 0 {
			continue
		}

		signals = append(signals, Signal{
			Ticker:       ticker,
			Exposure:     h.Exposure,
			ProfitPct:    *h.PLPct,
			RungsDone:    done,
			RungHit:      done + 1,
			SharesToSell: toSell,
			CoreNote:     coreNote(corePct),
		})
	}
	return signals
}
