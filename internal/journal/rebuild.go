package journal

import (
	"sort"
	"strings"

	"agiradar/internal/domain"
)

// Rebuild replays the full journal into positions. It is pure and
// idempotent: the same journal always yields the same positions,
// regardless of how often it runs.
//
// Total shares is the signed sum of all trades. The average buy price is
// weighted over buy trades only, so selling never distorts the cost basis
// of what remains. Explicit target overrides are re-attached by ticker.
func Rebuild(trades []domain.Trade, targets map[string][]float64) []domain.Position {
	type acc struct {
		shares    float64
		buyShares float64
		buyVolume float64
		count     int
	}
	accs := make(map[string]*acc)

	for _, t := range trades {
		ticker := strings.ToUpper(strings.TrimSpace(t.Ticker))
		if ticker == "" {
			continue
		}
		a := accs[ticker]
		if a == nil {
			a = &acc{}
			accs[ticker] = a
		}
		signed := t.SignedShares()
		a.shares += signed
		a.count++
		if signed > 0 {
			a.buyShares += signed
			a.buyVolume += signed * t.Price
		}
	}

	positions := make([]domain.Position, 0, len(accs))
	for ticker, a := range accs {
		pos := domain.Position{
			Ticker:      ticker,
			TotalShares: a.shares,
			TradeCount:  a.count,
			Targets:     targets[ticker],
		}
		if a.buyShares > 0 {
			pos.AvgBuyPrice = a.buyVolume / a.buyShares
			pos.Invested = a.shares * pos.AvgBuyPrice
		}
		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Ticker < positions[j].Ticker
	})
	return positions
}
