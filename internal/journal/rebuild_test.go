package journal

import (
	"math"
	"reflect"
	"testing"

	"agiradar/internal/domain"
)

func trade(ticker, action string, shares, price float64) domain.Trade {
	return domain.Trade{Ticker: ticker, Action: action, Shares: shares, Price: price, Date: "2025-06-02"}
}

func TestRebuildSignedShares(t *testing.T) {
	trades := []domain.Trade{
		trade("BBAI", "buy", 100, 2.00),
		trade("BBAI", "buy", 50, 4.00),
		trade("BBAI", "sell", 30, 5.00),
	}

	positions := Rebuild(trades, nil)
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}

	pos := positions[0]
	if pos.TotalShares != 120 {
		t.Errorf("total shares = %v, want 120", pos.TotalShares)
	}
	// Average cost over buys only: (100*2 + 50*4) / 150.
	if math.Abs(pos.AvgBuyPrice-400.0/150.0) > 1e-9 {
		t.Errorf("avg buy price = %v, want %v", pos.AvgBuyPrice, 400.0/150.0)
	}
	if pos.TradeCount != 3 {
		t.Errorf("trade count = %d, want 3", pos.TradeCount)
	}
}

func TestRebuildSellsDoNotMoveCostBasis(t *testing.T) {
	withSell := Rebuild([]domain.Trade{
		trade("SOUN", "buy", 100, 10),
		trade("SOUN", "sell", 50, 99),
	}, nil)
	withoutSell := Rebuild([]domain.Trade{
		trade("SOUN", "buy", 100, 10),
	}, nil)

	if withSell[0].AvgBuyPrice != withoutSell[0].AvgBuyPrice {
		t.Errorf("sell at 99 moved the cost basis: %v vs %v",
			withSell[0].AvgBuyPrice, withoutSell[0].AvgBuyPrice)
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	trades := []domain.Trade{
		trade("BBAI", "buy", 100, 2),
		trade("soun", "buy", 40, 10),
		trade("BBAI", "sell", 100, 3),
		trade("SOUN", "sell", 10, 12),
	}
	targets := map[string][]float64{"SOUN": {12, 14, 16, 20}}

	first := Rebuild(trades, targets)
	for i := 0; i < 5; i++ {
		if again := Rebuild(trades, targets); !reflect.DeepEqual(first, again) {
			t.Fatalf("replay %d diverged:\n%+v\nvs\n%+v", i, first, again)
		}
	}
}

func TestRebuildNormalizesTickerCase(t *testing.T) {
	positions := Rebuild([]domain.Trade{
		trade("bbai", "buy", 10, 2),
		trade("BBAI", "buy", 10, 4),
	}, nil)

	if len(positions) != 1 {
		t.Fatalf("case variants should merge, got %d positions", len(positions))
	}
	if positions[0].Ticker != "BBAI" {
		t.Errorf("ticker = %q, want BBAI", positions[0].Ticker)
	}
}

func TestRebuildFlatPosition(t *testing.T) {
	positions := Rebuild([]domain.Trade{
		trade("TSLA", "buy", 10, 100),
		trade("TSLA", "sell", 10, 150),
	}, nil)

	if len(positions) != 1 {
		t.Fatalf("closed position should still appear, got %d", len(positions))
	}
	if positions[0].TotalShares != 0 {
		t.Errorf("total shares = %v, want 0", positions[0].TotalShares)
	}
}

func TestRebuildAttachesTargets(t *testing.T) {
	targets := map[string][]float64{"BBAI": {3, 4, 5, 6}}
	positions := Rebuild([]domain.Trade{trade("BBAI", "buy", 10, 2)}, targets)

	if !reflect.DeepEqual(positions[0].Targets, []float64{3, 4, 5, 6}) {
		t.Errorf("targets = %v, want override preserved", positions[0].Targets)
	}
}

func TestRebuildOrdering(t *testing.T) {
	positions := Rebuild([]domain.Trade{
		trade("SOUN", "buy", 1, 1),
		trade("ABCL", "buy", 1, 1),
		trade("BBAI", "buy", 1, 1),
	}, nil)

	got := []string{positions[0].Ticker, positions[1].Ticker, positions[2].Ticker}
	want := []string{"ABCL", "BBAI", "SOUN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}
