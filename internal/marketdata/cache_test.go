package marketdata

import (
	"context"
	"errors"
	"testing"

	"agiradar/internal/domain"
)

type countingFetcher struct {
	fundCalls map[string]int
	earnCalls map[string]int
	fundErr   error
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{fundCalls: map[string]int{}, earnCalls: map[string]int{}}
}

func (f *countingFetcher) Fundamentals(_ context.Context, ticker string) (domain.Fundamentals, error) {
	f.fundCalls[ticker]++
	if f.fundErr != nil {
		return domain.Fundamentals{}, f.fundErr
	}
	growth := 42.0
	return domain.Fundamentals{RevenueGrowthPct: &growth}, nil
}

func (f *countingFetcher) EarningsInDays(_ context.Context, ticker string) (*int, error) {
	f.earnCalls[ticker]++
	days := 12
	return &days, nil
}

func TestCacheFetchesOncePerTicker(t *testing.T) {
	fetcher := newCountingFetcher()
	cache := NewFundamentalsCache(fetcher)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		funds, err := cache.Fundamentals(ctx, "BBAI")
		if err != nil {
			t.Fatal(err)
		}
		if funds.RevenueGrowthPct == nil || *funds.RevenueGrowthPct != 42.0 {
			t.Errorf("cached value lost: %+v", funds)
		}
		if _, err := cache.EarningsInDays(ctx, "BBAI"); err != nil {
			t.Fatal(err)
		}
	}

	if fetcher.fundCalls["BBAI"] != 1 {
		t.Errorf("fundamentals fetched %d times, want 1", fetcher.fundCalls["BBAI"])
	}
	if fetcher.earnCalls["BBAI"] != 1 {
		t.Errorf("earnings fetched %d times, want 1", fetcher.earnCalls["BBAI"])
	}
}

func TestCacheKeysAreCaseInsensitive(t *testing.T) {
	fetcher := newCountingFetcher()
	cache := NewFundamentalsCache(fetcher)
	ctx := context.Background()

	if _, err := cache.Fundamentals(ctx, "bbai"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Fundamentals(ctx, "BBAI"); err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, n := range fetcher.fundCalls {
		total += n
	}
	if total != 1 {
		t.Errorf("case variants fetched %d times, want 1", total)
	}
}

func TestCacheMemoizesFailures(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.fundErr = errors.New("upstream down")
	cache := NewFundamentalsCache(fetcher)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cache.Fundamentals(ctx, "SOUN"); err == nil {
			t.Fatal("expected the cached error")
		}
	}
	if fetcher.fundCalls["SOUN"] != 1 {
		t.Errorf("failed fetch retried %d times, want 1", fetcher.fundCalls["SOUN"])
	}
}
