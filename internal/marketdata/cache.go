package marketdata

import (
	"context"
	"strings"
	"sync"

	"agiradar/internal/domain"
)

// FundamentalsFetcher is what the cache wraps; the Client satisfies it.
type FundamentalsFetcher interface {
	Fundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error)
	EarningsInDays(ctx context.Context, ticker string) (*int, error)
}

type fundResult struct {
	value domain.Fundamentals
	err   error
}

type earnResult struct {
	value *int
	err   error
}

// FundamentalsCache memoizes fundamentals and earnings lookups per ticker
// for the lifetime of the process. Each ticker is fetched at most once,
// failures included, so a flaky upstream is not hammered during a scan.
type FundamentalsCache struct {
	fetcher FundamentalsFetcher

	mu    sync.Mutex
	funds map[string]fundResult
	earns map[string]earnResult
}

func NewFundamentalsCache(fetcher FundamentalsFetcher) *FundamentalsCache {
	return &FundamentalsCache{
		fetcher: fetcher,
		funds:   make(map[string]fundResult),
		earns:   make(map[string]earnResult),
	}
}

func (c *FundamentalsCache) Fundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error) {
	key := strings.ToUpper(ticker)

	c.mu.Lock()
	if cached, ok := c.funds[key]; ok {
		c.mu.Unlock()
		return cached.value, cached.err
	}
	c.mu.Unlock()

	value, err := c.fetcher.Fundamentals(ctx, ticker)

	c.mu.Lock()
	c.funds[key] = fundResult{value: value, err: err}
	c.mu.Unlock()
	return value, err
}

func (c *FundamentalsCache) EarningsInDays(ctx context.Context, ticker string) (*int, error) {
	key := strings.ToUpper(ticker)

	c.mu.Lock()
	if cached, ok := c.earns[key]; ok {
		c.mu.Unlock()
		return cached.value, cached.err
	}
	c.mu.Unlock()

	value, err := c.fetcher.EarningsInDays(ctx, ticker)

	c.mu.Lock()
	c.earns[key] = earnResult{value: value, err: err}
	c.mu.Unlock()
	return value, err
}
