// Package marketdata fetches daily history and coarse fundamentals from
// the Yahoo Finance JSON APIs.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

// DefaultIndexSymbol is the broad-market reference for the macro regime.
const DefaultIndexSymbol = "^GSPC"

// Client talks to the Yahoo chart and quote endpoints.
type Client struct {
	client      *http.Client
	log         zerolog.Logger
	indexSymbol string
}

func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:         log.With().Str("client", "marketdata").Logger(),
		indexSymbol: DefaultIndexSymbol,
	}
}

// SetIndexSymbol overrides the macro reference index. Empty keeps the
// default.
func (c *Client) SetIndexSymbol(symbol string) {
	if symbol != "" {
		c.indexSymbol = symbol
	}
}

// History fetches daily OHLCV candles covering at least the requested
// number of calendar days. Null rows (halts, partial sessions) are
// skipped, matching what the chart API itself omits from CSV exports.
func (c *Client) History(ctx context.Context, ticker string, days int) ([]domain.Candle, error) {
	return c.chart(ctx, ticker, rangeForDays(days))
}

// IndexHistory fetches the reference index for macro-regime detection.
func (c *Client) IndexHistory(ctx context.Context, days int) ([]domain.Candle, error) {
	return c.chart(ctx, c.indexSymbol, rangeForDays(days))
}

func rangeForDays(days int) string {
	switch {
	case days <= 93:
		return "3mo"
	case days <= 186:
		return "6mo"
	case days <= 366:
		return "1y"
	default:
		return "2y"
	}
}

func (c *Client) chart(ctx context.Context, symbol, period string) ([]domain.Candle, error) {
	baseURL := "https://query1.finance.yahoo.com/v8/finance/chart/" + url.QueryEscape(symbol)

	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", period)

	body, err := c.get(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []*float64 `json:"open"`
						High   []*float64 `json:"high"`
						Low    []*float64 `json:"low"`
						Close  []*float64 `json:"close"`
						Volume []*int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No historical data returned")
		return nil, nil
	}

	chartData := result.Chart.Result[0]
	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in chart response")
		return nil, nil
	}
	quote := chartData.Indicators.Quote[0]

	var candles []domain.Candle
	for i, ts := range chartData.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := domain.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// Fundamentals fetches the three quote-level metrics the scorers use.
// Yahoo reports growth and margins as fractions; callers get percent.
// Debt/assets is derived from debt/equity: d/e of x means debt is
// x/(1+x) of assets.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (domain.Fundamentals, error) {
	info, err := c.quoteInfo(ctx, ticker)
	if err != nil {
		return domain.Fundamentals{}, err
	}

	var f domain.Fundamentals
	if v := getFloat64(info, "revenueGrowth"); v != nil {
		pct := *v * 100
		f.RevenueGrowthPct = &pct
	}
	if v := getFloat64(info, "profitMargins"); v != nil {
		pct := *v * 100
		f.NetMarginPct = &pct
	}
	if v := getFloat64(info, "debtToEquity"); v != nil && *v >= 0 {
		ratio := *v / 100
		dta := ratio / (1 + ratio)
		f.DebtToAssets = &dta
	}
	return f, nil
}

// EarningsInDays returns the signed day offset to the nearest earnings
// date, negative when it just passed, or nil when unknown.
func (c *Client) EarningsInDays(ctx context.Context, ticker string) (*int, error) {
	info, err := c.quoteInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}
	ts := getInt64(info, "earningsTimestamp")
	if ts == nil {
		return nil, nil
	}
	days := int(time.Until(time.Unix(*ts, 0)).Hours() / 24)
	return &days, nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

func (c *Client) quoteInfo(ctx context.Context, symbol string) (map[string]interface{}, error) {
	baseURL := "https://query1.finance.yahoo.com/v7/finance/quote"

	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,revenueGrowth,profitMargins,debtToEquity,earningsTimestamp")

	body, err := c.get(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("quote API error: %v", result.QuoteResponse.Error)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}
	return result.QuoteResponse.Result[0], nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Mimic a browser, the API rejects default Go user agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getInt64(m map[string]interface{}, key string) *int64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			i := int64(v)
			return &i
		case int:
			i := int64(v)
			return &i
		case int64:
			return &v
		}
	}
	return nil
}
