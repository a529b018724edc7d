package domain

import "time"

// Trend classifies price relative to its 50d and 200d moving averages.
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
	TrendNA       Trend = "n/a"
)

// Stage classifies where price sits inside its 52-week range.
type Stage string

const (
	StageNearHigh   Stage = "near_high"
	StageCorrection Stage = "strong_correction"
	StageCrash      Stage = "crash_zone"
	StageNA         Stage = "n/a"
)

// Momentum classifies a percentage change against run-up/dip thresholds.
type Momentum string

const (
	MomentumRun     Momentum = "run"
	MomentumDip     Momentum = "dip"
	MomentumNeutral Momentum = "neutral"
	MomentumNA      Momentum = "n/a"
)

// WaveZone classifies a wave-mode ticker's position between its swings.
type WaveZone string

const (
	WaveTakeProfit WaveZone = "take_profit"
	WaveReentry    WaveZone = "reentry"
	WaveNeutral    WaveZone = "neutral"
	WaveNone       WaveZone = "none"
)

// Regime is the broad-market state derived from index drawdown.
type Regime string

const (
	RegimeBull       Regime = "bull"
	RegimeNormal     Regime = "normal"
	RegimeCorrection Regime = "correction"
	RegimeCrash      Regime = "crash"
	RegimeUnknown    Regime = "unknown"
)

// Action is a portfolio recommendation for a held position.
type Action string

const (
	ActionHold    Action = "HOLD"
	ActionSell20  Action = "SELL_20"
	ActionSellAll Action = "SELL_ALL"
	ActionBuy20   Action = "BUY_20"
	ActionBuy40   Action = "BUY_40"
)

// Candle is a single daily OHLCV data point.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Fundamentals holds the coarse quote-level metrics used by the scorers.
// All fields are best-effort; a failed fetch leaves them nil.
type Fundamentals struct {
	RevenueGrowthPct *float64 `json:"revenue_growth_pct,omitempty"`
	NetMarginPct     *float64 `json:"net_margin_pct,omitempty"`
	DebtToAssets     *float64 `json:"debt_to_assets,omitempty"`
}

// Thresholds are the tunable momentum cutoffs (percent).
type Thresholds struct {
	RunUpPct float64 `json:"run_up_pct"`
	DipPct   float64 `json:"dip_pct"`
}

// DefaultThresholds returns the stock run-up/dip cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{RunUpPct: 30, DipPct: -30}
}

// AnalysisRecord is the full per-ticker snapshot the analyzer produces.
// Numeric fields are pointers: nil means the input data was missing or
// insufficient, and the matching classification degrades to its n/a variant.
type AnalysisRecord struct {
	Ticker string `json:"ticker"`

	Price      *float64 `json:"price,omitempty"`
	High52     *float64 `json:"high_52w,omitempty"`
	Low52      *float64 `json:"low_52w,omitempty"`
	Drawdown52 *float64 `json:"drawdown_52w_pct,omitempty"`
	RangePos52 *float64 `json:"range_pos_52w,omitempty"`

	MA50  *float64 `json:"ma50,omitempty"`
	MA200 *float64 `json:"ma200,omitempty"`
	Trend Trend    `json:"trend"`
	Stage Stage    `json:"stage"`

	Change20d *float64 `json:"change_20d_pct,omitempty"`
	Change3d  *float64 `json:"change_3d_pct,omitempty"`
	Momentum  Momentum `json:"momentum"`

	IsWave       bool     `json:"is_wave"`
	AvgRangePct  *float64 `json:"avg_range_pct,omitempty"`
	Crossings    int      `json:"ma50_crossings"`
	WaveUpPct    *float64 `json:"wave_up_pct,omitempty"`
	WaveDownPct  *float64 `json:"wave_down_pct,omitempty"`
	WaveZone     WaveZone `json:"wave_zone"`
	SwingLow     *float64 `json:"swing_low,omitempty"`
	SwingHigh    *float64 `json:"swing_high,omitempty"`
	TPLevel      *float64 `json:"tp_level,omitempty"`
	ReentryLevel *float64 `json:"reentry_level,omitempty"`

	AvgVolume20 *float64 `json:"avg_volume_20d,omitempty"`
	IsViable    bool     `json:"is_viable"`
	QualityNote string   `json:"quality_note,omitempty"`

	Fundamentals   Fundamentals `json:"fundamentals"`
	EarningsInDays *int         `json:"earnings_in_days,omitempty"`

	RefChangePct *float64 `json:"ref_change_pct,omitempty"`
	RefStatus    Momentum `json:"ref_status"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// MacroContext is the broad-market snapshot shared by all scorings in a run.
type MacroContext struct {
	IndexPrice *float64 `json:"index_price,omitempty"`
	Drawdown   *float64 `json:"drawdown_pct,omitempty"`
	Change20d  *float64 `json:"change_20d_pct,omitempty"`
	Regime     Regime   `json:"regime"`
}

// Trade is one journal entry. Shares are always positive; Action carries
// the direction.
type Trade struct {
	ID        int64     `json:"id"`
	Ticker    string    `json:"ticker"`
	Action    string    `json:"action"` // buy or sell
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Date      string    `json:"date"` // ISO yyyy-mm-dd
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SignedShares returns the share delta this trade applies to a position.
func (t Trade) SignedShares() float64 {
	if t.Action == "sell" {
		return -t.Shares
	}
	return t.Shares
}

// Position is rebuilt from the journal by full replay; it is never stored.
type Position struct {
	Ticker      string    `json:"ticker"`
	TotalShares float64   `json:"total_shares"`
	AvgBuyPrice float64   `json:"avg_buy_price"` // weighted over buys only
	Invested    float64   `json:"invested"`
	Targets     []float64 `json:"targets,omitempty"` // explicit overrides
	TradeCount  int       `json:"trade_count"`
}

// Decision is the decider's verdict for one position.
type Decision struct {
	Ticker string `json:"ticker"`
	Action Action `json:"action"`
	Reason string `json:"reason"`
}
