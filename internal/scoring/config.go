package scoring

// STSWeights are the short-term-swing component weights. Each Max is the
// largest contribution (positive or negative) its component can add; Cap
// fields bound the raw input before scaling.
type STSWeights struct {
	DrawdownPenaltyMax float64 // price at or above 52w high territory
	DrawdownPenaltyCap float64
	DrawdownBonusMax   float64 // deep discount to the 52w high
	DrawdownBonusCap   float64

	MomentumPenaltyMax float64 // already ran up over 20 days
	MomentumBonusMax   float64 // dipped over 20 days

	ReentryZoneBonus float64
	TPZonePenalty    float64

	ReentryDistBonusMax float64 // at or below the re-entry level
	ReentryDistBonusCap float64
	ReentryNearBonusMax float64 // within a few percent above it
	ReentryNearBand     float64

	TPDistPenaltyMax float64 // closing in on the take-profit level
	TPDistFloor      float64
	TPDistCeil       float64

	TrendBonus   float64
	TrendPenalty float64

	VolatilityBonusMax float64
	VolatilityBase     float64
	VolatilitySpan     float64

	RevenueGrowthMax float64
	RevenueGrowthLo  float64
	RevenueGrowthHi  float64
	NetMarginMax     float64
	NetMarginCap     float64
	DebtPenaltyMax   float64
	DebtCap          float64

	EarningsImminentPenalty float64 // within 2 days either side
	EarningsNearPenalty     float64 // within a week
	EarningsSoonPenalty     float64 // within three weeks ahead

	MacroCrashPenalty      float64
	MacroCorrectionPenalty float64
	MacroBullBonus         float64
}

// LASWeights are the long-accumulation component weights.
type LASWeights struct {
	DrawdownPenaltyMax float64
	DrawdownPenaltyCap float64
	DrawdownBonusMax   float64
	DrawdownBonusCap   float64

	MomentumPenaltyMax float64
	MomentumBonusMax   float64

	ReentryZoneBonus    float64
	ReentryDistBonusMax float64
	ReentryDistLo       float64
	ReentryDistHi       float64

	VolatilityBonus    float64
	VolatilityMinRange float64

	RevenueGrowthMax float64
	RevenueGrowthLo  float64
	RevenueGrowthHi  float64
	NetMarginMax     float64
	NetMarginCap     float64
	DebtPenaltyMax   float64
	DebtCap          float64

	MacroCrashBonus      float64
	MacroCorrectionBonus float64
	MacroBullPenalty     float64
}

// Config externalizes every weight, breakpoint, and conviction bonus of
// the dual scorer so the policy can be tuned without touching scorer code.
type Config struct {
	STS STSWeights
	LAS LASWeights

	// Per-ticker conviction bonuses, keyed by uppercase ticker.
	BonusSTS map[string]float64
	BonusLAS map[string]float64
}

// DefaultConfig reproduces the stock scoring policy.
func DefaultConfig() Config {
	return Config{
		STS: STSWeights{
			DrawdownPenaltyMax: 5,
			DrawdownPenaltyCap: 20,
			DrawdownBonusMax:   20,
			DrawdownBonusCap:   70,

			MomentumPenaltyMax: 25,
			MomentumBonusMax:   25,

			ReentryZoneBonus: 10,
			TPZonePenalty:    10,

			ReentryDistBonusMax: 15,
			ReentryDistBonusCap: 20,
			ReentryNearBonusMax: 5,
			ReentryNearBand:     5,

			TPDistPenaltyMax: 20,
			TPDistFloor:      -5,
			TPDistCeil:       15,

			TrendBonus:   5,
			TrendPenalty: 5,

			VolatilityBonusMax: 10,
			VolatilityBase:     3,
			VolatilitySpan:     7,

			RevenueGrowthMax: 8,
			RevenueGrowthLo:  -40,
			RevenueGrowthHi:  60,
			NetMarginMax:     5,
			NetMarginCap:     30,
			DebtPenaltyMax:   6,
			DebtCap:          1.5,

			EarningsImminentPenalty: 10,
			EarningsNearPenalty:     5,
			EarningsSoonPenalty:     2,

			MacroCrashPenalty:      10,
			MacroCorrectionPenalty: 5,
			MacroBullBonus:         3,
		},
		LAS: LASWeights{
			DrawdownPenaltyMax: 10,
			DrawdownPenaltyCap: 20,
			DrawdownBonusMax:   30,
			DrawdownBonusCap:   80,

			MomentumPenaltyMax: 8,
			MomentumBonusMax:   15,

			ReentryZoneBonus:    15,
			ReentryDistBonusMax: 10,
			ReentryDistLo:       -15,
			ReentryDistHi:       5,

			VolatilityBonus:    5,
			VolatilityMinRange: 4,

			RevenueGrowthMax: 15,
			RevenueGrowthLo:  -40,
			RevenueGrowthHi:  80,
			NetMarginMax:     10,
			NetMarginCap:     30,
			DebtPenaltyMax:   10,
			DebtCap:          1.5,

			MacroCrashBonus:      5,
			MacroCorrectionBonus: 3,
			MacroBullPenalty:     2,
		},
		BonusSTS: map[string]float64{
			"BBAI": 8, "SOUN": 8, "SMCI": 6, "ABCL": 6, "RXRX": 5,
			"SYM": 5, "TSLA": 4, "LMND": 3, "HIVE": 3, "MSTR": 3,
		},
		BonusLAS: map[string]float64{
			"BBAI": 30, "SOUN": 25, "SMCI": 25, "ABCL": 20,
			"RXRX": 20, "SYM": 20, "TSLA": 15,
		},
	}
}
