package analysis

import (
	"gonum.org/v1/gonum/stat"

	"agiradar/internal/domain"
)

const (
	waveMAWindow     = 50
	waveMinExtraDays = 30
	waveMinRangePct  = 4.0
	waveMinCrossings = 8
	waveSwingWindow  = 20
)

// WaveMetrics is the raw output of wave detection for one ticker.
type WaveMetrics struct {
	IsWave      bool
	AvgRangePct *float64
	Crossings   int
}

// DetectWave decides whether a ticker trades in a tradeable oscillation.
// It needs at least 80 days of history (50 for the MA plus 30 of signal);
// with less it reports not-a-wave with nil metrics.
func DetectWave(candles []domain.Candle) WaveMetrics {
	if len(candles) < waveMAWindow+waveMinExtraDays {
		return WaveMetrics{}
	}

	ranges := make([]float64, 0, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		if c.Close != 0 {
			ranges = append(ranges, (c.High-c.Low)/c.Close*100)
		}
	}
	avgRange := stat.Mean(ranges, nil)

	// Count strict sign changes of close-MA50 between consecutive days.
	// Both days must have a defined MA, so the loop starts one past the
	// first full window.
	ma := SMASeries(closes, waveMAWindow)
	crossings := 0
	for i := waveMAWindow; i < len(closes); i++ {
		d1 := closes[i-1] - ma[i-1]
		d2 := closes[i] - ma[i]
		if (d1 < 0 && d2 > 0) || (d1 > 0 && d2 < 0) {
			crossings++
		}
	}

	return WaveMetrics{
		IsWave:      avgRange >= waveMinRangePct && crossings >= waveMinCrossings,
		AvgRangePct: &avgRange,
		Crossings:   crossings,
	}
}

// WaveParams maps average daily range to (take-profit %, re-entry %)
// swing parameters. Below 4% range there is no wave trade and both are nil.
func WaveParams(avgRangePct *float64) (*float64, *float64) {
	if avgRangePct == nil {
		return nil, nil
	}
	var up, down float64
	switch r := *avgRangePct; {
	case r < 4:
		return nil, nil
	case r < 6:
		up, down = 25, -20
	case r < 8:
		up, down = 35, -30
	default:
		up, down = 50, -35
	}
	return &up, &down
}

// WaveState is the current zone of a wave-mode ticker between its swings.
type WaveState struct {
	Zone         domain.WaveZone
	SwingLow     *float64
	SwingHigh    *float64
	TPLevel      *float64
	ReentryLevel *float64
	FromLowPct   *float64
	FromHighPct  *float64
}

// WaveSignal locates price between the 20-day swing low and high and
// classifies it as take-profit zone, re-entry zone, or neutral. A zero
// swing (fresh listing, bad data) disables wave mode entirely.
func WaveSignal(price float64, closes []float64, upPct, downPct float64) WaveState {
	if len(closes) == 0 {
		return WaveState{Zone: domain.WaveNone}
	}
	window := closes
	if len(window) > waveSwingWindow {
		window = window[len(window)-waveSwingWindow:]
	}
	swingHigh, swingLow := HighLow(window)
	if *swingLow == 0 || *swingHigh == 0 {
		return WaveState{Zone: domain.WaveNone}
	}

	fromLow := (price - *swingLow) / *swingLow * 100
	fromHigh := (price - *swingHigh) / *swingHigh * 100
	tpLevel := *swingLow * (1 + upPct/100)
	reentryLevel := *swingHigh * (1 + downPct/100)

	zone := domain.WaveNeutral
	switch {
	case fromLow >= upPct && fromHigh > -10:
		zone = domain.WaveTakeProfit
	case fromHigh <= downPct && fromLow < 15:
		zone = domain.WaveReentry
	}

	return WaveState{
		Zone:         zone,
		SwingLow:     swingLow,
		SwingHigh:    swingHigh,
		TPLevel:      &tpLevel,
		ReentryLevel: &reentryLevel,
		FromLowPct:   &fromLow,
		FromHighPct:  &fromHigh,
	}
}
