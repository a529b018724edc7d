package analysis

import (
	talib "github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// MovingAverage returns the arithmetic mean of the last window closes,
// or nil when the series is shorter than the window.
func MovingAverage(closes []float64, window int) *float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}
	m := stat.Mean(closes[len(closes)-window:], nil)
	return &m
}

// SMASeries returns the full simple-moving-average series for closes.
// Entries before the window has filled are zero and must not be read.
func SMASeries(closes []float64, window int) []float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}
	return talib.Sma(closes, window)
}

// ChangeSince returns the percentage change of the last close versus the
// close `days` trading days earlier, or nil when the series is too short.
func ChangeSince(closes []float64, days int) *float64 {
	if len(closes) <= days {
		return nil
	}
	ref := closes[len(closes)-1-days]
	if ref == 0 {
		return nil
	}
	chg := (closes[len(closes)-1] - ref) / ref * 100
	return &chg
}

// AvgVolume returns the mean volume over the last window entries, or nil
// when fewer are available.
func AvgVolume(volumes []int64, window int) *float64 {
	if window <= 0 || len(volumes) < window {
		return nil
	}
	vals := make([]float64, window)
	for i, v := range volumes[len(volumes)-window:] {
		vals[i] = float64(v)
	}
	m := stat.Mean(vals, nil)
	return &m
}

// HighLow returns the max and min of the series, or nils when empty.
func HighLow(closes []float64) (*float64, *float64) {
	if len(closes) == 0 {
		return nil, nil
	}
	hi, lo := closes[0], closes[0]
	for _, c := range closes[1:] {
		if c > hi {
			hi = c
		}
		if c < lo {
			lo = c
		}
	}
	return &hi, &lo
}
