package analysis

import (
	"math"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	if ma := MovingAverage(closes, 3); ma == nil || *ma != 4 {
		t.Errorf("MA(3) = %v, want 4", deref(ma))
	}
	if ma := MovingAverage(closes, 5); ma == nil || *ma != 3 {
		t.Errorf("MA(5) = %v, want 3", deref(ma))
	}
	if ma := MovingAverage(closes, 6); ma != nil {
		t.Errorf("MA over short series = %v, want nil", *ma)
	}
}

func TestChangeSince(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	closes[len(closes)-21] = 80 // 20 trading days before the last close
	closes[len(closes)-1] = 104

	chg := ChangeSince(closes, 20)
	if chg == nil || math.Abs(*chg-30) > 1e-9 {
		t.Errorf("20d change = %v, want 30", deref(chg))
	}

	// Exactly 20 closes cannot reach back 20 days.
	if chg := ChangeSince(closes[:20], 20); chg != nil {
		t.Errorf("change over too-short series = %v, want nil", *chg)
	}

	// 21 closes is the minimum.
	if chg := ChangeSince(closes[:21], 20); chg == nil {
		t.Error("21 closes should be enough for a 20d change")
	}
}

func TestAvgVolume(t *testing.T) {
	volumes := []int64{100, 200, 300, 400}

	if avg := AvgVolume(volumes, 2); avg == nil || *avg != 350 {
		t.Errorf("avg volume = %v, want 350", deref(avg))
	}
	if avg := AvgVolume(volumes, 5); avg != nil {
		t.Errorf("avg over short series = %v, want nil", *avg)
	}
}

func TestHighLow(t *testing.T) {
	hi, lo := HighLow([]float64{3, 1, 4, 1, 5})
	if *hi != 5 || *lo != 1 {
		t.Errorf("HighLow = (%v, %v), want (5, 1)", *hi, *lo)
	}

	hi, lo = HighLow(nil)
	if hi != nil || lo != nil {
		t.Error("empty series should yield nils")
	}
}
