package engine

import (
	"math"
	"testing"

	"Backcast/internal/domain/models"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRSINeutralOnShortHistory(t *testing.T) {
	closes := []float64{100, 101, 102}
	if got := RSI(closes, 14); got != 50 {
		t.Fatalf("got %v want 50", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(closes, 14); got != 100 {
		t.Fatalf("got %v want 100", got)
	}
}

func TestRSIWilderSmoothing(t *testing.T) {
	// period 3: seed avgGain=2/3, avgLoss=1/6; one smoothed step gives
	// RS=5.5 and RSI=100-100/6.5.
	closes := []float64{10, 11, 10.5, 11.5, 12}
	want := 100 - 100/6.5
	if got := RSI(closes, 3); !almostEqual(got, want, 1e-9) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEMASeedAndStep(t *testing.T) {
	// seed (1+2+3)/3 = 2, k = 0.5, then 4*0.5 + 2*0.5 = 3
	got, ok := EMA([]float64{1, 2, 3, 4}, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if !almostEqual(got, 3, 1e-12) {
		t.Fatalf("got %v want 3", got)
	}
}

func TestEMATooShort(t *testing.T) {
	if _, ok := EMA([]float64{1, 2}, 3); ok {
		t.Fatalf("expected not ok")
	}
}

func TestSMATrailing(t *testing.T) {
	got, ok := SMA([]float64{1, 2, 3, 4}, 2)
	if !ok || got != 3.5 {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestClassifyTrend(t *testing.T) {
	up := append(flat(7, 100), flat(7, 110)...)
	if got := ClassifyTrend(up); got != models.TrendUp {
		t.Fatalf("got %v want up", got)
	}

	down := append(flat(7, 100), flat(7, 90)...)
	if got := ClassifyTrend(down); got != models.TrendDown {
		t.Fatalf("got %v want down", got)
	}

	side := append(flat(7, 100), flat(7, 101)...)
	if got := ClassifyTrend(side); got != models.TrendSideways {
		t.Fatalf("got %v want sideways", got)
	}

	if got := ClassifyTrend(flat(13, 100)); got != models.TrendSideways {
		t.Fatalf("short history: got %v want sideways", got)
	}
}

func TestVolatility(t *testing.T) {
	// returns +10% and -10%: mean 0, population stddev 10
	got := Volatility([]float64{100, 110, 99})
	if !almostEqual(got, 10, 1e-9) {
		t.Fatalf("got %v want 10", got)
	}

	if got := Volatility(flat(20, 100)); got != 0 {
		t.Fatalf("flat series: got %v want 0", got)
	}
}

func TestVolumeRatio(t *testing.T) {
	if got := VolumeRatio([]float64{10, 10, 10, 20}, 20); !almostEqual(got, 2, 1e-12) {
		t.Fatalf("got %v want 2", got)
	}
	if got := VolumeRatio([]float64{0, 0, 5}, 20); got != 1.0 {
		t.Fatalf("zero trailing average: got %v want 1", got)
	}
	if got := VolumeRatio(nil, 20); got != 1.0 {
		t.Fatalf("empty: got %v want 1", got)
	}
}

func TestComputeIndicatorsWindowTooShort(t *testing.T) {
	window := snapshots(flat(10, 100))
	if _, ok := ComputeIndicators(window, DefaultIndicatorConfig()); ok {
		t.Fatalf("expected not ok below the slow period")
	}
}

func TestComputeIndicatorsFlatWindow(t *testing.T) {
	window := snapshots(flat(30, 100))
	ind, ok := ComputeIndicators(window, DefaultIndicatorConfig())
	if !ok {
		t.Fatalf("expected ok")
	}
	if ind.Trend != models.TrendSideways {
		t.Fatalf("trend %v", ind.Trend)
	}
	if ind.Volatility != 0 {
		t.Fatalf("volatility %v", ind.Volatility)
	}
	if ind.RSI != 50 {
		t.Fatalf("rsi %v want 50 on a flat window", ind.RSI)
	}
	if ind.CurrentPrice != 100 {
		t.Fatalf("current %v", ind.CurrentPrice)
	}
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func snapshots(closes []float64) []models.PriceSnapshot {
	out := make([]models.PriceSnapshot, len(closes))
	for i, c := range closes {
		out[i] = models.PriceSnapshot{Price: c, Volume: 100, SentimentIndex: models.NeutralSentiment}
	}
	return out
}
