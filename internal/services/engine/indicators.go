package engine

import (
	"math"

	"Backcast/internal/domain/models"
)

// RSI computes the Relative Strength Index with Wilder smoothing: the first
// `period` deltas are averaged, later deltas are smoothed with weight
// 1/period. Returns a neutral 50 when history is shorter than period+1 or the
// window is flat, and 100 when there are gains but the average loss is zero.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMA seeds with the simple average of the first `period` values and applies
// multiplier 2/(period+1) to the remainder. ok is false when the input is
// shorter than the period.
func EMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	k := 2.0 / (float64(period) + 1)
	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
	}
	return ema, true
}

// SMA returns the simple average of the trailing `period` values.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// ClassifyTrend compares the mean of the most recent 7 closes to the mean of
// the preceding 7. A relative change beyond +-3% is a trend; anything else,
// including fewer than 14 points, is sideways.
func ClassifyTrend(closes []float64) models.Trend {
	if len(closes) < 14 {
		return models.TrendSideways
	}
	n := len(closes)
	recent := mean(closes[n-7:])
	prev := mean(closes[n-14 : n-7])
	if prev == 0 {
		return models.TrendSideways
	}
	changePct := (recent - prev) / prev * 100
	switch {
	case changePct > 3:
		return models.TrendUp
	case changePct < -3:
		return models.TrendDown
	default:
		return models.TrendSideways
	}
}

// Volatility is the population standard deviation of day-over-day percentage
// returns across the window, in percent.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (closes[i]-closes[i-1])/closes[i-1]*100)
	}
	m := mean(rets)
	var ss float64
	for _, r := range rets {
		d := r - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(rets)))
}

// VolumeRatio divides the current volume by the trailing average of up to
// `trail` preceding volumes. A zero average reads as 1.0.
func VolumeRatio(volumes []float64, trail int) float64 {
	n := len(volumes)
	if n == 0 || trail <= 0 {
		return 1.0
	}
	start := n - 1 - trail
	if start < 0 {
		start = 0
	}
	prior := volumes[start : n-1]
	if len(prior) == 0 {
		return 1.0
	}
	avg := mean(prior)
	if avg == 0 {
		return 1.0
	}
	return volumes[n-1] / avg
}

// ComputeIndicators assembles the indicator set for one window position.
// ok is false when the window cannot support the slow moving average; the
// caller skips that window instead of trading on partial data.
func ComputeIndicators(window []models.PriceSnapshot, cfg IndicatorConfig) (models.IndicatorSet, bool) {
	if len(window) == 0 {
		return models.IndicatorSet{}, false
	}
	closes := make([]float64, len(window))
	volumes := make([]float64, len(window))
	for i, p := range window {
		closes[i] = p.Price
		volumes[i] = p.Volume
	}

	maFast, okFast := EMA(closes, cfg.FastPeriod)
	maSlow, okSlow := EMA(closes, cfg.SlowPeriod)
	if !okFast || !okSlow {
		return models.IndicatorSet{}, false
	}

	return models.IndicatorSet{
		MAFast:       maFast,
		MASlow:       maSlow,
		RSI:          RSI(closes, cfg.RSIPeriod),
		Trend:        ClassifyTrend(closes),
		Volatility:   Volatility(closes),
		VolumeRatio:  VolumeRatio(volumes, cfg.VolumeTrail),
		CurrentPrice: closes[len(closes)-1],
	}, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
