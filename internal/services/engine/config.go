package engine

// IndicatorConfig fixes the lookback periods for the indicator set.
type IndicatorConfig struct {
	FastPeriod  int // fast EMA, default 9
	SlowPeriod  int // slow EMA, default 21
	RSIPeriod   int // default 14
	VolumeTrail int // trailing average for the volume ratio, default 20
}

// DefaultIndicatorConfig returns the standard 9/21 EMA and 14 RSI setup.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{FastPeriod: 9, SlowPeriod: 21, RSIPeriod: 14, VolumeTrail: 20}
}

// ScoringConfig parameterizes direction setups and factor thresholds.
// All percentage fields are percent numbers (2.0 means 2%).
type ScoringConfig struct {
	MinimumScore   int     // gate: trades below this total are rejected
	RSIOversold    float64 // setup + momentum threshold, default 35
	RSIOverbought  float64 // default 65
	SentimentFear  float64 // sentiment alignment threshold for LONG, default 40
	SentimentGreed float64 // for SHORT, default 60
	VolMinPct      float64 // lower bound of the tradeable volatility range
	VolMaxPct      float64 // upper bound
	SRProximityPct float64 // "at level" distance, default 2
}

// LevelConfig parameterizes stop/take-profit placement.
// SL bounds and buffer are percent numbers.
type LevelConfig struct {
	SLVolatilityMultiplier float64
	SLMinPct               float64
	SLMaxPct               float64
	TPRatios               [3]float64 // multiples of the stop distance, ascending
	ProximityBufferPct     float64    // placed beyond a nearby S/R level by this much
}

// DefaultLevelConfig returns the standard stop/target placement.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		SLVolatilityMultiplier: 1.5,
		SLMinPct:               1.5,
		SLMaxPct:               8.0,
		TPRatios:               [3]float64{1.5, 2.5, 4.0},
		ProximityBufferPct:     0.5,
	}
}

// Presets collapse the historical per-tuning engine variants into named
// configurations. Selection and overrides happen in the usecase layer.
func Presets() map[string]ScoringConfig {
	return map[string]ScoringConfig{
		"conservative": {
			MinimumScore:   7,
			RSIOversold:    30,
			RSIOverbought:  70,
			SentimentFear:  30,
			SentimentGreed: 70,
			VolMinPct:      1.0,
			VolMaxPct:      5.0,
			SRProximityPct: 1.5,
		},
		"default": {
			MinimumScore:   6,
			RSIOversold:    35,
			RSIOverbought:  65,
			SentimentFear:  40,
			SentimentGreed: 60,
			VolMinPct:      0.8,
			VolMaxPct:      6.0,
			SRProximityPct: 2.0,
		},
		"aggressive": {
			MinimumScore:   5,
			RSIOversold:    40,
			RSIOverbought:  60,
			SentimentFear:  45,
			SentimentGreed: 55,
			VolMinPct:      0.5,
			VolMaxPct:      8.0,
			SRProximityPct: 2.5,
		},
	}
}
