package models

// Trend classifies the short-term direction of a price window.
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// IndicatorSet holds the derived indicators for one window position.
// Recomputed at every cursor step, never mutated after creation.
// Volatility is the population standard deviation of day-over-day percentage
// returns, expressed in percent (2.5 means 2.5%).
type IndicatorSet struct {
	MAFast       float64
	MASlow       float64
	RSI          float64
	Trend        Trend
	Volatility   float64
	VolumeRatio  float64
	CurrentPrice float64
}

// SupportResistance locates the nearest levels around the current price.
// Distances are percentages of the current price.
type SupportResistance struct {
	NearestSupport          float64
	NearestResistance       float64
	DistanceToSupportPct    float64
	DistanceToResistancePct float64
	AtSupport               bool
	AtResistance            bool
}
