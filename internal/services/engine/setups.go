package engine

import "Backcast/internal/domain/models"

// Inputs is the typed view of one window position that setups and factor
// scoring evaluate. Closes are the window's closing prices, oldest first.
type Inputs struct {
	Ind       models.IndicatorSet
	SR        models.SupportResistance
	Sentiment float64
	Closes    []float64
}

// SetupRule is a named, pure predicate that proposes a trade direction.
type SetupRule struct {
	Name      string
	Direction models.Direction
	Match     func(in Inputs) bool
}

// DefaultSetups returns the ordered rule list. LONG rules come first: the
// first matching rule fixes the direction, so ordering is part of the
// strategy definition.
func DefaultSetups(cfg ScoringConfig) []SetupRule {
	return []SetupRule{
		{
			Name:      "oversold-at-support",
			Direction: models.DirectionLong,
			Match: func(in Inputs) bool {
				return in.Ind.RSI <= cfg.RSIOversold && in.SR.AtSupport
			},
		},
		{
			Name:      "trend-continuation-long",
			Direction: models.DirectionLong,
			Match: func(in Inputs) bool {
				return in.Ind.Trend == models.TrendUp &&
					in.Ind.CurrentPrice > in.Ind.MAFast &&
					in.Ind.MAFast > in.Ind.MASlow
			},
		},
		{
			Name:      "extreme-fear-reversal",
			Direction: models.DirectionLong,
			Match: func(in Inputs) bool {
				return in.Sentiment <= 25 && in.Ind.RSI < 45
			},
		},
		{
			Name:      "pullback-to-ma-long",
			Direction: models.DirectionLong,
			Match: func(in Inputs) bool {
				return in.Ind.Trend == models.TrendUp &&
					in.Ind.CurrentPrice <= in.Ind.MAFast &&
					in.Ind.CurrentPrice > in.Ind.MASlow
			},
		},
		{
			Name:      "overbought-at-resistance",
			Direction: models.DirectionShort,
			Match: func(in Inputs) bool {
				return in.Ind.RSI >= cfg.RSIOverbought && in.SR.AtResistance
			},
		},
		{
			Name:      "trend-continuation-short",
			Direction: models.DirectionShort,
			Match: func(in Inputs) bool {
				return in.Ind.Trend == models.TrendDown &&
					in.Ind.CurrentPrice < in.Ind.MAFast &&
					in.Ind.MAFast < in.Ind.MASlow
			},
		},
		{
			Name:      "extreme-greed-reversal",
			Direction: models.DirectionShort,
			Match: func(in Inputs) bool {
				return in.Sentiment >= 75 && in.Ind.RSI > 55
			},
		},
		{
			Name:      "rejection-at-ma-short",
			Direction: models.DirectionShort,
			Match: func(in Inputs) bool {
				return in.Ind.Trend == models.TrendDown &&
					in.Ind.CurrentPrice >= in.Ind.MAFast &&
					in.Ind.CurrentPrice < in.Ind.MASlow
			},
		},
	}
}

// DetermineDirection evaluates rules in order and returns the first match.
// No match means no signal for this window.
func DetermineDirection(rules []SetupRule, in Inputs) (models.Direction, string) {
	for _, r := range rules {
		if r.Match(in) {
			return r.Direction, r.Name
		}
	}
	return models.DirectionNone, ""
}
