package engine

import "Backcast/internal/domain/models"

// Factor names used in the score breakdown. Caps are fixed: trend and S/R
// proximity contribute up to 2 points, every other factor up to 1, for a
// maximum total of 10.
const (
	FactorTrend      = "trend"
	FactorMomentum   = "momentum"
	FactorSR         = "sr_proximity"
	FactorVolume     = "volume"
	FactorPattern    = "pattern"
	FactorDivergence = "divergence"
	FactorSentiment  = "sentiment"
	FactorVolatility = "volatility"
)

// Scorer turns one window position into a directional confluence score.
// Deterministic: same inputs, same score, always.
type Scorer struct {
	cfg   ScoringConfig
	rules []SetupRule
}

// NewScorer builds a scorer with the default setup rules for cfg.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg, rules: DefaultSetups(cfg)}
}

// Config returns the scoring configuration in use.
func (s *Scorer) Config() ScoringConfig { return s.cfg }

// Score determines the direction from the setup list, then sums the
// independently-capped factor contributions. With no matching setup it
// short-circuits: DirectionNone and a zero total.
func (s *Scorer) Score(in Inputs) models.ConfluenceScore {
	dir, setup := DetermineDirection(s.rules, in)
	if dir == models.DirectionNone {
		return models.ConfluenceScore{Direction: models.DirectionNone, Breakdown: map[string]int{}}
	}

	b := map[string]int{
		FactorTrend:      s.trendPoints(in, dir),
		FactorMomentum:   s.momentumPoints(in, dir),
		FactorSR:         s.srPoints(in, dir),
		FactorVolume:     s.volumePoints(in),
		FactorPattern:    s.patternPoints(in, dir),
		FactorDivergence: s.divergencePoints(in, dir),
		FactorSentiment:  s.sentimentPoints(in, dir),
		FactorVolatility: s.volatilityPoints(in),
	}

	total := 0
	for _, v := range b {
		total += v
	}
	return models.ConfluenceScore{Total: total, Breakdown: b, Direction: dir, Setup: setup}
}

// Accepted reports whether a score clears the configured gate.
func (s *Scorer) Accepted(score models.ConfluenceScore) bool {
	return score.Direction != models.DirectionNone && score.Total >= s.cfg.MinimumScore
}

// trendPoints: 2 for an aligned trend, 1 when sideways but price sits on the
// right side of both moving averages.
func (s *Scorer) trendPoints(in Inputs, dir models.Direction) int {
	if dir == models.DirectionLong {
		if in.Ind.Trend == models.TrendUp {
			return 2
		}
		if in.Ind.Trend == models.TrendSideways &&
			in.Ind.CurrentPrice > in.Ind.MAFast && in.Ind.CurrentPrice > in.Ind.MASlow {
			return 1
		}
		return 0
	}
	if in.Ind.Trend == models.TrendDown {
		return 2
	}
	if in.Ind.Trend == models.TrendSideways &&
		in.Ind.CurrentPrice < in.Ind.MAFast && in.Ind.CurrentPrice < in.Ind.MASlow {
		return 1
	}
	return 0
}

// momentumPoints: RSI in the healthy zone for the direction, or stretched far
// enough the other way for a snapback entry.
func (s *Scorer) momentumPoints(in Inputs, dir models.Direction) int {
	rsi := in.Ind.RSI
	if dir == models.DirectionLong {
		if (rsi >= 45 && rsi <= 70) || rsi <= s.cfg.RSIOversold {
			return 1
		}
		return 0
	}
	if (rsi >= 30 && rsi <= 55) || rsi >= s.cfg.RSIOverbought {
		return 1
	}
	return 0
}

// srPoints: 2 at the level, 1 when within twice the proximity threshold.
func (s *Scorer) srPoints(in Inputs, dir models.Direction) int {
	if dir == models.DirectionLong {
		if in.SR.AtSupport {
			return 2
		}
		if in.SR.DistanceToSupportPct <= 2*s.cfg.SRProximityPct {
			return 1
		}
		return 0
	}
	if in.SR.AtResistance {
		return 2
	}
	if in.SR.DistanceToResistancePct <= 2*s.cfg.SRProximityPct {
		return 1
	}
	return 0
}

func (s *Scorer) volumePoints(in Inputs) int {
	if in.Ind.VolumeRatio >= 1.25 {
		return 1
	}
	return 0
}

// patternPoints: a one-day bounce (LONG) or rejection (SHORT) in the last
// three closes.
func (s *Scorer) patternPoints(in Inputs, dir models.Direction) int {
	n := len(in.Closes)
	if n < 3 {
		return 0
	}
	last, prev, before := in.Closes[n-1], in.Closes[n-2], in.Closes[n-3]
	if dir == models.DirectionLong {
		if last > prev && prev < before {
			return 1
		}
		return 0
	}
	if last < prev && prev > before {
		return 1
	}
	return 0
}

// divergencePoints: price prints a fresh extreme over the last five days that
// RSI does not confirm.
func (s *Scorer) divergencePoints(in Inputs, dir models.Direction) int {
	n := len(in.Closes)
	if n < 10 {
		return 0
	}
	recent := in.Closes[n-5:]
	prior := in.Closes[n-10 : n-5]
	if dir == models.DirectionLong {
		if minOf(recent) < minOf(prior) && in.Ind.RSI >= 40 {
			return 1
		}
		return 0
	}
	if maxOf(recent) > maxOf(prior) && in.Ind.RSI <= 60 {
		return 1
	}
	return 0
}

func (s *Scorer) sentimentPoints(in Inputs, dir models.Direction) int {
	if dir == models.DirectionLong {
		if in.Sentiment <= s.cfg.SentimentFear {
			return 1
		}
		return 0
	}
	if in.Sentiment >= s.cfg.SentimentGreed {
		return 1
	}
	return 0
}

// volatilityPoints: 1 inside the tradeable range, 0 when the market is dead
// flat or too wild to place sane stops.
func (s *Scorer) volatilityPoints(in Inputs) int {
	if in.Ind.Volatility >= s.cfg.VolMinPct && in.Ind.Volatility <= s.cfg.VolMaxPct {
		return 1
	}
	return 0
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
