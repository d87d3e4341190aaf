package engine

import (
	"testing"

	"Backcast/internal/domain/models"
)

// A strictly flat window produces no direction and no trade.
func TestScoreFlatWindowNoSignal(t *testing.T) {
	window := snapshots(flat(30, 100))
	ind, ok := ComputeIndicators(window, DefaultIndicatorConfig())
	if !ok {
		t.Fatalf("expected indicators")
	}
	closes := flat(30, 100)
	sr := DetectSupportResistance(closes, 100, 2.0)

	s := NewScorer(defaultScoring())
	score := s.Score(Inputs{Ind: ind, SR: sr, Sentiment: models.NeutralSentiment, Closes: closes})

	if score.Direction != models.DirectionNone {
		t.Fatalf("direction %v want none", score.Direction)
	}
	if score.Total != 0 || len(score.Breakdown) != 0 {
		t.Fatalf("expected zero score, got %+v", score)
	}
	if s.Accepted(score) {
		t.Fatalf("no-signal must never pass the gate")
	}
}

// A clean linear uptrend signals LONG via trend continuation; only the trend
// factor contributes, so the default gate rejects it.
func TestScoreLinearUptrend(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 80 + 20*float64(i)/29
	}
	ind, ok := ComputeIndicators(snapshots(closes), DefaultIndicatorConfig())
	if !ok {
		t.Fatalf("expected indicators")
	}
	if ind.Trend != models.TrendUp {
		t.Fatalf("trend %v want up", ind.Trend)
	}
	if ind.RSI <= 60 {
		t.Fatalf("rsi %v want >60", ind.RSI)
	}

	sr := DetectSupportResistance(closes, ind.CurrentPrice, 2.0)
	s := NewScorer(defaultScoring())
	score := s.Score(Inputs{Ind: ind, SR: sr, Sentiment: models.NeutralSentiment, Closes: closes})

	if score.Direction != models.DirectionLong {
		t.Fatalf("direction %v want LONG", score.Direction)
	}
	if score.Setup != "trend-continuation-long" {
		t.Fatalf("setup %q", score.Setup)
	}
	if score.Breakdown[FactorTrend] != 2 {
		t.Fatalf("trend points %d want 2", score.Breakdown[FactorTrend])
	}
	// momentum (RSI 100), S/R (fallback 5% away), volume (flat), pattern,
	// divergence, sentiment (neutral) and volatility (near zero) all miss.
	if score.Total != 2 {
		t.Fatalf("total %d want 2, breakdown %v", score.Total, score.Breakdown)
	}
	if s.Accepted(score) {
		t.Fatalf("score 2 must not pass gate 6")
	}
}

// All eight factors can fire together and cap the total at 10.
func TestScoreUpperBound(t *testing.T) {
	closes := []float64{100, 99, 98, 97, 96, 95, 94, 90, 89, 92}
	in := Inputs{
		Ind: models.IndicatorSet{
			MAFast:       91,
			MASlow:       90,
			RSI:          45,
			Trend:        models.TrendUp,
			Volatility:   2.0,
			VolumeRatio:  1.5,
			CurrentPrice: 92,
		},
		SR:        models.SupportResistance{NearestSupport: 91.5, AtSupport: true, DistanceToSupportPct: 0.5},
		Sentiment: 30,
		Closes:    closes,
	}

	s := NewScorer(defaultScoring())
	score := s.Score(in)
	if score.Direction != models.DirectionLong {
		t.Fatalf("direction %v", score.Direction)
	}
	if score.Total != 10 {
		t.Fatalf("total %d want 10, breakdown %v", score.Total, score.Breakdown)
	}
	if !s.Accepted(score) {
		t.Fatalf("10 must pass any preset gate")
	}
}

func TestAcceptedGate(t *testing.T) {
	s := NewScorer(defaultScoring())
	at := models.ConfluenceScore{Total: 6, Direction: models.DirectionLong}
	below := models.ConfluenceScore{Total: 5, Direction: models.DirectionLong}
	if !s.Accepted(at) {
		t.Fatalf("total equal to the gate passes")
	}
	if s.Accepted(below) {
		t.Fatalf("total below the gate is rejected")
	}
}
