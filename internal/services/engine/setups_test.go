package engine

import (
	"testing"

	"Backcast/internal/domain/models"
)

func defaultScoring() ScoringConfig {
	return Presets()["default"]
}

func TestDetermineDirectionOversoldAtSupport(t *testing.T) {
	in := Inputs{
		Ind:       models.IndicatorSet{RSI: 30, Trend: models.TrendSideways},
		SR:        models.SupportResistance{AtSupport: true},
		Sentiment: models.NeutralSentiment,
	}
	dir, setup := DetermineDirection(DefaultSetups(defaultScoring()), in)
	if dir != models.DirectionLong {
		t.Fatalf("dir %v want LONG", dir)
	}
	if setup != "oversold-at-support" {
		t.Fatalf("setup %q", setup)
	}
}

func TestDetermineDirectionLongRulesWinTies(t *testing.T) {
	// matches both extreme-fear-reversal (LONG) and trend-continuation-short
	in := Inputs{
		Ind: models.IndicatorSet{
			RSI:          40,
			Trend:        models.TrendDown,
			CurrentPrice: 90,
			MAFast:       95,
			MASlow:       100,
		},
		Sentiment: 20,
	}
	dir, setup := DetermineDirection(DefaultSetups(defaultScoring()), in)
	if dir != models.DirectionLong {
		t.Fatalf("dir %v want LONG (LONG rules evaluate first)", dir)
	}
	if setup != "extreme-fear-reversal" {
		t.Fatalf("setup %q", setup)
	}
}

func TestDetermineDirectionShortSetups(t *testing.T) {
	in := Inputs{
		Ind:       models.IndicatorSet{RSI: 70, Trend: models.TrendSideways},
		SR:        models.SupportResistance{AtResistance: true},
		Sentiment: models.NeutralSentiment,
	}
	dir, setup := DetermineDirection(DefaultSetups(defaultScoring()), in)
	if dir != models.DirectionShort {
		t.Fatalf("dir %v want SHORT", dir)
	}
	if setup != "overbought-at-resistance" {
		t.Fatalf("setup %q", setup)
	}
}

func TestDetermineDirectionNoSignal(t *testing.T) {
	in := Inputs{
		Ind:       models.IndicatorSet{RSI: 50, Trend: models.TrendSideways, CurrentPrice: 100, MAFast: 100, MASlow: 100},
		Sentiment: models.NeutralSentiment,
	}
	dir, setup := DetermineDirection(DefaultSetups(defaultScoring()), in)
	if dir != models.DirectionNone || setup != "" {
		t.Fatalf("got %v %q want no signal", dir, setup)
	}
}
