package engine

import (
	"testing"

	"Backcast/internal/domain/models"
)

func TestComputeTradeLevelsLong(t *testing.T) {
	// vol 2% * 1.5 = 3% stop, inside [1.5, 8]
	levels := ComputeTradeLevels(100, models.DirectionLong, 2.0, models.SupportResistance{}, DefaultLevelConfig())

	if !almostEqual(levels.SLPercent, 3.0, 1e-9) {
		t.Fatalf("sl pct %v want 3", levels.SLPercent)
	}
	if !almostEqual(levels.StopLoss, 97, 1e-9) {
		t.Fatalf("stop %v want 97", levels.StopLoss)
	}
	if !almostEqual(levels.TP1, 104.5, 1e-9) {
		t.Fatalf("tp1 %v want 104.5", levels.TP1)
	}
	if !almostEqual(levels.TP2, 107.5, 1e-9) {
		t.Fatalf("tp2 %v want 107.5", levels.TP2)
	}
	if !almostEqual(levels.TP3, 112, 1e-9) {
		t.Fatalf("tp3 %v want 112", levels.TP3)
	}
	if !almostEqual(levels.RiskReward, 1.5, 1e-9) {
		t.Fatalf("rr %v want 1.5", levels.RiskReward)
	}
	if !(levels.StopLoss < levels.EntryPrice && levels.EntryPrice < levels.TP1 && levels.TP1 < levels.TP2 && levels.TP2 < levels.TP3) {
		t.Fatalf("long level ordering violated: %+v", levels)
	}
}

func TestComputeTradeLevelsShortMirrors(t *testing.T) {
	levels := ComputeTradeLevels(100, models.DirectionShort, 2.0, models.SupportResistance{}, DefaultLevelConfig())

	if !almostEqual(levels.StopLoss, 103, 1e-9) {
		t.Fatalf("stop %v want 103", levels.StopLoss)
	}
	if !almostEqual(levels.TP1, 95.5, 1e-9) {
		t.Fatalf("tp1 %v want 95.5", levels.TP1)
	}
	if !(levels.TP3 < levels.TP2 && levels.TP2 < levels.TP1 && levels.TP1 < levels.EntryPrice && levels.EntryPrice < levels.StopLoss) {
		t.Fatalf("short level ordering violated: %+v", levels)
	}
	if !almostEqual(levels.RiskReward, 1.5, 1e-9) {
		t.Fatalf("rr %v want 1.5", levels.RiskReward)
	}
}

func TestComputeTradeLevelsClamps(t *testing.T) {
	low := ComputeTradeLevels(100, models.DirectionLong, 0.1, models.SupportResistance{}, DefaultLevelConfig())
	if !almostEqual(low.SLPercent, 1.5, 1e-9) {
		t.Fatalf("sl pct %v want floor 1.5", low.SLPercent)
	}

	high := ComputeTradeLevels(100, models.DirectionLong, 50, models.SupportResistance{}, DefaultLevelConfig())
	if !almostEqual(high.SLPercent, 8.0, 1e-9) {
		t.Fatalf("sl pct %v want cap 8", high.SLPercent)
	}
}

func TestComputeTradeLevelsTightensToSupport(t *testing.T) {
	// support 2% below entry: stop tightens to 2% + 0.5% buffer instead of
	// the 6% volatility stop
	sr := models.SupportResistance{NearestSupport: 98}
	levels := ComputeTradeLevels(100, models.DirectionLong, 4.0, sr, DefaultLevelConfig())

	if !almostEqual(levels.SLPercent, 2.5, 1e-9) {
		t.Fatalf("sl pct %v want 2.5", levels.SLPercent)
	}
	if !almostEqual(levels.StopLoss, 97.5, 1e-9) {
		t.Fatalf("stop %v want 97.5", levels.StopLoss)
	}
}

func TestComputeTradeLevelsTightensToResistanceShort(t *testing.T) {
	sr := models.SupportResistance{NearestResistance: 102}
	levels := ComputeTradeLevels(100, models.DirectionShort, 4.0, sr, DefaultLevelConfig())

	if !almostEqual(levels.SLPercent, 2.5, 1e-9) {
		t.Fatalf("sl pct %v want 2.5", levels.SLPercent)
	}
	if !almostEqual(levels.StopLoss, 102.5, 1e-9) {
		t.Fatalf("stop %v want 102.5", levels.StopLoss)
	}
}
