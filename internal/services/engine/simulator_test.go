package engine

import (
	"testing"

	"Backcast/internal/domain/models"
)

func mkLevels(entry, stop, tp1 float64) models.TradeLevels {
	return models.TradeLevels{EntryPrice: entry, StopLoss: stop, TP1: tp1}
}

func TestSimulateOutcomeTargetHit(t *testing.T) {
	series := snapshots([]float64{100, 101, 105, 97})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 104), 10)

	if out.Outcome != models.OutcomeWin {
		t.Fatalf("outcome %v want WIN", out.Outcome)
	}
	if out.ExitDay != 2 {
		t.Fatalf("exit day %d want 2", out.ExitDay)
	}
	if out.ExitPrice != 104 {
		t.Fatalf("exit %v want the TP1 fill, not the day price", out.ExitPrice)
	}
	if !almostEqual(out.ProfitPct, 4.0, 1e-9) {
		t.Fatalf("profit %v want 4", out.ProfitPct)
	}
}

func TestSimulateOutcomeStopFillsAtDayPrice(t *testing.T) {
	// day 2 gaps through the 94 stop; the fill is the observed 92
	series := snapshots([]float64{100, 98, 92, 105})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 104), 10)

	if out.Outcome != models.OutcomeLoss {
		t.Fatalf("outcome %v want LOSS", out.Outcome)
	}
	if out.ExitDay != 2 || out.ExitPrice != 92 {
		t.Fatalf("exit day %d price %v want day 2 at 92", out.ExitDay, out.ExitPrice)
	}
	if !almostEqual(out.ProfitPct, -8.0, 1e-9) {
		t.Fatalf("profit %v want -8", out.ProfitPct)
	}
}

func TestSimulateOutcomeStopCheckedBeforeTarget(t *testing.T) {
	// a single day price satisfying both levels resolves as a stop
	series := snapshots([]float64{100, 90})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 85), 10)

	if out.Outcome != models.OutcomeLoss {
		t.Fatalf("outcome %v want LOSS when stop and target collide", out.Outcome)
	}
	if out.ExitPrice != 90 {
		t.Fatalf("exit %v want 90", out.ExitPrice)
	}
}

func TestSimulateOutcomeTimeoutLoss(t *testing.T) {
	series := snapshots([]float64{100, 99, 98, 97, 96, 95, 80})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 104), 5)

	if out.Outcome != models.OutcomeLoss {
		t.Fatalf("outcome %v want LOSS", out.Outcome)
	}
	if out.ExitDay != 5 || out.ExitPrice != 95 {
		t.Fatalf("exit day %d price %v want day 5 at 95", out.ExitDay, out.ExitPrice)
	}
	if !almostEqual(out.ProfitPct, -5.0, 1e-9) {
		t.Fatalf("profit %v want -5", out.ProfitPct)
	}
}

func TestSimulateOutcomeTimeoutWin(t *testing.T) {
	series := snapshots([]float64{100, 101, 102, 103})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 110), 3)

	if out.Outcome != models.OutcomeWin {
		t.Fatalf("outcome %v want WIN on positive drift", out.Outcome)
	}
	if !almostEqual(out.ProfitPct, 3.0, 1e-9) {
		t.Fatalf("profit %v want 3", out.ProfitPct)
	}
}

func TestSimulateOutcomeShortMirrors(t *testing.T) {
	series := snapshots([]float64{100, 99, 95, 104})
	out := SimulateOutcome(series, 0, models.DirectionShort, mkLevels(100, 106, 96), 10)

	if out.Outcome != models.OutcomeWin {
		t.Fatalf("outcome %v want WIN", out.Outcome)
	}
	if out.ExitDay != 2 || out.ExitPrice != 96 {
		t.Fatalf("exit day %d price %v want day 2 at TP1 96", out.ExitDay, out.ExitPrice)
	}
	if !almostEqual(out.ProfitPct, 4.0, 1e-9) {
		t.Fatalf("profit %v want 4", out.ProfitPct)
	}

	stopped := SimulateOutcome(snapshots([]float64{100, 107}), 0, models.DirectionShort, mkLevels(100, 106, 96), 10)
	if stopped.Outcome != models.OutcomeLoss || !almostEqual(stopped.ProfitPct, -7.0, 1e-9) {
		t.Fatalf("short stop: got %+v", stopped)
	}
}

func TestSimulateOutcomeSeriesEnds(t *testing.T) {
	// only two days of future data inside a 10-day allowance
	series := snapshots([]float64{100, 101, 102})
	out := SimulateOutcome(series, 0, models.DirectionLong, mkLevels(100, 94, 110), 10)

	if out.ExitDay != 2 || out.ExitPrice != 102 {
		t.Fatalf("exit day %d price %v want last available day", out.ExitDay, out.ExitPrice)
	}
	if out.Outcome != models.OutcomeWin {
		t.Fatalf("outcome %v want WIN", out.Outcome)
	}
}

func TestProfitPct(t *testing.T) {
	if got := ProfitPct(100, 104, models.DirectionLong); !almostEqual(got, 4, 1e-12) {
		t.Fatalf("long got %v", got)
	}
	if got := ProfitPct(100, 104, models.DirectionShort); !almostEqual(got, -4, 1e-12) {
		t.Fatalf("short got %v", got)
	}
	if got := ProfitPct(0, 104, models.DirectionLong); got != 0 {
		t.Fatalf("zero entry got %v", got)
	}
}
