package engine

import "Backcast/internal/domain/models"

// SimulateOutcome walks forward from the entry index, one day at a time, for
// at most maxHoldingDays. The stop-loss is checked before the first take
// profit every day, so a day that could satisfy both resolves as a loss. A
// stop exit fills at the observed day price (gaps trade through the stop); a
// target exit fills at TP1. If neither level is reached the position closes
// at the last scanned price and the profit sign decides WIN or LOSS - there
// is no separate timeout outcome.
func SimulateOutcome(series []models.PriceSnapshot, entryIdx int, dir models.Direction, levels models.TradeLevels, maxHoldingDays int) models.TradeOutcome {
	entry := levels.EntryPrice
	exitPrice := entry
	exitDay := 0

	for day := 1; day <= maxHoldingDays; day++ {
		i := entryIdx + day
		if i >= len(series) {
			break
		}
		p := series[i].Price
		exitPrice, exitDay = p, day

		if dir == models.DirectionLong {
			if p <= levels.StopLoss {
				return terminal(models.OutcomeLoss, entry, p, day, dir)
			}
			if p >= levels.TP1 {
				return terminal(models.OutcomeWin, entry, levels.TP1, day, dir)
			}
		} else {
			if p >= levels.StopLoss {
				return terminal(models.OutcomeLoss, entry, p, day, dir)
			}
			if p <= levels.TP1 {
				return terminal(models.OutcomeWin, entry, levels.TP1, day, dir)
			}
		}
	}

	// Timeout: close at the last available price, WIN/LOSS by profit sign.
	pct := ProfitPct(entry, exitPrice, dir)
	outcome := models.OutcomeLoss
	if pct > 0 {
		outcome = models.OutcomeWin
	}
	return models.TradeOutcome{Outcome: outcome, ExitPrice: exitPrice, ExitDay: exitDay, ProfitPct: pct}
}

// ProfitPct is the signed percentage profit with direction-aware sign:
// (exit-entry)/entry for LONG, inverted for SHORT.
func ProfitPct(entry, exit float64, dir models.Direction) float64 {
	if entry == 0 {
		return 0
	}
	if dir == models.DirectionShort {
		return (entry - exit) / entry * 100
	}
	return (exit - entry) / entry * 100
}

func terminal(o models.Outcome, entry, exit float64, day int, dir models.Direction) models.TradeOutcome {
	return models.TradeOutcome{Outcome: o, ExitPrice: exit, ExitDay: day, ProfitPct: ProfitPct(entry, exit, dir)}
}
