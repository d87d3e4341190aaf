package engine

import "Backcast/internal/domain/models"

// ComputeTradeLevels derives stop and take-profit prices from the entry,
// direction, window volatility, and nearby structure. The stop distance is
// the volatility-scaled percentage clamped to [SLMinPct, SLMaxPct], tightened
// to sit just beyond the nearest support/resistance when that level is closer
// than the volatility-derived distance. Pure function, no side effects.
func ComputeTradeLevels(entry float64, dir models.Direction, volatilityPct float64, sr models.SupportResistance, cfg LevelConfig) models.TradeLevels {
	slPct := clampPct(volatilityPct*cfg.SLVolatilityMultiplier, cfg.SLMinPct, cfg.SLMaxPct)

	if dir == models.DirectionLong {
		if sr.NearestSupport > 0 && sr.NearestSupport < entry {
			distPct := (entry - sr.NearestSupport) / entry * 100
			if tightened := distPct + cfg.ProximityBufferPct; tightened < slPct {
				slPct = tightened
			}
		}
	} else if sr.NearestResistance > entry {
		distPct := (sr.NearestResistance - entry) / entry * 100
		if tightened := distPct + cfg.ProximityBufferPct; tightened < slPct {
			slPct = tightened
		}
	}

	levels := models.TradeLevels{EntryPrice: entry, SLPercent: slPct}
	r := cfg.TPRatios
	if dir == models.DirectionLong {
		levels.StopLoss = entry * (1 - slPct/100)
		levels.TP1 = entry * (1 + slPct*r[0]/100)
		levels.TP2 = entry * (1 + slPct*r[1]/100)
		levels.TP3 = entry * (1 + slPct*r[2]/100)
		levels.RiskReward = (levels.TP1 - entry) / entry * 100 / slPct
	} else {
		levels.StopLoss = entry * (1 + slPct/100)
		levels.TP1 = entry * (1 - slPct*r[0]/100)
		levels.TP2 = entry * (1 - slPct*r[1]/100)
		levels.TP3 = entry * (1 - slPct*r[2]/100)
		levels.RiskReward = (entry - levels.TP1) / entry * 100 / slPct
	}
	return levels
}

func clampPct(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
