package engine

import "Backcast/internal/domain/models"

// fallbackLevelPct synthesizes a level at current +-5% when no extremum
// qualifies on that side.
const fallbackLevelPct = 5.0

// DetectSupportResistance scans the window for local extrema using a 5-point
// symmetric comparison: a close is a peak (trough) when it strictly exceeds
// (is exceeded by) its two neighbors on each side. The nearest resistance is
// the smallest peak above the current price, the nearest support the largest
// trough below it. Stateless, O(len(closes)).
func DetectSupportResistance(closes []float64, current float64, proximityPct float64) models.SupportResistance {
	var peaks, troughs []float64
	for i := 2; i < len(closes)-2; i++ {
		c := closes[i]
		if c > closes[i-2] && c > closes[i-1] && c > closes[i+1] && c > closes[i+2] {
			peaks = append(peaks, c)
		}
		if c < closes[i-2] && c < closes[i-1] && c < closes[i+1] && c < closes[i+2] {
			troughs = append(troughs, c)
		}
	}

	resistance := 0.0
	for _, p := range peaks {
		if p > current && (resistance == 0 || p < resistance) {
			resistance = p
		}
	}
	if resistance == 0 {
		resistance = current * (1 + fallbackLevelPct/100)
	}

	support := 0.0
	for _, t := range troughs {
		if t < current && t > support {
			support = t
		}
	}
	if support == 0 {
		support = current * (1 - fallbackLevelPct/100)
	}

	sr := models.SupportResistance{
		NearestSupport:    support,
		NearestResistance: resistance,
	}
	if current > 0 {
		sr.DistanceToSupportPct = (current - support) / current * 100
		sr.DistanceToResistancePct = (resistance - current) / current * 100
	}
	sr.AtSupport = sr.DistanceToSupportPct <= proximityPct
	sr.AtResistance = sr.DistanceToResistancePct <= proximityPct
	return sr
}
