package engine

import "testing"

func TestDetectSupportResistanceExtrema(t *testing.T) {
	closes := []float64{100, 95, 90, 95, 100, 105, 110, 105, 100}
	sr := DetectSupportResistance(closes, 100, 2.0)

	if sr.NearestSupport != 90 {
		t.Fatalf("support %v want 90", sr.NearestSupport)
	}
	if sr.NearestResistance != 110 {
		t.Fatalf("resistance %v want 110", sr.NearestResistance)
	}
	if !almostEqual(sr.DistanceToSupportPct, 10, 1e-9) {
		t.Fatalf("support distance %v want 10", sr.DistanceToSupportPct)
	}
	if !almostEqual(sr.DistanceToResistancePct, 10, 1e-9) {
		t.Fatalf("resistance distance %v want 10", sr.DistanceToResistancePct)
	}
	if sr.AtSupport || sr.AtResistance {
		t.Fatalf("10%% away should not read as at-level")
	}
}

func TestDetectSupportResistanceFallback(t *testing.T) {
	// monotone series has no 5-point extrema
	closes := []float64{90, 92, 94, 96, 98, 100}
	sr := DetectSupportResistance(closes, 100, 2.0)

	if !almostEqual(sr.NearestSupport, 95, 1e-9) {
		t.Fatalf("support %v want 95", sr.NearestSupport)
	}
	if !almostEqual(sr.NearestResistance, 105, 1e-9) {
		t.Fatalf("resistance %v want 105", sr.NearestResistance)
	}
}

func TestDetectSupportResistanceProximityFlags(t *testing.T) {
	closes := []float64{100, 95, 90, 95, 100, 105, 110, 105, 100}

	sr := DetectSupportResistance(closes, 91, 2.0)
	if !sr.AtSupport {
		t.Fatalf("price 91 against support 90 should flag at-support")
	}

	sr = DetectSupportResistance(closes, 109, 2.0)
	if !sr.AtResistance {
		t.Fatalf("price 109 against resistance 110 should flag at-resistance")
	}
}

func TestDetectSupportResistancePicksNearestLevels(t *testing.T) {
	// two troughs below current: 80 and 90; two peaks above: 110 and 120
	closes := []float64{
		100, 90, 80, 90, 100,
		110, 120, 110, 100,
		95, 90, 95, 100,
		105, 110, 105, 100,
	}
	sr := DetectSupportResistance(closes, 100, 2.0)
	if sr.NearestSupport != 90 {
		t.Fatalf("support %v want 90 (largest trough below)", sr.NearestSupport)
	}
	if sr.NearestResistance != 110 {
		t.Fatalf("resistance %v want 110 (smallest peak above)", sr.NearestResistance)
	}
}
