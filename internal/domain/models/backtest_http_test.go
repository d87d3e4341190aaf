package models

import "testing"

func TestBacktestRequestValidateTPRatios(t *testing.T) {
	asc := [3]float64{1.5, 2.5, 4.0}
	req := BacktestRequest{TPRatios: &asc}
	if err := req.Validate(); err != nil {
		t.Fatalf("ascending ratios rejected: %v", err)
	}

	req.TPRatios = nil
	if err := req.Validate(); err != nil {
		t.Fatalf("nil override rejected: %v", err)
	}

	desc := [3]float64{3, 2, 1}
	req.TPRatios = &desc
	if err := req.Validate(); err == nil {
		t.Fatalf("descending ratios must be rejected")
	}

	flat := [3]float64{2, 2, 4}
	req.TPRatios = &flat
	if err := req.Validate(); err == nil {
		t.Fatalf("equal ratios must be rejected")
	}

	zero := [3]float64{0, 1, 2}
	req.TPRatios = &zero
	if err := req.Validate(); err == nil {
		t.Fatalf("non-positive ratio must be rejected")
	}
}

func TestBacktestRequestValidateSLBounds(t *testing.T) {
	lo, hi := 3.0, 2.0
	req := BacktestRequest{SLMin: &lo, SLMax: &hi}
	if err := req.Validate(); err == nil {
		t.Fatalf("slMin above slMax must be rejected")
	}

	lo, hi = 1.5, 8.0
	req = BacktestRequest{SLMin: &lo, SLMax: &hi}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid bounds rejected: %v", err)
	}
}
