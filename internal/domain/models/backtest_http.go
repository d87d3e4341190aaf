package models

import "fmt"

// Requests for the backtest HTTP endpoints. Defined in domain for consistency
// and reuse; engine overrides are optional and fall back to the preset.

type BacktestRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=30,lte=2000"`
	Preset string `query:"preset" json:"preset" default:"default" validate:"oneof=conservative default aggressive"`

	WindowSize             *int        `json:"windowSize,omitempty" validate:"omitempty,gte=20,lte=200"`
	MinimumScore           *int        `json:"minimumScore,omitempty" validate:"omitempty,gte=0,lte=10"`
	MaxHoldingDays         *int        `json:"maxHoldingDays,omitempty" validate:"omitempty,gte=1,lte=90"`
	SLVolatilityMultiplier *float64    `json:"slVolatilityMultiplier,omitempty" validate:"omitempty,gt=0,lte=10"`
	SLMin                  *float64    `json:"slMin,omitempty" validate:"omitempty,gt=0,lte=50"`
	SLMax                  *float64    `json:"slMax,omitempty" validate:"omitempty,gt=0,lte=50"`
	TPRatios               *[3]float64 `json:"tpRatios,omitempty"`
	SRProximityPct         *float64    `json:"srProximityPct,omitempty" validate:"omitempty,gt=0,lte=20"`
}

// Validate covers the cross-field rules the tag validator cannot express:
// take-profit ratios must be positive and strictly ascending, and the stop
// bounds must leave a non-empty range.
func (r *BacktestRequest) Validate() error {
	if r.TPRatios != nil {
		v := *r.TPRatios
		if v[0] <= 0 || !(v[0] < v[1] && v[1] < v[2]) {
			return fmt.Errorf("tpRatios must be positive and ascending")
		}
	}
	if r.SLMin != nil && r.SLMax != nil && *r.SLMin >= *r.SLMax {
		return fmt.Errorf("slMin must be below slMax")
	}
	return nil
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=30,lte=2000"`
}

type ListRunsRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}
