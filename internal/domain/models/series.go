package models

import (
	"errors"
	"fmt"
	"time"
)

// MinHistory is the smallest series a backtest will run against.
const MinHistory = 30

// NeutralSentiment is substituted when no index exists for a date.
const NeutralSentiment = 50.0

// ErrInsufficientHistory is returned when a series is too short to backtest.
var ErrInsufficientHistory = errors.New("cannot backtest without at least 30 days of history")

// PriceSnapshot is one day of the historical series: closing price, traded
// volume, and the 0-100 sentiment index for that date. Immutable once fetched.
type PriceSnapshot struct {
	Date           string // YYYY-MM-DD
	Timestamp      time.Time
	Price          float64
	Volume         float64
	SentimentIndex float64
}

// HistoricalSeries is an ordered daily series for one symbol. It is passed by
// value into the driver and treated as read-only for the whole run.
type HistoricalSeries struct {
	Symbol    string
	Snapshots []PriceSnapshot
}

func (s HistoricalSeries) Len() int { return len(s.Snapshots) }

// Closes returns closing prices, oldest first.
func (s HistoricalSeries) Closes() []float64 {
	out := make([]float64, len(s.Snapshots))
	for i, p := range s.Snapshots {
		out[i] = p.Price
	}
	return out
}

// Volumes returns traded volumes, oldest first.
func (s HistoricalSeries) Volumes() []float64 {
	out := make([]float64, len(s.Snapshots))
	for i, p := range s.Snapshots {
		out[i] = p.Volume
	}
	return out
}

// Validate checks the invariants the engine relies on: minimum length,
// ascending dates, positive prices.
func (s HistoricalSeries) Validate() error {
	if len(s.Snapshots) < MinHistory {
		return fmt.Errorf("series %s has %d snapshots: %w", s.Symbol, len(s.Snapshots), ErrInsufficientHistory)
	}
	for i, p := range s.Snapshots {
		if p.Price <= 0 {
			return fmt.Errorf("series %s: non-positive price at index %d", s.Symbol, i)
		}
		if i > 0 && !s.Snapshots[i-1].Timestamp.Before(p.Timestamp) {
			return fmt.Errorf("series %s: timestamps not ascending at index %d", s.Symbol, i)
		}
	}
	return nil
}
