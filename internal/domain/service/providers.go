package service

import (
	"context"

	"Backcast/internal/domain/models"
)

// HistoryProvider supplies an ordered daily price/volume series for a symbol.
// Implementations must return snapshots in ascending date order with no gaps
// larger than one day, or an error.
type HistoryProvider interface {
	DailyHistory(ctx context.Context, symbol string, days int) ([]models.PriceSnapshot, error)
	Name() string
}

// SentimentProvider supplies a 0-100 sentiment index keyed by YYYY-MM-DD date.
// Days absent from the map default to models.NeutralSentiment.
type SentimentProvider interface {
	DailyIndex(ctx context.Context, days int) (map[string]float64, error)
}
