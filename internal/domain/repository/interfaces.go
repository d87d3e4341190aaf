package repository

import (
	"context"
	"errors"

	"Backcast/internal/domain/models"
)

// ErrRunNotFound is returned when no stored run matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunStore persists completed backtest runs and their trade records.
type RunStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, run *models.BacktestRun) error
	Get(ctx context.Context, id string) (*models.BacktestRun, error)
	List(ctx context.Context, symbol string, limit int) ([]*models.BacktestRun, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits completed run summaries to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, run *models.BacktestRun) error
	Close() error
}

// Metrics records operational counters for the service.
type Metrics interface {
	RecordRun(symbol, preset string)
	RecordTrades(symbol string, n int)
	RecordRejected(symbol string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordWinRate(symbol string, pct float64)
}
