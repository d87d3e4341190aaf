package usecase

import (
	"context"
	"fmt"

	"Backcast/internal/domain/models"
	"Backcast/pkg/queue"
	applogger "Backcast/pkg/logger"
)

// BacktestJobType is the queue message type for async backtest requests.
const BacktestJobType = "backtest.run"

// BacktestJobPayload is what POST /api/backtest/async enqueues.
type BacktestJobPayload struct {
	Symbol string `json:"symbol"`
	Days   int    `json:"days"`
	Preset string `json:"preset"`
}

// BacktestJob drains the async queue: each message is one full backtest run.
type BacktestJob struct {
	bt     *BacktestUseCase
	logger *applogger.Logger
}

func NewBacktestJob(bt *BacktestUseCase, logger *applogger.Logger) *BacktestJob {
	return &BacktestJob{bt: bt, logger: logger}
}

func (j *BacktestJob) Name() string { return "backtest_runner" }
func (j *BacktestJob) Type() string { return BacktestJobType }

func (j *BacktestJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BacktestJobPayload](payload)
	if err != nil {
		return fmt.Errorf("backtest job: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("backtest job: symbol is required")
	}
	if p.Days <= 0 {
		p.Days = 365
	}

	run, err := j.bt.Execute(ctx, &models.BacktestRequest{Symbol: p.Symbol, Days: p.Days, Preset: p.Preset})
	if err != nil {
		return fmt.Errorf("backtest job %s: %w", p.Symbol, err)
	}

	j.logger.Info("queued backtest complete",
		applogger.String("run_id", run.ID),
		applogger.String("symbol", p.Symbol),
	)
	return nil
}

var _ queue.Job = (*BacktestJob)(nil)
