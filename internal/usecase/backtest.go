package usecase

import (
	"context"
	"fmt"
	"time"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	enginemetrics "Backcast/internal/service/metrics"
	"Backcast/internal/services/engine"
	"Backcast/pkg/config"
	applogger "Backcast/pkg/logger"
)

// BacktestUseCase ties the engine to the outside world: it resolves the
// effective configuration for a request, fetches the series, runs the
// simulation and hands the finished run to the processor.
type BacktestUseCase struct {
	history   *HistoryUseCase
	processor *RunProcessor
	metrics   domrepo.Metrics
	logger    *applogger.Logger
	cfg       *config.Config
}

func NewBacktestUseCase(
	history *HistoryUseCase,
	processor *RunProcessor,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *BacktestUseCase {
	enginemetrics.Register()
	return &BacktestUseCase{
		history:   history,
		processor: processor,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Execute runs one backtest synchronously and returns the stored run.
func (uc *BacktestUseCase) Execute(ctx context.Context, req *models.BacktestRequest) (*models.BacktestRun, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	preset := req.Preset
	if preset == "" {
		preset = uc.cfg.Backtest.DefaultPreset
	}
	scoring, ok := engine.Presets()[preset]
	if !ok {
		return nil, fmt.Errorf("backtest: unknown preset %q", preset)
	}

	params := uc.resolveParams(req, scoring)

	fetchStart := time.Now()
	series, err := uc.history.Series(ctx, req.Symbol, req.Days)
	if err != nil {
		uc.metrics.RecordError("history")
		enginemetrics.EngineErrors.WithLabelValues("history").Inc()
		return nil, err
	}
	enginemetrics.EngineLatency.WithLabelValues("history").Observe(time.Since(fetchStart).Seconds())
	params.Series = series

	simStart := time.Now()
	result, trades, err := RunBacktest(params)
	if err != nil {
		uc.metrics.RecordError("engine")
		enginemetrics.EngineErrors.WithLabelValues("simulate").Inc()
		return nil, err
	}
	enginemetrics.EngineLatency.WithLabelValues("simulate").Observe(time.Since(simStart).Seconds())

	run := &models.BacktestRun{
		ID:        fmt.Sprintf("%s-%d", req.Symbol, time.Now().UnixNano()),
		Symbol:    req.Symbol,
		Preset:    preset,
		Days:      req.Days,
		CreatedAt: time.Now().UTC(),
		Result:    result,
		Trades:    trades,
	}

	if err := uc.processor.Process(ctx, run); err != nil {
		uc.metrics.RecordError("process")
		uc.logger.Error("run processing failed",
			applogger.String("run_id", run.ID),
			applogger.Error(err),
		)
		// Keep serving the result; persistence failures are not the caller's
		// problem.
	}

	uc.metrics.RecordRun(req.Symbol, preset)
	uc.metrics.RecordTrades(req.Symbol, result.TotalTrades)
	uc.metrics.RecordRejected(req.Symbol, result.RejectedSignals)
	uc.metrics.RecordWinRate(req.Symbol, result.WinRate)
	uc.metrics.RecordLatency("backtest", time.Since(start).Seconds())

	uc.logger.Info("backtest complete",
		applogger.String("run_id", run.ID),
		applogger.String("symbol", req.Symbol),
		applogger.String("preset", preset),
		applogger.Int("trades", result.TotalTrades),
		applogger.Int("rejected", result.RejectedSignals),
		applogger.Duration("took", time.Since(start)),
	)
	return run, nil
}

// resolveParams layers preset defaults, service config and per-request
// overrides, in that order.
func (uc *BacktestUseCase) resolveParams(req *models.BacktestRequest, scoring engine.ScoringConfig) RunParams {
	bc := uc.cfg.Backtest
	levels := engine.DefaultLevelConfig()

	if bc.MinimumScore > 0 {
		scoring.MinimumScore = bc.MinimumScore
	}
	if bc.SRProximityPct > 0 {
		scoring.SRProximityPct = bc.SRProximityPct
	}
	if bc.SLVolatilityMultiplier > 0 {
		levels.SLVolatilityMultiplier = bc.SLVolatilityMultiplier
	}
	if bc.SLMin > 0 {
		levels.SLMinPct = bc.SLMin
	}
	if bc.SLMax > 0 {
		levels.SLMaxPct = bc.SLMax
	}
	if bc.TPRatios[0] > 0 {
		levels.TPRatios = bc.TPRatios
	}

	p := RunParams{
		Indicators:     engine.DefaultIndicatorConfig(),
		Scoring:        scoring,
		Levels:         levels,
		WindowSize:     bc.WindowSize,
		MaxHoldingDays: bc.MaxHoldingDays,
		MinSkip:        bc.MinSkip,
		MaxTrades:      bc.MaxTrades,
	}

	if req.WindowSize != nil {
		p.WindowSize = *req.WindowSize
	}
	if req.MinimumScore != nil {
		p.Scoring.MinimumScore = *req.MinimumScore
	}
	if req.MaxHoldingDays != nil {
		p.MaxHoldingDays = *req.MaxHoldingDays
	}
	if req.SLVolatilityMultiplier != nil {
		p.Levels.SLVolatilityMultiplier = *req.SLVolatilityMultiplier
	}
	if req.SLMin != nil {
		p.Levels.SLMinPct = *req.SLMin
	}
	if req.SLMax != nil {
		p.Levels.SLMaxPct = *req.SLMax
	}
	if req.TPRatios != nil {
		p.Levels.TPRatios = *req.TPRatios
	}
	if req.SRProximityPct != nil {
		p.Scoring.SRProximityPct = *req.SRProximityPct
	}
	return p
}
