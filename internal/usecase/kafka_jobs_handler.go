package usecase

import (
	"context"
	"encoding/json"
	"time"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	pkgkafka "Backcast/pkg/kafka"
	applogger "Backcast/pkg/logger"
)

// KafkaJobsHandler consumes backtest job messages and executes them.
type KafkaJobsHandler struct {
	topic   string
	bt      *BacktestUseCase
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewKafkaJobsHandler(topic string, bt *BacktestUseCase, metrics domrepo.Metrics, logger *applogger.Logger) *KafkaJobsHandler {
	return &KafkaJobsHandler{topic: topic, bt: bt, metrics: metrics, logger: logger}
}

func (h *KafkaJobsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, days, preset}
func (h *KafkaJobsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string `json:"symbol"`
		Days   int    `json:"days"`
		Preset string `json:"preset"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("jobs_unmarshal")
		return err
	}
	if m.Days <= 0 {
		m.Days = 365
	}

	start := time.Now()
	run, err := h.bt.Execute(ctx, &models.BacktestRequest{Symbol: m.Symbol, Days: m.Days, Preset: m.Preset})
	h.metrics.RecordLatency("job_backtest", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("jobs_execute")
		return err
	}

	h.logger.Info("job backtest complete",
		applogger.String("run_id", run.ID),
		applogger.String("symbol", m.Symbol),
	)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaJobsHandler)(nil)
