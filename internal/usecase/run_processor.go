package usecase

import (
	"context"
	"fmt"
	"time"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
)

// RunProcessor routes completed runs to the configured result backend:
// ClickHouse, Kafka, or both.
type RunProcessor struct {
	store   domrepo.RunStore
	pub     domrepo.Publisher
	metrics domrepo.Metrics
	backend string
}

func NewRunProcessor(store domrepo.RunStore, pub domrepo.Publisher, metrics domrepo.Metrics, backend string) *RunProcessor {
	return &RunProcessor{store: store, pub: pub, metrics: metrics, backend: backend}
}

func (p *RunProcessor) Process(ctx context.Context, run *models.BacktestRun) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "clickhouse":
		err = p.store.Store(ctx, run)
	case "kafka":
		err = p.pub.Publish(ctx, run)
	case "both":
		if err = p.store.Store(ctx, run); err == nil {
			err = p.pub.Publish(ctx, run)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_run")
		return fmt.Errorf("process run: %w", err)
	}

	p.metrics.RecordLatency("process_run", time.Since(start).Seconds())
	return nil
}

// Close releases backend connections.
func (p *RunProcessor) Close() {
	if p.store != nil {
		_ = p.store.Close()
	}
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
