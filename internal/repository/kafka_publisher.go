package repository

import (
	"context"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	pkgkafka "Backcast/pkg/kafka"
)

// KafkaRunPublisher emits completed runs to the results topic. The trade list
// can be large, so only the summary goes on the wire; consumers needing the
// full trade log read it from the store by run id.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaRunPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaRunPublisher{producer: producer, topic: topic}
}

func (p *KafkaRunPublisher) Publish(ctx context.Context, run *models.BacktestRun) error {
	return p.producer.Publish(ctx, p.topic, []byte(run.Symbol), map[string]interface{}{
		"id":         run.ID,
		"symbol":     run.Symbol,
		"preset":     run.Preset,
		"days":       run.Days,
		"created_at": run.CreatedAt,
		"result":     run.Result,
	})
}

func (p *KafkaRunPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
