package di

import (
	"context"
	"fmt"
	"time"

	domrepo "Backcast/internal/domain/repository"
	domsvc "Backcast/internal/domain/service"
	"Backcast/internal/handler/api"
	internalrepo "Backcast/internal/repository"
	"Backcast/internal/service/marketdata"
	"Backcast/internal/service/ratelimit"
	"Backcast/internal/service/sentiment"
	"Backcast/internal/usecase"
	pkgcache "Backcast/pkg/cache"
	pkgch "Backcast/pkg/clickhouse"
	"Backcast/pkg/config"
	xhttp "Backcast/pkg/http"
	pkgkafka "Backcast/pkg/kafka"
	applogger "Backcast/pkg/logger"
	"Backcast/pkg/metrics"
	"Backcast/pkg/queue"
	"Backcast/pkg/server"
)

// ProvideLogger creates the application logger with a collector attached so
// warn/error entries stay readable through the debug endpoint.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
	})
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideRunStore creates the run store and ensures its schema.
func ProvideRunStore(chClient *pkgch.Client, l *applogger.Logger) (domrepo.RunStore, error) {
	store := internalrepo.NewCHRunStore(chClient, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("run store init: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideRunPublisher creates the Kafka results publisher.
func ProvideRunPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	return internalrepo.NewKafkaRunPublisher(producer, cfg.Kafka.ResultsTopic)
}

// ProvideRunProcessor creates the run processor routing to the configured backend.
func ProvideRunProcessor(
	store domrepo.RunStore,
	pub domrepo.Publisher,
	m domrepo.Metrics,
	cfg *config.Config,
) *usecase.RunProcessor {
	return usecase.NewRunProcessor(store, pub, m, cfg.Results.Backend)
}

// ProvideCache creates the series cache: layered memory+Redis when Redis is
// enabled, plain memory otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) pkgcache.Service {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Warn("redis cache unavailable, falling back to memory", applogger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	return pkgcache.NewLayeredCache(rc)
}

// ProvideHistoryUseCase builds the history pipeline: rate-limited providers
// plus sentiment merge plus cache.
func ProvideHistoryUseCase(
	cfg *config.Config,
	cache pkgcache.Service,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.HistoryUseCase {
	limiter := ratelimit.New()
	p := cfg.Providers

	primary := marketdata.New("primary", p.Primary.BaseURL, p.Primary.APIKey, p.Primary.Timeout, limiter, p.MaxRPS)

	var fallback domsvc.HistoryProvider
	if p.Fallback.BaseURL != "" {
		fallback = marketdata.New("fallback", p.Fallback.BaseURL, "", p.Fallback.Timeout, limiter, p.MaxRPS)
	}

	var fng domsvc.SentimentProvider
	if p.Sentiment.BaseURL != "" {
		fng = sentiment.New(p.Sentiment.BaseURL, p.Sentiment.Timeout)
	}

	return usecase.NewHistoryUseCase(primary, fallback, fng, cache, p.CacheTTL, m, l)
}

// ProvideBacktestUseCase creates the core backtest use case.
func ProvideBacktestUseCase(
	history *usecase.HistoryUseCase,
	processor *usecase.RunProcessor,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.BacktestUseCase {
	return usecase.NewBacktestUseCase(history, processor, m, l, cfg)
}

// ProvideKafkaConsumer creates the jobs consumer, or nil when no jobs topic
// is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.JobsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideJobsHandler registers the handler for the jobs topic.
func ProvideJobsHandler(
	bt *usecase.BacktestUseCase,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.KafkaJobsHandler {
	return usecase.NewKafkaJobsHandler(cfg.Kafka.JobsTopic, bt, m, l)
}

// ProvideJobQueue creates the Redis-backed async job queue, or nil when Redis
// is disabled.
func ProvideJobQueue(
	cfg *config.Config,
	l *applogger.Logger,
	bt *usecase.BacktestUseCase,
) *queue.RedisQueue {
	if !cfg.Redis.Enabled {
		return nil
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Warn("redis unavailable, async queue disabled", applogger.Error(err))
		return nil
	}

	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, rc.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewBacktestJob(bt, l))
	return q
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	bt *usecase.BacktestUseCase,
	history *usecase.HistoryUseCase,
	store domrepo.RunStore,
	jobQueue *queue.RedisQueue,
) xhttp.Handler {
	var jobs queue.QueueService
	if jobQueue != nil {
		jobs = jobQueue
	}
	return api.NewBacktestHandler(l, bt, history, store, jobs)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	jobs *usecase.KafkaJobsHandler,
	jobQueue *queue.RedisQueue,
	chClient *pkgch.Client,
	processor *usecase.RunProcessor,
) *server.App {
	var kh pkgkafka.MessageHandler
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
		kh = jobs
	}
	return server.New(cfg, l, handler, consumer, kh, jobQueue, chClient, processor)
}
