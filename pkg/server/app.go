package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Backcast/internal/usecase"
	pkgch "Backcast/pkg/clickhouse"
	"Backcast/pkg/config"
	xhttp "Backcast/pkg/http"
	pkgkafka "Backcast/pkg/kafka"
	applogger "Backcast/pkg/logger"
	"Backcast/pkg/queue"
)

// App wires the running pieces together: the HTTP API, the optional Kafka
// jobs consumer and the optional Redis job queue, plus graceful shutdown.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	consumer   *pkgkafka.Consumer
	jobs       pkgkafka.MessageHandler
	jobQueue   *queue.RedisQueue
	chClient   *pkgch.Client
	processor  *usecase.RunProcessor
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. Consumer, queue and
// ClickHouse client may be nil when the deployment does not use them.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	jobs pkgkafka.MessageHandler,
	jobQueue *queue.RedisQueue,
	chClient *pkgch.Client,
	processor *usecase.RunProcessor,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		consumer:  consumer,
		jobs:      jobs,
		jobQueue:  jobQueue,
		chClient:  chClient,
		processor: processor,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.consumer != nil && a.jobs != nil {
		a.consumer.RegisterHandler(a.jobs)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka jobs consumer started", applogger.String("topic", a.jobs.Topic()))
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			a.logger.Error("job queue start error", applogger.Error(err))
		} else {
			a.logger.Info("redis job queue started")
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("backcast up", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops intake first, then drains, then closes clients.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			a.logger.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.processor != nil {
		a.processor.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
