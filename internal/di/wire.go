//go:build wireinject
// +build wireinject

package di

import (
	"Backcast/pkg/config"
	"Backcast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideRunStore,
		ProvideRunPublisher,

		// Use cases
		ProvideRunProcessor,
		ProvideHistoryUseCase,
		ProvideBacktestUseCase,
		ProvideJobsHandler,
		ProvideJobQueue,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
