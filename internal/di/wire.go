//go:build wireinject
// +build wireinject

package di

import (
	"InvenPulse/pkg/config"
	"InvenPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,
		ProvideRedisQueue,

		// Stores and event fanout
		ProvideItemStore,
		ProvideConsumptionStore,
		ProvideCorrelationStore,
		ProvideTaskQueue,
		ProvideHub,
		ProvideEventPublisher,

		// Calculators
		ProvideStatisticsCalculator,
		ProvidePearsonCalculator,
		ProvideSeriesExtractor,

		// Use cases and handlers
		ProvideStatisticsUsecase,
		ProvideCorrelationUsecase,
		ProvideIngestor,
		ProvideCorrelationJob,
		ProvideBytesCache,
		ProvideAPIHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
