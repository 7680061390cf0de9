package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "InvenPulse/internal/domain/repository"
	domservice "InvenPulse/internal/domain/service"
	"InvenPulse/internal/handler/api"
	"InvenPulse/internal/handler/ws"
	"InvenPulse/internal/jobs"
	internalrepo "InvenPulse/internal/repository"
	"InvenPulse/internal/service/cache"
	"InvenPulse/internal/service/ratelimit"
	"InvenPulse/internal/services/analytics"
	"InvenPulse/internal/usecase"
	pkgch "InvenPulse/pkg/clickhouse"
	"InvenPulse/pkg/config"
	pkgkafka "InvenPulse/pkg/kafka"
	applogger "InvenPulse/pkg/logger"
	"InvenPulse/pkg/metrics"
	pkgqueue "InvenPulse/pkg/queue"
	"InvenPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	return applogger.New(lc)
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithProducerTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates the ingest consumer. Poison events go to the
// ingest topic's companion DLQ.
func ProvideKafkaConsumer(cfg *config.Config, lgr *applogger.Logger) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(lgr,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.IngestTopic+".dlq"),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideRedisClient creates the Redis connection backing the task queue.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.Addr,
		Password: cfg.Queue.Password,
		DB:       cfg.Queue.DB,
	})
}

// ProvideRedisQueue creates the background task queue. The API process both
// enqueues and consumes, so the queue runs in producer-consumer mode.
func ProvideRedisQueue(cfg *config.Config, lgr *applogger.Logger, client *redis.Client) *pkgqueue.RedisQueue {
	return pkgqueue.NewRedisQueue(lgr, &pkgqueue.Config{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, pkgqueue.ModeProducerConsumer)
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideItemStore creates the ClickHouse item store.
func ProvideItemStore(chClient *pkgch.Client, lgr *applogger.Logger) domrepo.ItemStore {
	return internalrepo.NewCHItemStore(chClient, lgr)
}

// ProvideConsumptionStore creates the ClickHouse consumption store.
func ProvideConsumptionStore(chClient *pkgch.Client, lgr *applogger.Logger) domrepo.ConsumptionStore {
	return internalrepo.NewCHConsumptionStore(chClient, lgr)
}

// ProvideCorrelationStore creates the ClickHouse correlation edge store.
func ProvideCorrelationStore(chClient *pkgch.Client, lgr *applogger.Logger) domrepo.CorrelationStore {
	return internalrepo.NewCHCorrelationStore(chClient, lgr)
}

// ProvideTaskQueue adapts the Redis queue to the domain task queue.
func ProvideTaskQueue(rq *pkgqueue.RedisQueue) domrepo.TaskQueue {
	return internalrepo.NewRedisTaskQueue(rq)
}

// ProvideHub creates the dashboard websocket hub.
func ProvideHub(lgr *applogger.Logger) *ws.Hub {
	return ws.NewHub(lgr)
}

// ProvideEventPublisher fans analytics events out to Kafka and to connected
// dashboard clients.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer, hub *ws.Hub) domrepo.EventPublisher {
	return internalrepo.NewFanoutPublisher(
		internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic),
		hub,
	)
}

// ProvideStatisticsCalculator creates the snapshot calculator.
func ProvideStatisticsCalculator() domservice.StatisticsCalculator {
	return analytics.NewCalculator()
}

// ProvidePearsonCalculator creates the correlation calculator from the
// configured thresholds.
func ProvidePearsonCalculator(cfg *config.Config) *analytics.PearsonCalculator {
	return analytics.NewPearsonCalculator(
		cfg.Analytics.MinDataPoints,
		cfg.Analytics.SignificanceThreshold,
		cfg.Analytics.StrongThreshold,
	)
}

// ProvideSeriesExtractor creates the daily series extractor.
func ProvideSeriesExtractor(cfg *config.Config) *analytics.SeriesExtractor {
	return analytics.NewSeriesExtractor(cfg.Analytics.MinDataPoints)
}

// ProvideStatisticsUsecase creates the statistics use case.
func ProvideStatisticsUsecase(
	cfg *config.Config,
	items domrepo.ItemStore,
	consumption domrepo.ConsumptionStore,
	calc domservice.StatisticsCalculator,
	extractor *analytics.SeriesExtractor,
	publisher domrepo.EventPublisher,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.StatisticsUsecase {
	return usecase.NewStatisticsUsecase(items, consumption, calc, extractor, publisher, m, lgr, cfg.Analytics.WindowDays)
}

// ProvideCorrelationUsecase creates the correlation use case. Correlations
// run over their own, longer window.
func ProvideCorrelationUsecase(
	cfg *config.Config,
	items domrepo.ItemStore,
	consumption domrepo.ConsumptionStore,
	correlations domrepo.CorrelationStore,
	calc *analytics.PearsonCalculator,
	extractor *analytics.SeriesExtractor,
	publisher domrepo.EventPublisher,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.CorrelationUsecase {
	return usecase.NewCorrelationUsecase(items, consumption, correlations, calc, extractor, publisher, m, lgr, cfg.Analytics.CorrelationWindowDays)
}

// ProvideIngestor creates the Kafka handler for the consumption topic.
func ProvideIngestor(
	cfg *config.Config,
	consumption domrepo.ConsumptionStore,
	tasks domrepo.TaskQueue,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.ConsumptionIngestor {
	return usecase.NewConsumptionIngestor(consumption, tasks, m, lgr, cfg.Kafka.IngestTopic)
}

// ProvideCorrelationJob creates the queued per-item correlation refresh job.
func ProvideCorrelationJob(correlations *usecase.CorrelationUsecase, lgr *applogger.Logger) *jobs.RecalculateCorrelationsJob {
	return jobs.NewRecalculateCorrelationsJob(correlations, lgr)
}

// ProvideBytesCache picks the response cache backend. With Redis around for
// the task queue the cache rides the same connection so replicas share hits;
// without it the handler falls back to the in-process cache.
func ProvideBytesCache(cfg *config.Config, client *redis.Client) cache.BytesCache {
	if cfg.Queue.Addr != "" {
		return cache.NewRedisCache(client)
	}
	return cache.NewTTLCache()
}

// ProvideAPIHandler creates the HTTP handler with its response cache and the
// sweep rate limiter.
func ProvideAPIHandler(
	cfg *config.Config,
	lgr *applogger.Logger,
	stats *usecase.StatisticsUsecase,
	correlations *usecase.CorrelationUsecase,
	bytesCache cache.BytesCache,
) *api.AnalyticsHandler {
	return api.NewAnalyticsHandler(
		lgr,
		stats,
		correlations,
		bytesCache,
		ratelimit.New(),
		cfg.Analytics.DashboardCacheTTL,
		cfg.Analytics.RecommendationTTL,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	rq *pkgqueue.RedisQueue,
	hub *ws.Hub,
	apiHandler *api.AnalyticsHandler,
	ingestor *usecase.ConsumptionIngestor,
	job *jobs.RecalculateCorrelationsJob,
) *server.App {
	return server.New(cfg, lgr, chClient, producer, consumer, rq, hub, apiHandler, ingestor, job)
}
