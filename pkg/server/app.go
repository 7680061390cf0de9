package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"InvenPulse/pkg/clickhouse"
	"InvenPulse/pkg/config"
	xhttp "InvenPulse/pkg/http"
	pkgkafka "InvenPulse/pkg/kafka"
	applogger "InvenPulse/pkg/logger"
	pkgqueue "InvenPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// StreamHub is the realtime fanout surface the app manages: it mounts its
// stream route and gets closed on shutdown.
type StreamHub interface {
	xhttp.Handler
	Close()
}

// routeSet registers several handlers on one Echo instance.
type routeSet struct {
	parts []xhttp.Handler
}

func (r routeSet) RegisterRoutes(e *echo.Echo) {
	for _, p := range r.parts {
		p.RegisterRoutes(e)
	}
}

// App encapsulates the application lifecycle: the HTTP API, the Kafka ingest
// consumer and the Redis-backed task queue.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	chClient *clickhouse.Client
	producer *pkgkafka.Producer
	consumer *pkgkafka.Consumer
	queue    *pkgqueue.RedisQueue
	hub      StreamHub
	api      xhttp.Handler
	ingestor pkgkafka.MessageHandler
	job      pkgqueue.Job

	httpServer *xhttp.Server
}

// New creates the App with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	chClient *clickhouse.Client,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	queue *pkgqueue.RedisQueue,
	hub StreamHub,
	api xhttp.Handler,
	ingestor pkgkafka.MessageHandler,
	job pkgqueue.Job,
) *App {
	return &App{
		cfg:      cfg,
		logger:   lgr,
		chClient: chClient,
		producer: producer,
		consumer: consumer,
		queue:    queue,
		hub:      hub,
		api:      api,
		ingestor: ingestor,
		job:      job,
	}
}

// Run starts every component and blocks until interrupted.
func (a *App) Run() error {
	a.queue.RegisterJob(a.job)
	if err := a.queue.Start(); err != nil {
		return fmt.Errorf("task queue start: %w", err)
	}

	a.consumer.RegisterHandler(a.ingestor)
	if err := a.consumer.Start(); err != nil {
		return fmt.Errorf("kafka consumer start: %w", err)
	}
	a.logger.Info("ingest consumer started", applogger.String("topic", a.ingestor.Topic()))

	metricsPath := a.cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if !a.cfg.Metrics.Enabled {
		metricsPath = ""
	}

	a.httpServer = xhttp.NewServer(a.logger,
		routeSet{parts: []xhttp.Handler{a.api, a.hub}},
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the intake surfaces first, then drains workers, then closes
// the infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.consumer.Stop(ctx); err != nil {
		a.logger.Warn("kafka consumer stop error", applogger.Error(err))
	}

	if err := a.queue.Stop(ctx); err != nil {
		a.logger.Warn("task queue stop error", applogger.Error(err))
	}

	a.hub.Close()

	if err := a.producer.Close(); err != nil {
		a.logger.Warn("kafka producer close error", applogger.Error(err))
	}

	if err := a.chClient.Close(); err != nil {
		a.logger.Warn("clickhouse close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
