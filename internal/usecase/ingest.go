package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
	"InvenPulse/pkg/logger"
	"InvenPulse/pkg/util"
)

// ConsumptionIngestor consumes observation events from the ingest topic,
// stores them and schedules the per-item correlation refresh. Implements
// pkg/kafka.MessageHandler.
type ConsumptionIngestor struct {
	consumption domrepo.ConsumptionStore
	tasks       domrepo.TaskQueue
	metrics     domrepo.Metrics
	logger      *logger.Logger
	topic       string
}

func NewConsumptionIngestor(
	consumption domrepo.ConsumptionStore,
	tasks domrepo.TaskQueue,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
	topic string,
) *ConsumptionIngestor {
	return &ConsumptionIngestor{
		consumption: consumption,
		tasks:       tasks,
		metrics:     metrics,
		logger:      lgr,
		topic:       topic,
	}
}

func (i *ConsumptionIngestor) Topic() string { return i.topic }

// Handle stores one consumption event. The correlation refresh is queued
// best-effort: a full queue never rejects the observation.
func (i *ConsumptionIngestor) Handle(ctx context.Context, data []byte) error {
	var event models.ConsumptionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		i.metrics.RecordError("ingest_decode")
		return fmt.Errorf("decode consumption event: %w", err)
	}

	if event.ItemID == "" {
		i.metrics.RecordError("ingest_validate")
		return fmt.Errorf("consumption event missing item_id")
	}
	day, ok := util.ParseDay(event.Day)
	if !ok {
		i.metrics.RecordError("ingest_validate")
		return fmt.Errorf("consumption event day %q is not YYYY-MM-DD", event.Day)
	}
	if event.Consumed.IsNegative() {
		i.metrics.RecordError("ingest_validate")
		return fmt.Errorf("consumption event for %s has negative consumed", event.ItemID)
	}

	rec := &models.ConsumptionRecord{
		ItemID:       event.ItemID,
		CategoryID:   event.CategoryID,
		Day:          day,
		Consumed:     event.Consumed,
		Received:     event.Received,
		OpeningStock: event.OpeningStock,
		ClosingStock: event.ClosingStock,
	}
	if err := i.consumption.Store(ctx, rec); err != nil {
		i.metrics.RecordError("ingest_store")
		return fmt.Errorf("store consumption record: %w", err)
	}
	i.metrics.RecordIngested(1)

	if err := i.tasks.EnqueueCorrelationRecalc(ctx, event.ItemID); err != nil {
		i.metrics.RecordError("task_enqueue")
		i.logger.Warn("correlation refresh not queued",
			logger.String("item_id", event.ItemID),
			logger.Error(err))
	}

	return nil
}
