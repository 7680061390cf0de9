package usecase

import (
	"context"
	"time"

	"InvenPulse/internal/domain/models"
	"InvenPulse/pkg/logger"

	"github.com/google/uuid"
)

// RecalculateAll recomputes statistics for the whole catalog with one window
// fetch, grouping observations per item in memory. Element failures are
// captured and the run continues; the batch is persisted in one write.
func (u *StatisticsUsecase) RecalculateAll(ctx context.Context, windowDays int) (*models.BatchSummary, error) {
	items, err := u.items.GetAll(ctx)
	if err != nil {
		u.metrics.RecordError("batch_recalculate")
		return nil, err
	}
	return u.recalculate(ctx, items, windowDays)
}

// RecalculateItems recomputes statistics for an explicit subset of the catalog.
func (u *StatisticsUsecase) RecalculateItems(ctx context.Context, ids []string, windowDays int) (*models.BatchSummary, error) {
	items, err := u.items.GetByIDs(ctx, ids)
	if err != nil {
		u.metrics.RecordError("batch_recalculate")
		return nil, err
	}
	return u.recalculate(ctx, items, windowDays)
}

func (u *StatisticsUsecase) recalculate(ctx context.Context, items []models.Item, windowDays int) (*models.BatchSummary, error) {
	start := time.Now()
	summary := &models.BatchSummary{
		RunID: uuid.NewString(),
		Total: len(items),
	}

	windowDays, from, to := u.window(windowDays, start)

	records, err := u.consumption.RecordsForWindow(ctx, from, to)
	if err != nil {
		u.metrics.RecordError("batch_recalculate")
		return nil, err
	}

	byItem := make(map[string][]models.ConsumptionRecord)
	for _, rec := range records {
		byItem[rec.ItemID] = append(byItem[rec.ItemID], rec)
	}

	batch := make([]models.ItemStatistics, 0, len(items))
	for i := range items {
		item := &items[i]
		stats, err := u.buildSnapshot(item, byItem[item.ID], windowDays, from, to, start)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ItemError{ItemID: item.ID, Message: err.Error()})
			u.metrics.RecordSnapshotComputed("failed")
			continue
		}
		if stats.Volatility == models.VolatilityNoData {
			summary.NoData++
			u.metrics.RecordSnapshotComputed("no_data")
		} else {
			summary.Computed++
			u.metrics.RecordSnapshotComputed("computed")
		}
		batch = append(batch, stats)
	}

	if err := u.items.SaveStatisticsBatch(ctx, batch); err != nil {
		u.metrics.RecordError("batch_recalculate")
		return nil, err
	}

	summary.ElapsedMS = time.Since(start).Milliseconds()
	u.metrics.RecordLatency("batch_recalculate", time.Since(start).Seconds())
	u.logger.Info("statistics recalculation finished",
		logger.String("run_id", summary.RunID),
		logger.Int("total", summary.Total),
		logger.Int("computed", summary.Computed),
		logger.Int("no_data", summary.NoData),
		logger.Int64("elapsed_ms", summary.ElapsedMS))

	u.publishEvent(ctx, models.EventBatchStatistics, summary)
	return summary, nil
}

// publishEvent is fire-and-forget: a broken events topic never fails a run.
func (u *StatisticsUsecase) publishEvent(ctx context.Context, kind string, payload interface{}) {
	if u.publisher == nil {
		return
	}
	event := models.AnalyticsEvent{Kind: kind, Timestamp: time.Now(), Payload: payload}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.metrics.RecordError("event_publish")
		u.logger.Warn("event publish failed",
			logger.String("kind", kind),
			logger.Error(err))
	}
}
