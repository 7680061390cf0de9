package repository

import (
	"context"
	"time"

	"InvenPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

// ItemStore reads the item catalog and persists the engine-owned statistics
// snapshots.
type ItemStore interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	GetAll(ctx context.Context) ([]models.Item, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Item, error)
	GetByCategory(ctx context.Context, categoryID string) ([]models.Item, error)
	SaveStatistics(ctx context.Context, itemID string, stats models.ItemStatistics) error
	SaveStatisticsBatch(ctx context.Context, batch []models.ItemStatistics) error
}

// ConsumptionStore reads and writes raw daily observations.
type ConsumptionStore interface {
	RecordsForItem(ctx context.Context, itemID string, from, to time.Time) ([]models.ConsumptionRecord, error)
	RecordsForWindow(ctx context.Context, from, to time.Time) ([]models.ConsumptionRecord, error)
	Store(ctx context.Context, rec *models.ConsumptionRecord) error
	StoreBatch(ctx context.Context, recs []*models.ConsumptionRecord) error
}

// CorrelationStore persists the pairwise correlation graph.
type CorrelationStore interface {
	Find(ctx context.Context, item1, item2 string) (*models.CorrelationEdge, error)
	Save(ctx context.Context, edge *models.CorrelationEdge) error
	DeleteAll(ctx context.Context) error
	SignificantForItem(ctx context.Context, itemID string, threshold decimal.Decimal, limit int) ([]models.CorrelationEdge, error)
}

// TaskQueue hands background work off the write path. Enqueue failures are
// the caller's to log; they never fail the triggering write.
type TaskQueue interface {
	EnqueueCorrelationRecalc(ctx context.Context, itemID string) error
}

// EventPublisher fans recompute outcomes out to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AnalyticsEvent) error
}

// Metrics records engine-level observability signals.
type Metrics interface {
	RecordSnapshotComputed(outcome string)
	RecordCorrelationPairs(outcome string, n int)
	RecordIngested(n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
