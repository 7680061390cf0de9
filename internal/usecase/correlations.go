package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
	"InvenPulse/internal/services/analytics"
	"InvenPulse/pkg/logger"
	"InvenPulse/pkg/util"

	"github.com/google/uuid"
)

const topEdgeCount = 10

// CorrelationUsecase maintains the pairwise correlation graph.
type CorrelationUsecase struct {
	items        domrepo.ItemStore
	consumption  domrepo.ConsumptionStore
	correlations domrepo.CorrelationStore
	calc         *analytics.PearsonCalculator
	extractor    *analytics.SeriesExtractor
	publisher    domrepo.EventPublisher
	metrics      domrepo.Metrics
	logger       *logger.Logger
	windowDays   int
}

func NewCorrelationUsecase(
	items domrepo.ItemStore,
	consumption domrepo.ConsumptionStore,
	correlations domrepo.CorrelationStore,
	calc *analytics.PearsonCalculator,
	extractor *analytics.SeriesExtractor,
	publisher domrepo.EventPublisher,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
	windowDays int,
) *CorrelationUsecase {
	return &CorrelationUsecase{
		items:        items,
		consumption:  consumption,
		correlations: correlations,
		calc:         calc,
		extractor:    extractor,
		publisher:    publisher,
		metrics:      metrics,
		logger:       lgr,
		windowDays:   windowDays,
	}
}

// groupedWindow fetches the correlation window once and groups records per item.
func (u *CorrelationUsecase) groupedWindow(ctx context.Context, now time.Time) (map[string][]models.ConsumptionRecord, error) {
	to := util.Day(now)
	from := util.WindowStart(to, u.windowDays)
	records, err := u.consumption.RecordsForWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]models.ConsumptionRecord)
	for _, rec := range records {
		byItem[rec.ItemID] = append(byItem[rec.ItemID], rec)
	}
	return byItem, nil
}

// scorePair computes and persists one edge. The edge is saved even when the
// coefficient drops below the significance threshold, so a previously strong
// pair is overwritten rather than left stale. Pairs below the data gate are
// not written at all.
func (u *CorrelationUsecase) scorePair(ctx context.Context, item1, item2 string, a, b []models.ConsumptionRecord, now time.Time) (*models.CorrelationEdge, error) {
	xs, ys, _, err := u.extractor.AlignedPair(a, b)
	if err != nil {
		return nil, err
	}

	r, err := u.calc.Pearson(xs, ys)
	if err != nil {
		return nil, err
	}

	edge := &models.CorrelationEdge{
		Item1:          item1,
		Item2:          item2,
		Coefficient:    r,
		Type:           u.calc.Classify(r),
		DataPoints:     len(xs),
		Confidence:     analytics.ConfidenceFor(len(xs)),
		Active:         u.calc.IsSignificant(r),
		LastCalculated: now,
	}

	if err := u.correlations.Save(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// RecalculateAll sweeps every unordered item pair. Pair failures are captured
// and the sweep continues.
func (u *CorrelationUsecase) RecalculateAll(ctx context.Context) (*models.CorrelationSummary, error) {
	start := time.Now()
	items, err := u.items.GetAll(ctx)
	if err != nil {
		u.metrics.RecordError("correlation_run")
		return nil, err
	}

	byItem, err := u.groupedWindow(ctx, start)
	if err != nil {
		u.metrics.RecordError("correlation_run")
		return nil, err
	}

	summary := &models.CorrelationSummary{
		RunID:        uuid.NewString(),
		Items:        len(items),
		CalculatedAt: start,
	}

	var significant []models.CorrelationEdge
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			summary.Pairs++
			edge, err := u.scorePair(ctx, items[i].ID, items[j].ID,
				byItem[items[i].ID], byItem[items[j].ID], start)
			if err != nil {
				if errors.Is(err, analytics.ErrInsufficientData) {
					summary.Skipped++
					continue
				}
				summary.Failed++
				summary.Errors = append(summary.Errors, models.ItemError{
					ItemID:  models.PairKey(items[i].ID, items[j].ID),
					Message: err.Error(),
				})
				continue
			}
			if edge.Active {
				summary.Significant++
				significant = append(significant, *edge)
			}
		}
	}

	sort.SliceStable(significant, func(i, j int) bool {
		return significant[i].Coefficient.Abs().Cmp(significant[j].Coefficient.Abs()) > 0
	})
	if len(significant) > topEdgeCount {
		significant = significant[:topEdgeCount]
	}
	summary.TopEdges = significant
	summary.ElapsedMS = time.Since(start).Milliseconds()

	u.metrics.RecordCorrelationPairs("significant", summary.Significant)
	u.metrics.RecordCorrelationPairs("skipped", summary.Skipped)
	u.metrics.RecordCorrelationPairs("failed", summary.Failed)
	u.metrics.RecordLatency("correlation_run", time.Since(start).Seconds())
	u.logger.Info("correlation sweep finished",
		logger.String("run_id", summary.RunID),
		logger.Int("items", summary.Items),
		logger.Int("pairs", summary.Pairs),
		logger.Int("significant", summary.Significant),
		logger.Int("skipped", summary.Skipped),
		logger.Int("failed", summary.Failed),
		logger.Int64("elapsed_ms", summary.ElapsedMS))

	u.publishEvent(ctx, models.EventCorrelationRun, summary)
	return summary, nil
}

// RecalculateForItem refreshes every edge touching one item.
func (u *CorrelationUsecase) RecalculateForItem(ctx context.Context, itemID string) (*models.ItemCorrelations, error) {
	start := time.Now()
	item, err := u.items.Get(ctx, itemID)
	if err != nil {
		u.metrics.RecordError("item_correlations")
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	others, err := u.items.GetAll(ctx)
	if err != nil {
		u.metrics.RecordError("item_correlations")
		return nil, err
	}

	byItem, err := u.groupedWindow(ctx, start)
	if err != nil {
		u.metrics.RecordError("item_correlations")
		return nil, err
	}

	result := &models.ItemCorrelations{ItemID: itemID}
	for i := range others {
		other := &others[i]
		if other.ID == itemID {
			continue
		}
		edge, err := u.scorePair(ctx, itemID, other.ID, byItem[itemID], byItem[other.ID], start)
		if err != nil {
			if errors.Is(err, analytics.ErrInsufficientData) {
				result.Skipped++
				continue
			}
			u.logger.Error("pair scoring failed",
				logger.String("pair", models.PairKey(itemID, other.ID)),
				logger.Error(err))
			continue
		}
		if !edge.Active {
			continue
		}
		result.Edges = append(result.Edges, *edge)
		if u.calc.IsStrong(edge.Coefficient) {
			if edge.Coefficient.IsNegative() {
				result.StrongNegative = append(result.StrongNegative, *edge)
			} else {
				result.StrongPositive = append(result.StrongPositive, *edge)
			}
		}
	}

	u.metrics.RecordCorrelationPairs("significant", len(result.Edges))
	u.metrics.RecordCorrelationPairs("skipped", result.Skipped)
	u.metrics.RecordLatency("item_correlations", time.Since(start).Seconds())
	return result, nil
}

// ForceFullRecalculation drops the whole graph and rebuilds it from scratch.
func (u *CorrelationUsecase) ForceFullRecalculation(ctx context.Context) (*models.CorrelationSummary, error) {
	if err := u.correlations.DeleteAll(ctx); err != nil {
		u.metrics.RecordError("correlation_run")
		return nil, err
	}
	return u.RecalculateAll(ctx)
}

// Recommendations lists the items most correlated with one item, enriched
// with catalog identity and reorder status.
func (u *CorrelationUsecase) Recommendations(ctx context.Context, itemID string, limit int) ([]models.Recommendation, error) {
	item, err := u.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	edges, err := u.correlations.SignificantForItem(ctx, itemID, u.calc.SignificanceThreshold(), limit)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}

	otherIDs := make([]string, 0, len(edges))
	for _, e := range edges {
		otherIDs = append(otherIDs, e.Other(itemID))
	}
	others, err := u.items.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Item, len(others))
	for i := range others {
		byID[others[i].ID] = &others[i]
	}

	out := make([]models.Recommendation, 0, len(edges))
	for _, e := range edges {
		otherID := e.Other(itemID)
		rec := models.Recommendation{
			ItemID:      otherID,
			Coefficient: e.Coefficient,
			Type:        e.Type,
			Confidence:  e.Confidence,
		}
		if other := byID[otherID]; other != nil {
			rec.Name = other.Name
			rec.ReorderPending = other.ReorderPending
		}
		out = append(out, rec)
	}
	return out, nil
}

// publishEvent is fire-and-forget, same contract as the statistics side.
func (u *CorrelationUsecase) publishEvent(ctx context.Context, kind string, payload interface{}) {
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
