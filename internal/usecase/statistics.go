package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
	domservice "InvenPulse/internal/domain/service"
	"InvenPulse/internal/services/analytics"
	"InvenPulse/pkg/logger"
	"InvenPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// StatisticsUsecase computes and persists consumption statistics snapshots.
type StatisticsUsecase struct {
	items       domrepo.ItemStore
	consumption domrepo.ConsumptionStore
	calc        domservice.StatisticsCalculator
	extractor   *analytics.SeriesExtractor
	publisher   domrepo.EventPublisher
	metrics     domrepo.Metrics
	logger      *logger.Logger
	windowDays  int
}

func NewStatisticsUsecase(
	items domrepo.ItemStore,
	consumption domrepo.ConsumptionStore,
	calc domservice.StatisticsCalculator,
	extractor *analytics.SeriesExtractor,
	publisher domrepo.EventPublisher,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
	windowDays int,
) *StatisticsUsecase {
	return &StatisticsUsecase{
		items:       items,
		consumption: consumption,
		calc:        calc,
		extractor:   extractor,
		publisher:   publisher,
		metrics:     metrics,
		logger:      lgr,
		windowDays:  windowDays,
	}
}

// window resolves the effective window length and its date bounds.
func (u *StatisticsUsecase) window(windowDays int, now time.Time) (int, time.Time, time.Time) {
	if windowDays <= 0 {
		windowDays = u.windowDays
	}
	to := util.Day(now)
	return windowDays, util.WindowStart(to, windowDays), to
}

// ComputeItemStatistics recomputes and persists one item's snapshot. Items
// below the data gate get the NO_DATA sentinel snapshot rather than an error.
// This quick path grades volatility on the coarse three-tier scale.
func (u *StatisticsUsecase) ComputeItemStatistics(ctx context.Context, itemID string, windowDays int) (*models.ItemStatistics, error) {
	start := time.Now()
	item, err := u.items.Get(ctx, itemID)
	if err != nil {
		u.metrics.RecordError("item_statistics")
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	windowDays, from, to := u.window(windowDays, start)

	records, err := u.consumption.RecordsForItem(ctx, itemID, from, to)
	if err != nil {
		u.metrics.RecordError("item_statistics")
		return nil, err
	}

	stats, err := u.buildSnapshot(item, records, windowDays, from, to, start)
	if err != nil {
		u.metrics.RecordError("item_statistics")
		return nil, err
	}
	if stats.Volatility != models.VolatilityNoData {
		stats.Volatility = analytics.ClassifyVolatilityCoarse(stats.CV)
	}

	if err := u.items.SaveStatistics(ctx, itemID, stats); err != nil {
		u.metrics.RecordError("item_statistics")
		return nil, err
	}

	outcome := "computed"
	if stats.Volatility == models.VolatilityNoData {
		outcome = "no_data"
	}
	u.metrics.RecordSnapshotComputed(outcome)
	u.metrics.RecordLatency("item_statistics", time.Since(start).Seconds())
	return &stats, nil
}

// buildSnapshot runs one item's records through the calculator, mapping the
// insufficient-data gate onto the NO_DATA sentinel. Any other extraction
// failure is returned to the caller.
func (u *StatisticsUsecase) buildSnapshot(item *models.Item, records []models.ConsumptionRecord, windowDays int, from, to, now time.Time) (models.ItemStatistics, error) {
	values, days, err := u.extractor.DailySeries(records, from, to)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			return models.NoDataStatistics(item.ID, windowDays, now), nil
		}
		return models.ItemStatistics{}, err
	}
	return u.calc.Build(item.ID, values, days, windowDays, item.CurrentStock, now), nil
}

// ComputeCategoryStatistics aggregates a category: the total over the window,
// the per-item mean and the items ranked by mean daily consumption.
func (u *StatisticsUsecase) ComputeCategoryStatistics(ctx context.Context, categoryID string, windowDays int) (*models.CategoryStats, error) {
	start := time.Now()
	items, err := u.items.GetByCategory(ctx, categoryID)
	if err != nil {
		u.metrics.RecordError("category_statistics")
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCategoryNotFound
	}

	windowDays, from, to := u.window(windowDays, start)

	records, err := u.consumption.RecordsForWindow(ctx, from, to)
	if err != nil {
		u.metrics.RecordError("category_statistics")
		return nil, err
	}

	inCategory := make(map[string]bool, len(items))
	for _, it := range items {
		inCategory[it.ID] = true
	}

	byItem := make(map[string][]models.ConsumptionRecord)
	total := decimal.Zero
	for _, rec := range records {
		if !inCategory[rec.ItemID] {
			continue
		}
		byItem[rec.ItemID] = append(byItem[rec.ItemID], rec)
		total = total.Add(rec.Consumed)
	}

	ranked := make([]models.RankedItemStatistics, 0, len(items))
	for i := range items {
		item := &items[i]
		stats, err := u.buildSnapshot(item, byItem[item.ID], windowDays, from, to, start)
		if err != nil {
			u.metrics.RecordError("category_statistics")
			u.logger.Error("snapshot failed",
				logger.String("item_id", item.ID),
				logger.Error(err))
			stats = models.NoDataStatistics(item.ID, windowDays, start)
		}
		ranked = append(ranked, models.RankedItemStatistics{
			ItemID:     item.ID,
			Name:       item.Name,
			Statistics: stats,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Statistics.Mean.Cmp(ranked[j].Statistics.Mean) > 0
	})

	u.metrics.RecordLatency("category_statistics", time.Since(start).Seconds())
	return &models.CategoryStats{
		CategoryID:       categoryID,
		WindowDays:       windowDays,
		TotalConsumption: total,
		MeanPerItem:      total.DivRound(decimal.NewFromInt(int64(len(items))), 4),
		Items:            ranked,
		GeneratedAt:      start,
	}, nil
}

// ComputeDashboardStatistics aggregates consumption across the whole catalog.
func (u *StatisticsUsecase) ComputeDashboardStatistics(ctx context.Context, windowDays int) (*models.DashboardStats, error) {
	start := time.Now()
	windowDays, from, to := u.window(windowDays, start)

	items, err := u.items.GetAll(ctx)
	if err != nil {
		u.metrics.RecordError("dashboard")
		return nil, err
	}
	records, err := u.consumption.RecordsForWindow(ctx, from, to)
	if err != nil {
		u.metrics.RecordError("dashboard")
		return nil, err
	}

	total := decimal.Zero
	byDay := make(map[time.Time]decimal.Decimal)
	activeItems := make(map[string]struct{})
	activeCategories := make(map[string]struct{})
	for _, rec := range records {
		day := util.Day(rec.Day)
		byDay[day] = byDay[day].Add(rec.Consumed)
		total = total.Add(rec.Consumed)
		if !rec.Consumed.IsZero() {
			activeItems[rec.ItemID] = struct{}{}
			if rec.CategoryID != "" {
				activeCategories[rec.CategoryID] = struct{}{}
			}
		}
	}

	days := util.DaysBetween(from, to)
	series := make([]models.DailyTotal, len(days))
	for i, d := range days {
		series[i] = models.DailyTotal{Day: d, Total: byDay[d]}
	}

	u.metrics.RecordLatency("dashboard", time.Since(start).Seconds())
	return &models.DashboardStats{
		WindowDays:       windowDays,
		TotalConsumption: total,
		TotalItems:       len(items),
		ActiveItems:      len(activeItems),
		ActiveCategories: len(activeCategories),
		DailySeries:      series,
		GeneratedAt:      start,
	}, nil
}
