package usecase

import (
	"context"
	"testing"

	"InvenPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeItemStatisticsStableSeries(t *testing.T) {
	items := newFakeItemStore(catalogItem("itm-1", "cat-1", "50"))
	cons := &fakeConsumptionStore{}
	cons.add(constantSeries("itm-1", "cat-1", 10, "10")...)
	pub := &fakePublisher{}
	m := newRecorderMetrics()
	uc := newStatsUsecase(t, items, cons, pub, m)

	stats, err := uc.ComputeItemStatistics(context.Background(), "itm-1", 10)
	require.NoError(t, err)

	assert.True(t, stats.Mean.Equal(dec("10")), "mean = %s", stats.Mean)
	assert.True(t, stats.StdDev.IsZero())
	assert.True(t, stats.CV.IsZero())
	assert.Equal(t, models.VolatilityLow, stats.Volatility)
	assert.Equal(t, models.TrendStable, stats.Trend)
	assert.Equal(t, models.PatternRegular, stats.Pattern)
	assert.True(t, stats.Forecast.Equal(dec("10")), "stable series forecasts the mean")
	assert.Equal(t, 5, stats.CoverageDays)
	require.NotNil(t, stats.StockoutDate)

	saved, ok := items.saved["itm-1"]
	require.True(t, ok, "snapshot must be persisted")
	assert.Equal(t, stats.Volatility, saved.Volatility)
	assert.Equal(t, 1, m.snapshots["computed"])
}

func TestComputeItemStatisticsQuickPathUsesCoarseVolatility(t *testing.T) {
	items := newFakeItemStore(catalogItem("itm-1", "", "100"))
	cons := &fakeConsumptionStore{}
	// heavy zero share over the window pushes CV well above 0.75
	cons.add(rampSeries("itm-1", []string{"100", "0", "0", "100", "0", "0", "100", "0"})...)
	uc := newStatsUsecase(t, items, cons, &fakePublisher{}, newRecorderMetrics())

	stats, err := uc.ComputeItemStatistics(context.Background(), "itm-1", 8)
	require.NoError(t, err)

	// the per-item path grades on the three-tier scale, so HIGH is its ceiling
	assert.Equal(t, models.VolatilityHigh, stats.Volatility)
}

func TestComputeItemStatisticsNoData(t *testing.T) {
	items := newFakeItemStore(catalogItem("itm-1", "cat-1", "50"))
	cons := &fakeConsumptionStore{}
	cons.add(record("itm-1", "cat-1", daysAgo(1), "5"), record("itm-1", "cat-1", daysAgo(2), "3"))
	m := newRecorderMetrics()
	uc := newStatsUsecase(t, items, cons, &fakePublisher{}, m)

	stats, err := uc.ComputeItemStatistics(context.Background(), "itm-1", 10)
	require.NoError(t, err, "thin data is a sentinel, not an error")

	assert.Equal(t, models.VolatilityNoData, stats.Volatility)
	assert.Equal(t, models.PatternNoData, stats.Pattern)
	assert.Equal(t, models.TrendInsufficientData, stats.Trend)
	assert.True(t, stats.Mean.IsZero())

	_, ok := items.saved["itm-1"]
	assert.True(t, ok, "sentinel snapshot is persisted too")
	assert.Equal(t, 1, m.snapshots["no_data"])
}

func TestComputeItemStatisticsUnknownItem(t *testing.T) {
	uc := newStatsUsecase(t, newFakeItemStore(), &fakeConsumptionStore{}, &fakePublisher{}, newRecorderMetrics())

	_, err := uc.ComputeItemStatistics(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRecalculateAllMixedOutcomes(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "cat-1", "100"),
		catalogItem("itm-b", "cat-1", "100"),
		catalogItem("itm-c", "cat-2", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(constantSeries("itm-a", "cat-1", 10, "10")...)
	cons.add(record("itm-c", "cat-2", daysAgo(1), "4")) // below the data gate
	pub := &fakePublisher{}
	m := newRecorderMetrics()
	uc := newStatsUsecase(t, items, cons, pub, m)

	summary, err := uc.RecalculateAll(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Computed)
	assert.Equal(t, 2, summary.NoData)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, items.batches, 1, "one write for the whole batch")
	assert.Len(t, items.batches[0], 3)
	assert.Equal(t, models.VolatilityNoData, items.saved["itm-b"].Volatility)

	require.Len(t, pub.events, 1)
	assert.Equal(t, models.EventBatchStatistics, pub.events[0].Kind)
	assert.Equal(t, 1, m.snapshots["computed"])
	assert.Equal(t, 2, m.snapshots["no_data"])
}

func TestRecalculateItemsSubset(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "cat-1", "100"),
		catalogItem("itm-b", "cat-1", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(constantSeries("itm-b", "cat-1", 10, "6")...)
	uc := newStatsUsecase(t, items, cons, &fakePublisher{}, newRecorderMetrics())

	summary, err := uc.RecalculateItems(context.Background(), []string{"itm-b"}, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Computed)
	require.Len(t, items.batches, 1)
	require.Len(t, items.batches[0], 1)
	assert.Equal(t, "itm-b", items.batches[0][0].ItemID)
	_, touched := items.saved["itm-a"]
	assert.False(t, touched, "items outside the subset stay untouched")
}

func TestComputeCategoryStatisticsRanksByMean(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-low", "cat-1", "100"),
		catalogItem("itm-high", "cat-1", "100"),
		catalogItem("itm-other", "cat-2", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(constantSeries("itm-low", "cat-1", 10, "10")...)
	cons.add(constantSeries("itm-high", "cat-1", 10, "20")...)
	cons.add(constantSeries("itm-other", "cat-2", 10, "999")...)
	uc := newStatsUsecase(t, items, cons, &fakePublisher{}, newRecorderMetrics())

	stats, err := uc.ComputeCategoryStatistics(context.Background(), "cat-1", 10)
	require.NoError(t, err)

	assert.True(t, stats.TotalConsumption.Equal(dec("300")), "other categories are excluded, got %s", stats.TotalConsumption)
	assert.True(t, stats.MeanPerItem.Equal(dec("150")))
	require.Len(t, stats.Items, 2)
	assert.Equal(t, "itm-high", stats.Items[0].ItemID)
	assert.Equal(t, "itm-low", stats.Items[1].ItemID)
}

func TestComputeCategoryStatisticsUnknownCategory(t *testing.T) {
	uc := newStatsUsecase(t, newFakeItemStore(), &fakeConsumptionStore{}, &fakePublisher{}, newRecorderMetrics())

	_, err := uc.ComputeCategoryStatistics(context.Background(), "cat-ghost", 10)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestComputeDashboardStatisticsZeroFillsSeries(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "cat-1", "100"),
		catalogItem("itm-b", "cat-2", "100"),
		catalogItem("itm-idle", "cat-3", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(
		record("itm-a", "cat-1", daysAgo(0), "5"),
		record("itm-b", "cat-2", daysAgo(1), "7"),
	)
	uc := newStatsUsecase(t, items, cons, &fakePublisher{}, newRecorderMetrics())

	stats, err := uc.ComputeDashboardStatistics(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.WindowDays)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 2, stats.ActiveItems)
	assert.Equal(t, 2, stats.ActiveCategories)
	assert.True(t, stats.TotalConsumption.Equal(dec("12")))

	require.Len(t, stats.DailySeries, 7, "every day in the window appears")
	last := stats.DailySeries[len(stats.DailySeries)-1]
	assert.True(t, last.Total.Equal(dec("5")), "today's total, got %s", last.Total)
	assert.True(t, stats.DailySeries[0].Total.IsZero(), "days without activity read zero")
}
