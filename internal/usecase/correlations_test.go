package usecase

import (
	"context"
	"testing"
	"time"

	"InvenPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateAllSweep(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "cat-1", "100"),
		catalogItem("itm-b", "cat-1", "100"),
		catalogItem("itm-empty", "cat-2", "100"),
	)
	cons := &fakeConsumptionStore{}
	ramp := []string{"10", "20", "30", "40", "50", "60"}
	cons.add(rampSeries("itm-a", ramp)...)
	cons.add(rampSeries("itm-b", ramp)...)
	edges := newFakeCorrelationStore()
	pub := &fakePublisher{}
	m := newRecorderMetrics()
	uc := newCorrUsecase(t, items, cons, edges, pub, m)

	summary, err := uc.RecalculateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Items)
	assert.Equal(t, 3, summary.Pairs)
	assert.Equal(t, 1, summary.Significant)
	assert.Equal(t, 2, summary.Skipped, "pairs touching the empty item sit below the data gate")
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, summary.TopEdges, 1)
	top := summary.TopEdges[0]
	assert.True(t, top.Coefficient.Equal(dec("1")), "identical series correlate perfectly, got %s", top.Coefficient)
	assert.Equal(t, models.CorrelationStrongPositive, top.Type)
	assert.Equal(t, models.ConfidenceLow, top.Confidence)
	assert.True(t, top.Active)

	require.Len(t, edges.edges, 1, "ungated pairs only")
	_, ok := edges.edges[models.PairKey("itm-a", "itm-b")]
	assert.True(t, ok)

	require.Len(t, pub.events, 1)
	assert.Equal(t, models.EventCorrelationRun, pub.events[0].Kind)
	assert.Equal(t, 1, m.pairs["significant"])
	assert.Equal(t, 2, m.pairs["skipped"])
}

func TestSweepOverwritesStaleEdgeAsInactive(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "", "100"),
		catalogItem("itm-b", "", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(rampSeries("itm-a", []string{"1", "2", "3", "4", "5", "6", "7", "8"})...)
	cons.add(rampSeries("itm-b", []string{"5", "1", "5", "1", "5", "1", "5", "1"})...)
	edges := newFakeCorrelationStore()
	edges.edges[models.PairKey("itm-a", "itm-b")] = models.CorrelationEdge{
		Item1:          "itm-a",
		Item2:          "itm-b",
		Coefficient:    dec("0.9"),
		Type:           models.CorrelationStrongPositive,
		Active:         true,
		LastCalculated: time.Now().Add(-24 * time.Hour),
	}
	uc := newCorrUsecase(t, items, cons, edges, &fakePublisher{}, newRecorderMetrics())

	summary, err := uc.RecalculateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Significant)

	fresh, ok := edges.edges[models.PairKey("itm-a", "itm-b")]
	require.True(t, ok)
	assert.False(t, fresh.Active, "the stale strong edge must be deactivated")
	assert.Equal(t, models.CorrelationWeakNegative, fresh.Type)
}

func TestForceFullRecalculationDropsGraphFirst(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "", "100"),
		catalogItem("itm-b", "", "100"),
	)
	cons := &fakeConsumptionStore{}
	ramp := []string{"10", "20", "30", "40", "50"}
	cons.add(rampSeries("itm-a", ramp)...)
	cons.add(rampSeries("itm-b", ramp)...)
	edges := newFakeCorrelationStore()
	edges.edges["itm-gone|itm-x"] = models.CorrelationEdge{Item1: "itm-gone", Item2: "itm-x", Active: true}
	uc := newCorrUsecase(t, items, cons, edges, &fakePublisher{}, newRecorderMetrics())

	summary, err := uc.ForceFullRecalculation(context.Background())
	require.NoError(t, err)

	assert.True(t, edges.deleted)
	assert.Equal(t, 1, summary.Significant)
	_, stale := edges.edges["itm-gone|itm-x"]
	assert.False(t, stale, "edges for removed items do not survive a forced rebuild")
	_, ok := edges.edges[models.PairKey("itm-a", "itm-b")]
	assert.True(t, ok)
}

func TestRecalculateForItemBucketsStrongEdges(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "", "100"),
		catalogItem("itm-twin", "", "100"),
		catalogItem("itm-inverse", "", "100"),
	)
	cons := &fakeConsumptionStore{}
	cons.add(rampSeries("itm-a", []string{"10", "20", "30", "40", "50", "60"})...)
	cons.add(rampSeries("itm-twin", []string{"10", "20", "30", "40", "50", "60"})...)
	cons.add(rampSeries("itm-inverse", []string{"60", "50", "40", "30", "20", "10"})...)
	edges := newFakeCorrelationStore()
	uc := newCorrUsecase(t, items, cons, edges, &fakePublisher{}, newRecorderMetrics())

	result, err := uc.RecalculateForItem(context.Background(), "itm-a")
	require.NoError(t, err)

	assert.Len(t, result.Edges, 2)
	require.Len(t, result.StrongPositive, 1)
	require.Len(t, result.StrongNegative, 1)
	assert.Equal(t, "itm-twin", result.StrongPositive[0].Other("itm-a"))
	assert.Equal(t, "itm-inverse", result.StrongNegative[0].Other("itm-a"))
	assert.Equal(t, 0, result.Skipped)

	// only pairs touching itm-a are refreshed
	assert.Len(t, edges.edges, 2)
}

func TestRecalculateForItemUnknown(t *testing.T) {
	uc := newCorrUsecase(t, newFakeItemStore(), &fakeConsumptionStore{}, newFakeCorrelationStore(), &fakePublisher{}, newRecorderMetrics())

	_, err := uc.RecalculateForItem(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRecommendationsEnrichedFromCatalog(t *testing.T) {
	items := newFakeItemStore(
		catalogItem("itm-a", "", "100"),
		models.Item{ID: "itm-b", Name: "Latex Gloves", ReorderPending: true},
		models.Item{ID: "itm-c", Name: "Face Masks"},
	)
	edges := newFakeCorrelationStore()
	now := time.Now()
	edges.edges[models.PairKey("itm-a", "itm-b")] = models.CorrelationEdge{
		Item1: "itm-a", Item2: "itm-b",
		Coefficient: dec("0.9"), Type: models.CorrelationStrongPositive,
		Confidence: models.ConfidenceHigh, Active: true, LastCalculated: now,
	}
	edges.edges[models.PairKey("itm-a", "itm-c")] = models.CorrelationEdge{
		Item1: "itm-c", Item2: "itm-a",
		Coefficient: dec("0.4"), Type: models.CorrelationModeratePositive,
		Confidence: models.ConfidenceMedium, Active: true, LastCalculated: now,
	}
	uc := newCorrUsecase(t, items, &fakeConsumptionStore{}, edges, &fakePublisher{}, newRecorderMetrics())

	recs, err := uc.Recommendations(context.Background(), "itm-a", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "itm-b", recs[0].ItemID, "strongest edge first")
	assert.Equal(t, "Latex Gloves", recs[0].Name)
	assert.True(t, recs[0].ReorderPending)
	assert.Equal(t, models.CorrelationStrongPositive, recs[0].Type)
	assert.Equal(t, "itm-c", recs[1].ItemID)
	assert.Equal(t, "Face Masks", recs[1].Name)
}

func TestRecommendationsNoEdges(t *testing.T) {
	items := newFakeItemStore(catalogItem("itm-a", "", "100"))
	uc := newCorrUsecase(t, items, &fakeConsumptionStore{}, newFakeCorrelationStore(), &fakePublisher{}, newRecorderMetrics())

	recs, err := uc.Recommendations(context.Background(), "itm-a", 10)
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestRecommendationsUnknownItem(t *testing.T) {
	uc := newCorrUsecase(t, newFakeItemStore(), &fakeConsumptionStore{}, newFakeCorrelationStore(), &fakePublisher{}, newRecorderMetrics())

	_, err := uc.Recommendations(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
