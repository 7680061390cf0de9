package usecase

import (
	"context"
	"sort"
	"testing"
	"time"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
	"InvenPulse/internal/services/analytics"
	"InvenPulse/pkg/logger"
	"InvenPulse/pkg/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return lgr
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// daysAgo returns UTC midnight n days before now.
func daysAgo(n int) time.Time {
	return util.Day(time.Now()).AddDate(0, 0, -n)
}

func catalogItem(id, categoryID, stock string) models.Item {
	return models.Item{ID: id, Name: id, CategoryID: categoryID, CurrentStock: dec(stock)}
}

func record(itemID, categoryID string, day time.Time, consumed string) models.ConsumptionRecord {
	return models.ConsumptionRecord{ItemID: itemID, CategoryID: categoryID, Day: day, Consumed: dec(consumed)}
}

// constantSeries emits one record per day for the trailing `days` days.
func constantSeries(itemID, categoryID string, days int, consumed string) []models.ConsumptionRecord {
	out := make([]models.ConsumptionRecord, 0, days)
	for i := days - 1; i >= 0; i-- {
		out = append(out, record(itemID, categoryID, daysAgo(i), consumed))
	}
	return out
}

// rampSeries emits ascending values start, start+step, ... one per day ending today.
func rampSeries(itemID string, values []string) []models.ConsumptionRecord {
	out := make([]models.ConsumptionRecord, 0, len(values))
	for i, v := range values {
		out = append(out, record(itemID, "", daysAgo(len(values)-1-i), v))
	}
	return out
}

type fakeItemStore struct {
	items   []models.Item
	saved   map[string]models.ItemStatistics
	batches [][]models.ItemStatistics
	err     error
}

func newFakeItemStore(items ...models.Item) *fakeItemStore {
	return &fakeItemStore{items: items, saved: make(map[string]models.ItemStatistics)}
}

func (s *fakeItemStore) Get(_ context.Context, id string) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			it := s.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

func (s *fakeItemStore) GetAll(context.Context) ([]models.Item, error) {
	return s.items, s.err
}

func (s *fakeItemStore) GetByIDs(_ context.Context, ids []string) ([]models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Item
	for _, it := range s.items {
		if want[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeItemStore) GetByCategory(_ context.Context, categoryID string) ([]models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Item
	for _, it := range s.items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeItemStore) SaveStatistics(_ context.Context, itemID string, stats models.ItemStatistics) error {
	s.saved[itemID] = stats
	return nil
}

func (s *fakeItemStore) SaveStatisticsBatch(_ context.Context, batch []models.ItemStatistics) error {
	s.batches = append(s.batches, batch)
	for _, st := range batch {
		s.saved[st.ItemID] = st
	}
	return nil
}

type fakeConsumptionStore struct {
	records []models.ConsumptionRecord
	stored  []*models.ConsumptionRecord
	err     error
}

func (s *fakeConsumptionStore) add(recs ...models.ConsumptionRecord) {
	s.records = append(s.records, recs...)
}

func inRange(day, from, to time.Time) bool {
	d := util.Day(day)
	return !d.Before(util.Day(from)) && !d.After(util.Day(to))
}

func (s *fakeConsumptionStore) RecordsForItem(_ context.Context, itemID string, from, to time.Time) ([]models.ConsumptionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ConsumptionRecord
	for _, r := range s.records {
		if r.ItemID == itemID && inRange(r.Day, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeConsumptionStore) RecordsForWindow(_ context.Context, from, to time.Time) ([]models.ConsumptionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ConsumptionRecord
	for _, r := range s.records {
		if inRange(r.Day, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeConsumptionStore) Store(_ context.Context, rec *models.ConsumptionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, rec)
	return nil
}

func (s *fakeConsumptionStore) StoreBatch(_ context.Context, recs []*models.ConsumptionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, recs...)
	return nil
}

type fakeCorrelationStore struct {
	edges   map[string]models.CorrelationEdge
	deleted bool
}

func newFakeCorrelationStore() *fakeCorrelationStore {
	return &fakeCorrelationStore{edges: make(map[string]models.CorrelationEdge)}
}

func (s *fakeCorrelationStore) Find(_ context.Context, item1, item2 string) (*models.CorrelationEdge, error) {
	if e, ok := s.edges[models.PairKey(item1, item2)]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *fakeCorrelationStore) Save(_ context.Context, edge *models.CorrelationEdge) error {
	s.edges[edge.PairKey()] = *edge
	return nil
}

func (s *fakeCorrelationStore) DeleteAll(context.Context) error {
	s.deleted = true
	s.edges = make(map[string]models.CorrelationEdge)
	return nil
}

func (s *fakeCorrelationStore) SignificantForItem(_ context.Context, itemID string, threshold decimal.Decimal, limit int) ([]models.CorrelationEdge, error) {
	var out []models.CorrelationEdge
	for _, e := range s.edges {
		if e.Item1 != itemID && e.Item2 != itemID {
			continue
		}
		if !e.Active || e.Coefficient.Abs().Cmp(threshold) < 0 {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Coefficient.Abs().Cmp(out[j].Coefficient.Abs()) > 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTaskQueue struct {
	ids []string
	err error
}

func (q *fakeTaskQueue) EnqueueCorrelationRecalc(_ context.Context, itemID string) error {
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, itemID)
	return nil
}

type fakePublisher struct {
	events []models.AnalyticsEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.AnalyticsEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type recorderMetrics struct {
	snapshots map[string]int
	pairs     map[string]int
	failures  map[string]int
	ingested  int
}

func newRecorderMetrics() *recorderMetrics {
	return &recorderMetrics{
		snapshots: make(map[string]int),
		pairs:     make(map[string]int),
		failures:  make(map[string]int),
	}
}

func (m *recorderMetrics) RecordSnapshotComputed(outcome string)     { m.snapshots[outcome]++ }
func (m *recorderMetrics) RecordCorrelationPairs(outcome string, n int) { m.pairs[outcome] += n }
func (m *recorderMetrics) RecordIngested(n int)                      { m.ingested += n }
func (m *recorderMetrics) RecordError(kind string)                   { m.failures[kind]++ }
func (m *recorderMetrics) RecordLatency(string, float64)             {}

var (
	_ domrepo.ItemStore        = (*fakeItemStore)(nil)
	_ domrepo.ConsumptionStore = (*fakeConsumptionStore)(nil)
	_ domrepo.CorrelationStore = (*fakeCorrelationStore)(nil)
	_ domrepo.TaskQueue        = (*fakeTaskQueue)(nil)
	_ domrepo.EventPublisher   = (*fakePublisher)(nil)
	_ domrepo.Metrics          = (*recorderMetrics)(nil)
)

func newStatsUsecase(t *testing.T, items *fakeItemStore, cons *fakeConsumptionStore, pub *fakePublisher, m *recorderMetrics) *StatisticsUsecase {
	t.Helper()
	return NewStatisticsUsecase(
		items, cons,
		analytics.NewCalculator(),
		analytics.NewSeriesExtractor(5),
		pub, m,
		newTestLogger(t),
		30,
	)
}

func newCorrUsecase(t *testing.T, items *fakeItemStore, cons *fakeConsumptionStore, edges *fakeCorrelationStore, pub *fakePublisher, m *recorderMetrics) *CorrelationUsecase {
	t.Helper()
	return NewCorrelationUsecase(
		items, cons, edges,
		analytics.NewPearsonCalculator(5, 0.3, 0.7),
		analytics.NewSeriesExtractor(5),
		pub, m,
		newTestLogger(t),
		30,
	)
}
