package usecase

import (
	"context"
	"errors"
	"testing"

	"InvenPulse/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngestor(t *testing.T, cons *fakeConsumptionStore, tasks *fakeTaskQueue, m *recorderMetrics) *ConsumptionIngestor {
	t.Helper()
	return NewConsumptionIngestor(cons, tasks, m, newTestLogger(t), "inventory.consumption")
}

func TestIngestStoresRecordAndQueuesRefresh(t *testing.T) {
	cons := &fakeConsumptionStore{}
	tasks := &fakeTaskQueue{}
	m := newRecorderMetrics()
	ing := newIngestor(t, cons, tasks, m)

	payload := []byte(`{"item_id":"itm-1","category_id":"cat-1","day":"2026-08-20","consumed":"12.5","received":"0","opening_stock":"40","closing_stock":"27.5"}`)
	require.NoError(t, ing.Handle(context.Background(), payload))

	require.Len(t, cons.stored, 1)
	rec := cons.stored[0]
	assert.Equal(t, "itm-1", rec.ItemID)
	assert.Equal(t, "cat-1", rec.CategoryID)
	assert.True(t, rec.Consumed.Equal(dec("12.5")))
	want, _ := util.ParseDay("2026-08-20")
	assert.True(t, rec.Day.Equal(want))

	assert.Equal(t, []string{"itm-1"}, tasks.ids)
	assert.Equal(t, 1, m.ingested)
}

func TestIngestRejectsMalformedEvents(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"broken json", `{"item_id":`},
		{"missing item id", `{"day":"2026-08-20","consumed":"1"}`},
		{"unparseable day", `{"item_id":"itm-1","day":"20-08-2026","consumed":"1"}`},
		{"negative consumed", `{"item_id":"itm-1","day":"2026-08-20","consumed":"-1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cons := &fakeConsumptionStore{}
			tasks := &fakeTaskQueue{}
			ing := newIngestor(t, cons, tasks, newRecorderMetrics())

			err := ing.Handle(context.Background(), []byte(tc.payload))
			assert.Error(t, err)
			assert.Empty(t, cons.stored)
			assert.Empty(t, tasks.ids)
		})
	}
}

func TestIngestToleratesQueueFailure(t *testing.T) {
	cons := &fakeConsumptionStore{}
	tasks := &fakeTaskQueue{err: errors.New("redis down")}
	m := newRecorderMetrics()
	ing := newIngestor(t, cons, tasks, m)

	payload := []byte(`{"item_id":"itm-1","day":"2026-08-20","consumed":"3"}`)
	require.NoError(t, ing.Handle(context.Background(), payload), "a full queue never rejects the observation")

	assert.Len(t, cons.stored, 1)
	assert.Equal(t, 1, m.failures["task_enqueue"])
}

func TestIngestStoreFailure(t *testing.T) {
	cons := &fakeConsumptionStore{err: errors.New("clickhouse down")}
	tasks := &fakeTaskQueue{}
	ing := newIngestor(t, cons, tasks, newRecorderMetrics())

	payload := []byte(`{"item_id":"itm-1","day":"2026-08-20","consumed":"3"}`)
	err := ing.Handle(context.Background(), payload)
	assert.Error(t, err)
	assert.Empty(t, tasks.ids, "no refresh is queued when the write failed")
}
