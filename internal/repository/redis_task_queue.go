package repository

import (
	"context"
	"fmt"

	"InvenPulse/pkg/queue"
)

// TaskCorrelationRecalc is the queue message type for the per-item
// correlation refresh triggered by ingestion.
const TaskCorrelationRecalc = "correlations.recalculate_item"

// CorrelationRecalcPayload is the payload for TaskCorrelationRecalc.
type CorrelationRecalcPayload struct {
	ItemID string `json:"item_id"`
}

// RedisTaskQueue implements domain repository.TaskQueue over the Redis queue.
type RedisTaskQueue struct {
	svc queue.Service
}

func NewRedisTaskQueue(svc queue.Service) *RedisTaskQueue {
	return &RedisTaskQueue{svc: svc}
}

func (q *RedisTaskQueue) EnqueueCorrelationRecalc(ctx context.Context, itemID string) error {
	err := q.svc.PublishMessage(ctx, TaskCorrelationRecalc, CorrelationRecalcPayload{ItemID: itemID})
	if err != nil {
		return fmt.Errorf("enqueue correlation recalc: %w", err)
	}
	return nil
}
