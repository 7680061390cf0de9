package jobs

import (
	"context"
	"errors"
	"fmt"

	"InvenPulse/internal/repository"
	"InvenPulse/internal/usecase"
	"InvenPulse/pkg/logger"
	"InvenPulse/pkg/queue"
)

// RecalculateCorrelationsJob refreshes every correlation edge touching one
// item. Queued on ingestion so the write path never pays for the sweep.
type RecalculateCorrelationsJob struct {
	correlations *usecase.CorrelationUsecase
	logger       *logger.Logger
}

func NewRecalculateCorrelationsJob(correlations *usecase.CorrelationUsecase, lgr *logger.Logger) *RecalculateCorrelationsJob {
	return &RecalculateCorrelationsJob{correlations: correlations, logger: lgr}
}

func (j *RecalculateCorrelationsJob) Name() string { return "recalculate-correlations" }

func (j *RecalculateCorrelationsJob) Type() string { return repository.TaskCorrelationRecalc }

func (j *RecalculateCorrelationsJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[repository.CorrelationRecalcPayload](payload)
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if p.ItemID == "" {
		return fmt.Errorf("payload missing item_id")
	}

	result, err := j.correlations.RecalculateForItem(ctx, p.ItemID)
	if err != nil {
		// an item deleted between enqueue and execution is not a failure
		if errors.Is(err, usecase.ErrItemNotFound) {
			j.logger.Warn("correlation refresh skipped, item gone",
				logger.String("item_id", p.ItemID))
			return nil
		}
		return err
	}

	j.logger.Info("item correlations refreshed",
		logger.String("item_id", p.ItemID),
		logger.Int("edges", len(result.Edges)),
		logger.Int("skipped", result.Skipped))
	return nil
}

var _ queue.Job = (*RecalculateCorrelationsJob)(nil)
