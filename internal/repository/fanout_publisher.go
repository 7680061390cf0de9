package repository

import (
	"context"
	"errors"

	"InvenPulse/internal/domain/models"
	domrepo "InvenPulse/internal/domain/repository"
)

// FanoutPublisher delivers each event to every target. All targets are
// attempted even when one fails; errors are joined.
type FanoutPublisher struct {
	targets []domrepo.EventPublisher
}

func NewFanoutPublisher(targets ...domrepo.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{targets: targets}
}

func (p *FanoutPublisher) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	var errs []error
	for _, t := range p.targets {
		if err := t.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ domrepo.EventPublisher = (*FanoutPublisher)(nil)
