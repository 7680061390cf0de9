package repository

import (
	"context"
	"fmt"

	"InvenPulse/internal/domain/models"
	pkgkafka "InvenPulse/pkg/kafka"
)

// KafkaEventPublisher implements domain repository.EventPublisher over the
// events topic. Messages are keyed by kind so consumers see per-kind order.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event models.AnalyticsEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(event.Kind), event); err != nil {
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	return nil
}
