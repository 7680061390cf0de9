package repository

import domrepo "InvenPulse/internal/domain/repository"

// Compile-time interface checks.
var (
	_ domrepo.ItemStore        = (*CHItemStore)(nil)
	_ domrepo.ConsumptionStore = (*CHConsumptionStore)(nil)
	_ domrepo.CorrelationStore = (*CHCorrelationStore)(nil)
	_ domrepo.TaskQueue        = (*RedisTaskQueue)(nil)
	_ domrepo.EventPublisher   = (*KafkaEventPublisher)(nil)
)
