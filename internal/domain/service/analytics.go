package service

import (
	"time"

	"InvenPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

// StatisticsCalculator turns one item's daily series into a snapshot.
type StatisticsCalculator interface {
	Build(itemID string, values []decimal.Decimal, days []time.Time, windowDays int, currentStock decimal.Decimal, now time.Time) models.ItemStatistics
}

// CorrelationCalculator scores two aligned series.
type CorrelationCalculator interface {
	Pearson(xs, ys []decimal.Decimal) (decimal.Decimal, error)
	Classify(r decimal.Decimal) models.CorrelationType
	IsSignificant(r decimal.Decimal) bool
}
