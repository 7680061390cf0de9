package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionEvent is the wire shape of one ingested observation. Dates use
// YYYY-MM-DD.
type ConsumptionEvent struct {
	ItemID       string          `json:"item_id"`
	CategoryID   string          `json:"category_id"`
	Day          string          `json:"day"`
	Consumed     decimal.Decimal `json:"consumed"`
	Received     decimal.Decimal `json:"received"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
}

// Analytics event kinds published after bulk recomputation.
const (
	EventBatchStatistics = "statistics.batch_completed"
	EventCorrelationRun  = "correlations.run_completed"
)

// AnalyticsEvent is the envelope published to the events topic and broadcast
// on the dashboard stream.
type AnalyticsEvent struct {
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}
