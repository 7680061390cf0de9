package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry tracked by the analytics engine. The engine reads
// the stock fields and owns the Statistics snapshot.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CategoryID     string          `json:"category_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	ReorderPending bool            `json:"reorder_pending"`
	Statistics     *ItemStatistics `json:"statistics,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ConsumptionRecord is one raw per-item, per-day observation. Created by the
// transaction-recording path; the engine only reads it.
type ConsumptionRecord struct {
	ItemID       string          `json:"item_id"`
	CategoryID   string          `json:"category_id"`
	Day          time.Time       `json:"day"`
	Consumed     decimal.Decimal `json:"consumed"`
	Received     decimal.Decimal `json:"received"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
}
