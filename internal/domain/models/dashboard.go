package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal is one point of the dashboard consumption series.
type DailyTotal struct {
	Day   time.Time       `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// DashboardStats aggregates consumption across the whole catalog for a window.
type DashboardStats struct {
	WindowDays       int             `json:"window_days"`
	TotalConsumption decimal.Decimal `json:"total_consumption"`
	TotalItems       int             `json:"total_items"`
	ActiveItems      int             `json:"active_items"`
	ActiveCategories int             `json:"active_categories"`
	DailySeries      []DailyTotal    `json:"daily_series"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// RankedItemStatistics pairs an item with its snapshot for ranked listings.
type RankedItemStatistics struct {
	ItemID     string         `json:"item_id"`
	Name       string         `json:"name"`
	Statistics ItemStatistics `json:"statistics"`
}

// CategoryStats aggregates one category plus its per-item ranking by mean
// daily consumption, descending.
type CategoryStats struct {
	CategoryID       string                 `json:"category_id"`
	WindowDays       int                    `json:"window_days"`
	TotalConsumption decimal.Decimal        `json:"total_consumption"`
	MeanPerItem      decimal.Decimal        `json:"mean_per_item"`
	Items            []RankedItemStatistics `json:"items"`
	GeneratedAt      time.Time              `json:"generated_at"`
}
