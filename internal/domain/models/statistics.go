package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VolatilityLevel buckets |CV| into an unpredictability class.
type VolatilityLevel string

const (
	VolatilityVeryLow  VolatilityLevel = "VERY_LOW"
	VolatilityLow      VolatilityLevel = "LOW"
	VolatilityMedium   VolatilityLevel = "MEDIUM"
	VolatilityHigh     VolatilityLevel = "HIGH"
	VolatilityVeryHigh VolatilityLevel = "VERY_HIGH"
	VolatilityNoData   VolatilityLevel = "NO_DATA"
	VolatilityUnknown  VolatilityLevel = "UNKNOWN"
)

// TrendDirection is the sign of the regression slope over the window.
type TrendDirection string

const (
	TrendIncreasing       TrendDirection = "INCREASING"
	TrendDecreasing       TrendDirection = "DECREASING"
	TrendStable           TrendDirection = "STABLE"
	TrendInsufficientData TrendDirection = "INSUFFICIENT_DATA"
)

// ConsumptionPattern classifies how regularly an item is consumed.
type ConsumptionPattern string

const (
	PatternRegular   ConsumptionPattern = "REGULAR"
	PatternIrregular ConsumptionPattern = "IRREGULAR"
	PatternSporadic  ConsumptionPattern = "SPORADIC"
	PatternNoData    ConsumptionPattern = "NO_DATA"
)

// Percentiles holds the consumption distribution markers kept on a snapshot.
type Percentiles struct {
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// Seasonality is the day-of-week breakdown of mean consumption.
type Seasonality struct {
	DayOfWeekMeans map[string]decimal.Decimal `json:"day_of_week_means"`
	WeekdayAvg     decimal.Decimal            `json:"weekday_avg"`
	WeekendAvg     decimal.Decimal            `json:"weekend_avg"`
}

// ItemStatistics is the derived snapshot the engine owns and persists on the
// item record. All decimals carry 4 fractional digits.
type ItemStatistics struct {
	ItemID       string             `json:"item_id"`
	WindowDays   int                `json:"window_days"`
	Mean         decimal.Decimal    `json:"mean"`
	StdDev       decimal.Decimal    `json:"std_dev"`
	CV           decimal.Decimal    `json:"cv"`
	Volatility   VolatilityLevel    `json:"volatility"`
	Trend        TrendDirection     `json:"trend"`
	Pattern      ConsumptionPattern `json:"pattern"`
	Forecast     decimal.Decimal    `json:"forecast"`
	Percentiles  Percentiles        `json:"percentiles"`
	Seasonality  Seasonality        `json:"seasonality"`
	CoverageDays int                `json:"coverage_days"`
	StockoutDate *time.Time         `json:"stockout_date,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NoDataStatistics is the sentinel snapshot for items without observations.
func NoDataStatistics(itemID string, windowDays int, now time.Time) ItemStatistics {
	return ItemStatistics{
		ItemID:     itemID,
		WindowDays: windowDays,
		Volatility: VolatilityNoData,
		Trend:      TrendInsufficientData,
		Pattern:    PatternNoData,
		UpdatedAt:  now,
	}
}

// ItemError records one element-level failure inside a bulk operation.
type ItemError struct {
	ItemID  string `json:"item_id"`
	Message string `json:"message"`
}

// BatchSummary reports the outcome of a bulk statistics recalculation.
type BatchSummary struct {
	RunID     string      `json:"run_id"`
	Total     int         `json:"total"`
	Computed  int         `json:"computed"`
	NoData    int         `json:"no_data"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors,omitempty"`
	ElapsedMS int64       `json:"elapsed_ms"`
}
