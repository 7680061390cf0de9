package analytics

import (
	"time"

	"InvenPulse/internal/domain/models"
	"InvenPulse/pkg/util"

	"github.com/shopspring/decimal"
)

var (
	cvVeryHigh = decimal.RequireFromString("0.75")
	cvHigh     = decimal.RequireFromString("0.50")
	cvMedium   = decimal.RequireFromString("0.25")
	cvLow      = decimal.RequireFromString("0.10")

	// coarse scheme used by the per-item quick update path
	cvCoarseHigh   = decimal.RequireFromString("0.5")
	cvCoarseMedium = decimal.RequireFromString("0.3")

	slopeThreshold = decimal.RequireFromString("0.1")

	sporadicRatio  = decimal.RequireFromString("0.7")
	irregularRatio = decimal.RequireFromString("0.3")

	forecastUp   = decimal.RequireFromString("1.1")
	forecastDown = decimal.RequireFromString("0.9")
)

// ClassifyVolatility maps |CV| to the five-tier volatility scale.
func ClassifyVolatility(cv decimal.Decimal) models.VolatilityLevel {
	abs := cv.Abs()
	switch {
	case abs.Cmp(cvVeryHigh) > 0:
		return models.VolatilityVeryHigh
	case abs.Cmp(cvHigh) > 0:
		return models.VolatilityHigh
	case abs.Cmp(cvMedium) > 0:
		return models.VolatilityMedium
	case abs.Cmp(cvLow) > 0:
		return models.VolatilityLow
	default:
		return models.VolatilityVeryLow
	}
}

// ClassifyVolatilityCoarse is the three-tier scheme used by the per-item
// update path. Kept separate from ClassifyVolatility on purpose: the two
// call sites document different thresholds.
func ClassifyVolatilityCoarse(cv decimal.Decimal) models.VolatilityLevel {
	abs := cv.Abs()
	switch {
	case abs.Cmp(cvCoarseHigh) > 0:
		return models.VolatilityHigh
	case abs.Cmp(cvCoarseMedium) > 0:
		return models.VolatilityMedium
	default:
		return models.VolatilityLow
	}
}

// TrendOf fits value against time index by least squares and classifies the
// mean-normalized slope: above 0.1 increasing, below -0.1 decreasing,
// otherwise stable. Normalizing keeps the threshold meaningful across items
// of very different consumption magnitudes.
func TrendOf(values []decimal.Decimal) models.TrendDirection {
	n := len(values)
	if n < 3 {
		return models.TrendInsufficientData
	}
	slope := regressionSlope(values)
	if mean := Mean(values); !mean.IsZero() {
		slope = slope.DivRound(mean, outputScale)
	}
	switch {
	case slope.Cmp(slopeThreshold) > 0:
		return models.TrendIncreasing
	case slope.Cmp(slopeThreshold.Neg()) < 0:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// regressionSlope computes (n*Σxy - Σx*Σy) / (n*Σx² - (Σx)²) with x = 0..n-1.
func regressionSlope(values []decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(len(values)))
	sumX, sumY := decimal.Zero, decimal.Zero
	sumXY, sumX2 := decimal.Zero, decimal.Zero
	for i, y := range values {
		x := decimal.NewFromInt(int64(i))
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y).Round(accumScale))
		sumX2 = sumX2.Add(x.Mul(x))
	}
	denom := n.Mul(sumX2).Sub(sumX.Mul(sumX))
	if denom.IsZero() {
		return decimal.Zero
	}
	num := n.Mul(sumXY).Sub(sumX.Mul(sumY))
	return num.DivRound(denom, outputScale)
}

// PatternOf classifies regularity by the share of zero-consumption days.
func PatternOf(values []decimal.Decimal) models.ConsumptionPattern {
	n := len(values)
	if n == 0 {
		return models.PatternNoData
	}
	zeros := int64(0)
	for _, v := range values {
		if v.IsZero() {
			zeros++
		}
	}
	ratio := decimal.NewFromInt(zeros).DivRound(decimal.NewFromInt(int64(n)), outputScale)
	switch {
	case ratio.Cmp(sporadicRatio) > 0:
		return models.PatternSporadic
	case ratio.Cmp(irregularRatio) > 0:
		return models.PatternIrregular
	default:
		return models.PatternRegular
	}
}

// ForecastNext predicts one period ahead: trending series extrapolate the
// last value by ±10%, stable series fall back to the mean.
func ForecastNext(values []decimal.Decimal, mean decimal.Decimal, trend models.TrendDirection) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	last := values[len(values)-1]
	switch trend {
	case models.TrendIncreasing:
		return last.Mul(forecastUp).Round(outputScale)
	case models.TrendDecreasing:
		return last.Mul(forecastDown).Round(outputScale)
	default:
		return mean
	}
}

// CoverageDays returns how many days current stock lasts at mean consumption,
// rounded up. Zero when the mean is zero.
func CoverageDays(currentStock, mean decimal.Decimal) int {
	if mean.IsZero() || mean.IsNegative() {
		return 0
	}
	cov := currentStock.DivRound(mean, accumScale).Ceil().IntPart()
	if cov < 0 {
		return 0
	}
	return int(cov)
}

// SeasonalityOf groups the series by day of week and splits weekday vs
// weekend means.
func SeasonalityOf(values []decimal.Decimal, days []time.Time) models.Seasonality {
	byDOW := make(map[string][]decimal.Decimal, 7)
	var weekday, weekend []decimal.Decimal
	for i, d := range days {
		if i >= len(values) {
			break
		}
		name := d.Weekday().String()
		byDOW[name] = append(byDOW[name], values[i])
		if util.IsWeekend(d) {
			weekend = append(weekend, values[i])
		} else {
			weekday = append(weekday, values[i])
		}
	}
	means := make(map[string]decimal.Decimal, len(byDOW))
	for name, vs := range byDOW {
		means[name] = Mean(vs)
	}
	return models.Seasonality{
		DayOfWeekMeans: means,
		WeekdayAvg:     Mean(weekday),
		WeekendAvg:     Mean(weekend),
	}
}

// Calculator builds full statistics snapshots from aligned daily series.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

// Build computes the complete snapshot for one item. values and days must be
// aligned; an empty series yields the NO_DATA sentinel snapshot.
func (c *Calculator) Build(itemID string, values []decimal.Decimal, days []time.Time, windowDays int, currentStock decimal.Decimal, now time.Time) models.ItemStatistics {
	if len(values) == 0 {
		return models.NoDataStatistics(itemID, windowDays, now)
	}

	mean := Mean(values)
	std, err := SampleStdDev(values, mean)
	if err != nil {
		// negative variance is unreachable; degrade to an unknown class
		return models.ItemStatistics{
			ItemID:     itemID,
			WindowDays: windowDays,
			Mean:       mean,
			Volatility: models.VolatilityUnknown,
			Trend:      models.TrendInsufficientData,
			Pattern:    PatternOf(values),
			UpdatedAt:  now,
		}
	}
	cv := CoefficientOfVariation(mean, std)
	trend := TrendOf(values)

	stats := models.ItemStatistics{
		ItemID:     itemID,
		WindowDays: windowDays,
		Mean:       mean,
		StdDev:     std,
		CV:         cv,
		Volatility: ClassifyVolatility(cv),
		Trend:      trend,
		Pattern:    PatternOf(values),
		Forecast:   ForecastNext(values, mean, trend),
		Percentiles: models.Percentiles{
			P25: Percentile(values, 25),
			P50: Percentile(values, 50),
			P75: Percentile(values, 75),
			P90: Percentile(values, 90),
		},
		Seasonality:  SeasonalityOf(values, days),
		CoverageDays: CoverageDays(currentStock, mean),
		UpdatedAt:    now,
	}
	if stats.CoverageDays > 0 {
		d := util.Day(now).AddDate(0, 0, stats.CoverageDays)
		stats.StockoutDate = &d
	}
	return stats
}
