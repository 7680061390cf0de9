package analytics

import (
	"testing"
	"time"

	"InvenPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consecutiveDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestBuildSteadyConsumer(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	values := decs("10", "12", "11", "13", "12")
	days := consecutiveDays(time.Date(2025, 6, 26, 0, 0, 0, 0, time.UTC), 5)

	stats := NewCalculator().Build("itm-1", values, days, 5, dec("100"), now)

	assert.Equal(t, "11.6", stats.Mean.String())
	assert.Equal(t, "1.1402", stats.StdDev.String())
	assert.Equal(t, "0.0983", stats.CV.String())
	assert.Equal(t, models.VolatilityVeryLow, stats.Volatility)
	assert.Equal(t, models.TrendStable, stats.Trend)
	assert.Equal(t, models.PatternRegular, stats.Pattern)
	// stable trend forecasts the mean
	assert.Equal(t, "11.6", stats.Forecast.String())
	// ceil(100 / 11.6) = 9
	assert.Equal(t, 9, stats.CoverageDays)
	require.NotNil(t, stats.StockoutDate)
	assert.Equal(t, "2025-07-10", stats.StockoutDate.Format("2006-01-02"))
}

func TestBuildNoData(t *testing.T) {
	now := time.Now().UTC()
	stats := NewCalculator().Build("itm-1", nil, nil, 30, dec("5"), now)

	assert.Equal(t, models.VolatilityNoData, stats.Volatility)
	assert.Equal(t, models.TrendInsufficientData, stats.Trend)
	assert.Equal(t, models.PatternNoData, stats.Pattern)
	assert.Equal(t, 0, stats.CoverageDays)
	assert.Nil(t, stats.StockoutDate)
}

func TestTrendDirections(t *testing.T) {
	assert.Equal(t, models.TrendIncreasing, TrendOf(decs("10", "20", "30", "40", "50")))
	assert.Equal(t, models.TrendDecreasing, TrendOf(decs("50", "40", "30", "20", "10")))
	assert.Equal(t, models.TrendStable, TrendOf(decs("10", "12", "11", "13", "12")))
	assert.Equal(t, models.TrendInsufficientData, TrendOf(decs("1", "2")))
	assert.Equal(t, models.TrendStable, TrendOf(decs("0", "0", "0", "0")))
}

func TestForecastNext(t *testing.T) {
	values := decs("10", "20", "30", "40", "50")
	mean := Mean(values)

	up := ForecastNext(values, mean, models.TrendIncreasing)
	assert.Equal(t, "55", up.String())

	down := ForecastNext(values, mean, models.TrendDecreasing)
	assert.Equal(t, "45", down.String())

	flat := ForecastNext(values, mean, models.TrendStable)
	assert.True(t, flat.Equal(mean))

	assert.True(t, ForecastNext(nil, decimal.Zero, models.TrendIncreasing).IsZero())
}

func TestPatternOf(t *testing.T) {
	sporadic := append(decs("5", "3"), decs("0", "0", "0", "0", "0", "0", "0", "0")...)
	assert.Equal(t, models.PatternSporadic, PatternOf(sporadic))

	irregular := append(decs("5", "3", "4", "2", "6", "1"), decs("0", "0", "0", "0")...)
	assert.Equal(t, models.PatternIrregular, PatternOf(irregular))

	regular := append(decs("5", "3", "4", "2", "6", "1", "2", "3"), decs("0", "0")...)
	assert.Equal(t, models.PatternRegular, PatternOf(regular))

	assert.Equal(t, models.PatternNoData, PatternOf(nil))
}

func TestCoverageDays(t *testing.T) {
	assert.Equal(t, 9, CoverageDays(dec("100"), dec("11.6")))
	assert.Equal(t, 10, CoverageDays(dec("100"), dec("10")))
	assert.Equal(t, 0, CoverageDays(dec("100"), decimal.Zero))
}

func TestSeasonalityWeekdayVsWeekend(t *testing.T) {
	// 2025-06-02 is a Monday
	days := consecutiveDays(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 7)
	values := decs("10", "10", "10", "10", "10", "20", "20")

	s := SeasonalityOf(values, days)

	assert.Equal(t, "10", s.WeekdayAvg.String())
	assert.Equal(t, "20", s.WeekendAvg.String())
	assert.Equal(t, "20", s.DayOfWeekMeans["Saturday"].String())
	assert.Equal(t, "10", s.DayOfWeekMeans["Wednesday"].String())
}
