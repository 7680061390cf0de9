package analytics

import (
	"sort"
	"time"

	"InvenPulse/internal/domain/models"
	"InvenPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// SeriesExtractor turns raw observations into aligned daily value lists.
// Days without an observation contribute zero.
type SeriesExtractor struct {
	minPoints int
}

func NewSeriesExtractor(minPoints int) *SeriesExtractor {
	if minPoints < 2 {
		minPoints = 2
	}
	return &SeriesExtractor{minPoints: minPoints}
}

// MinPoints returns the insufficient-data gate.
func (e *SeriesExtractor) MinPoints() int { return e.minPoints }

func consumedByDay(records []models.ConsumptionRecord) map[time.Time]decimal.Decimal {
	byDay := make(map[time.Time]decimal.Decimal, len(records))
	for _, r := range records {
		day := util.Day(r.Day)
		byDay[day] = byDay[day].Add(r.Consumed)
	}
	return byDay
}

// DailySeries builds one value per day over [from, to] inclusive for a single
// item, zero-filling gaps. Returns ErrInsufficientData when the item has
// fewer raw observations than the gate.
func (e *SeriesExtractor) DailySeries(records []models.ConsumptionRecord, from, to time.Time) ([]decimal.Decimal, []time.Time, error) {
	if len(records) < e.minPoints {
		return nil, nil, ErrInsufficientData
	}
	byDay := consumedByDay(records)
	days := util.DaysBetween(from, to)
	values := make([]decimal.Decimal, len(days))
	for i, d := range days {
		values[i] = byDay[d]
	}
	return values, days, nil
}

// AlignedPair builds two equal-length series over the union of days observed
// for either item. A day with activity on only one item contributes zero for
// the other. Returns ErrInsufficientData when either item has too few raw
// observations or the union holds too few days.
func (e *SeriesExtractor) AlignedPair(a, b []models.ConsumptionRecord) (xs, ys []decimal.Decimal, days []time.Time, err error) {
	if len(a) < e.minPoints || len(b) < e.minPoints {
		return nil, nil, nil, ErrInsufficientData
	}
	aByDay := consumedByDay(a)
	bByDay := consumedByDay(b)

	seen := make(map[time.Time]struct{}, len(aByDay)+len(bByDay))
	for d := range aByDay {
		seen[d] = struct{}{}
	}
	for d := range bByDay {
		seen[d] = struct{}{}
	}
	if len(seen) < e.minPoints {
		return nil, nil, nil, ErrInsufficientData
	}

	days = make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	xs = make([]decimal.Decimal, len(days))
	ys = make([]decimal.Decimal, len(days))
	for i, d := range days {
		xs[i] = aByDay[d]
		ys[i] = bByDay[d]
	}
	return xs, ys, days, nil
}
