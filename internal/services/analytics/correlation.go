package analytics

import (
	"InvenPulse/internal/domain/models"

	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	negOne = decimal.NewFromInt(-1)

	weakFloor = decimal.RequireFromString("0.1")
)

// PearsonCalculator computes and classifies Pearson coefficients over aligned
// decimal series.
type PearsonCalculator struct {
	minPoints   int
	significant decimal.Decimal
	strong      decimal.Decimal
}

func NewPearsonCalculator(minPoints int, significant, strong float64) *PearsonCalculator {
	if minPoints < 2 {
		minPoints = 2
	}
	return &PearsonCalculator{
		minPoints:   minPoints,
		significant: decimal.NewFromFloat(significant),
		strong:      decimal.NewFromFloat(strong),
	}
}

// Pearson returns r = Σ(xi-x̄)(yi-ȳ) / sqrt(Σ(xi-x̄)²·Σ(yi-ȳ)²) clamped into
// [-1, 1]. A degenerate (constant) series yields zero rather than a division
// by zero. ErrInsufficientData when the series are shorter than the gate or
// of unequal length.
func (c *PearsonCalculator) Pearson(xs, ys []decimal.Decimal) (decimal.Decimal, error) {
	n := len(xs)
	if n != len(ys) || n < c.minPoints {
		return decimal.Zero, ErrInsufficientData
	}

	meanX := sumOf(xs).DivRound(decimal.NewFromInt(int64(n)), accumScale)
	meanY := sumOf(ys).DivRound(decimal.NewFromInt(int64(n)), accumScale)

	sumXY, sumX2, sumY2 := decimal.Zero, decimal.Zero, decimal.Zero
	for i := 0; i < n; i++ {
		dx := xs[i].Sub(meanX)
		dy := ys[i].Sub(meanY)
		sumXY = sumXY.Add(dx.Mul(dy).Round(accumScale))
		sumX2 = sumX2.Add(dx.Mul(dx).Round(accumScale))
		sumY2 = sumY2.Add(dy.Mul(dy).Round(accumScale))
	}

	if sumX2.IsZero() || sumY2.IsZero() {
		return decimal.Zero, nil
	}

	denom, err := Sqrt(sumX2.Mul(sumY2).Round(accumScale))
	if err != nil {
		return decimal.Zero, err
	}
	if denom.IsZero() {
		return decimal.Zero, nil
	}

	r := sumXY.DivRound(denom, outputScale)
	return Clamp(r, negOne, one), nil
}

// Clamp bounds v into [lo, hi] to absorb rounding overshoot.
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.Cmp(lo) < 0 {
		return lo
	}
	if v.Cmp(hi) > 0 {
		return hi
	}
	return v
}

// Classify maps a coefficient to its correlation type by sign and magnitude.
func (c *PearsonCalculator) Classify(r decimal.Decimal) models.CorrelationType {
	abs := r.Abs()
	negative := r.IsNegative()
	switch {
	case abs.Cmp(c.strong) > 0:
		if negative {
			return models.CorrelationStrongNegative
		}
		return models.CorrelationStrongPositive
	case abs.Cmp(c.significant) >= 0:
		if negative {
			return models.CorrelationModerateNegative
		}
		return models.CorrelationModeratePositive
	case abs.Cmp(weakFloor) > 0:
		if negative {
			return models.CorrelationWeakNegative
		}
		return models.CorrelationWeakPositive
	default:
		return models.CorrelationNone
	}
}

// IsSignificant reports whether |r| reaches the configured threshold.
func (c *PearsonCalculator) IsSignificant(r decimal.Decimal) bool {
	return r.Abs().Cmp(c.significant) >= 0
}

// IsStrong reports whether |r| exceeds the strong threshold.
func (c *PearsonCalculator) IsStrong(r decimal.Decimal) bool {
	return r.Abs().Cmp(c.strong) > 0
}

// SignificanceThreshold exposes the configured significance bound.
func (c *PearsonCalculator) SignificanceThreshold() decimal.Decimal {
	return c.significant
}

// ConfidenceFor grades an edge by overlap size.
func ConfidenceFor(dataPoints int) models.ConfidenceLevel {
	switch {
	case dataPoints >= 30:
		return models.ConfidenceHigh
	case dataPoints >= 10:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func sumOf(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}
