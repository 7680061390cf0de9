package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// All engine arithmetic is fixed-precision decimal: results carry 4
// fractional digits rounded half up, intermediate accumulations carry 10 to
// keep cumulative rounding error out of the visible digits.
const (
	outputScale int32 = 4
	accumScale  int32 = 10

	sqrtMaxIterations = 10
)

var (
	two           = decimal.NewFromInt(2)
	sqrtTolerance = decimal.New(1, -4) // 0.0001
)

// Mean returns sum/count at output precision, zero for empty input.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(values))), outputScale)
}

// SampleStdDev returns the sample standard deviation (n-1 divisor) around the
// given mean. Zero when n <= 1.
func SampleStdDev(values []decimal.Decimal, mean decimal.Decimal) (decimal.Decimal, error) {
	n := len(values)
	if n <= 1 {
		return decimal.Zero, nil
	}
	sumSq := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d).Round(accumScale))
	}
	variance := sumSq.DivRound(decimal.NewFromInt(int64(n-1)), accumScale)
	root, err := Sqrt(variance)
	if err != nil {
		return decimal.Zero, err
	}
	return root.Round(outputScale), nil
}

// CoefficientOfVariation returns std/mean, zero when the mean is zero.
func CoefficientOfVariation(mean, std decimal.Decimal) decimal.Decimal {
	if mean.IsZero() {
		return decimal.Zero
	}
	return std.DivRound(mean, outputScale)
}

// Sqrt computes the square root by Newton-Raphson refinement seeded from the
// native float estimate. The decimal type has no root operation of its own.
// Iterates until successive guesses differ by less than 1e-4, capped at
// sqrtMaxIterations.
func Sqrt(x decimal.Decimal) (decimal.Decimal, error) {
	if x.IsNegative() {
		return decimal.Zero, ErrNegativeSqrt
	}
	if x.IsZero() {
		return decimal.Zero, nil
	}
	guess := decimal.NewFromFloat(math.Sqrt(x.InexactFloat64()))
	if guess.IsZero() {
		// float underflow on very small inputs; fall back to x itself
		guess = x
	}
	for i := 0; i < sqrtMaxIterations; i++ {
		next := guess.Add(x.DivRound(guess, accumScale)).DivRound(two, accumScale)
		if next.Sub(guess).Abs().Cmp(sqrtTolerance) < 0 {
			return next, nil
		}
		guess = next
	}
	return guess, nil
}

// Percentile returns the p-th percentile (0..100) using the nearest-rank
// method: index = ceil(p/100*n)-1 on the ascending sort, clamped in range.
func Percentile(values []decimal.Decimal, p int) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, n)
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })

	idx := (p*n+99)/100 - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
