package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

func TestMean(t *testing.T) {
	assert.True(t, Mean(nil).IsZero(), "empty input should yield zero")

	got := Mean(decs("10", "12", "11", "13", "12"))
	assert.Equal(t, "11.6", got.String())
}

func TestMeanEqualsSumOverCount(t *testing.T) {
	values := decs("3.5", "7.25", "0", "12.125")
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	want := sum.DivRound(decimal.NewFromInt(4), 4)
	assert.True(t, Mean(values).Equal(want))
}

func TestSampleStdDev(t *testing.T) {
	std, err := SampleStdDev(decs("42"), dec("42"))
	require.NoError(t, err)
	assert.True(t, std.IsZero(), "single element should yield zero")

	values := decs("10", "12", "11", "13", "12")
	std, err = SampleStdDev(values, Mean(values))
	require.NoError(t, err)
	assert.Equal(t, "1.1402", std.String())
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.True(t, CoefficientOfVariation(decimal.Zero, dec("3")).IsZero(),
		"zero mean must not divide")

	cv := CoefficientOfVariation(dec("11.6"), dec("1.1402"))
	assert.Equal(t, "0.0983", cv.String())
}

func TestSqrt(t *testing.T) {
	_, err := Sqrt(dec("-1"))
	require.ErrorIs(t, err, ErrNegativeSqrt)

	zero, err := Sqrt(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	four, err := Sqrt(dec("4"))
	require.NoError(t, err)
	assert.True(t, four.Sub(dec("2")).Abs().Cmp(dec("0.0001")) < 0)

	root2, err := Sqrt(dec("2"))
	require.NoError(t, err)
	assert.True(t, root2.Sub(dec("1.41421356")).Abs().Cmp(dec("0.0001")) < 0)
}

func TestPercentileMedian(t *testing.T) {
	odd := decs("5", "1", "3", "2", "4")
	assert.Equal(t, "3", Percentile(odd, 50).String())

	even := decs("4", "1", "3", "2")
	assert.Equal(t, "2", Percentile(even, 50).String())
}

func TestPercentileClamped(t *testing.T) {
	values := decs("1", "2", "3")
	assert.Equal(t, "1", Percentile(values, 0).String())
	assert.Equal(t, "3", Percentile(values, 100).String())
	assert.True(t, Percentile(nil, 50).IsZero())
}

func TestVolatilityMonotonicAndExhaustive(t *testing.T) {
	cases := []struct {
		cv   string
		want string
	}{
		{"0", "VERY_LOW"},
		{"0.10", "VERY_LOW"},
		{"0.1001", "LOW"},
		{"0.25", "LOW"},
		{"0.2501", "MEDIUM"},
		{"0.50", "MEDIUM"},
		{"0.5001", "HIGH"},
		{"0.75", "HIGH"},
		{"0.7501", "VERY_HIGH"},
		{"3", "VERY_HIGH"},
	}
	for _, tc := range cases {
		got := ClassifyVolatility(dec(tc.cv))
		assert.Equal(t, tc.want, string(got), "cv=%s", tc.cv)
		// sign must not matter
		assert.Equal(t, got, ClassifyVolatility(dec(tc.cv).Neg()))
	}
}

func TestVolatilityCoarse(t *testing.T) {
	assert.Equal(t, "HIGH", string(ClassifyVolatilityCoarse(dec("0.6"))))
	assert.Equal(t, "MEDIUM", string(ClassifyVolatilityCoarse(dec("0.4"))))
	assert.Equal(t, "LOW", string(ClassifyVolatilityCoarse(dec("0.0983"))))
}
