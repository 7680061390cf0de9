package analytics

import (
	"testing"

	"InvenPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalc() *PearsonCalculator {
	return NewPearsonCalculator(5, 0.3, 0.7)
}

func TestPearsonSelfCorrelation(t *testing.T) {
	xs := decs("10", "20", "30", "40", "50")

	r, err := newCalc().Pearson(xs, xs)
	require.NoError(t, err)
	assert.True(t, r.Sub(decimal.NewFromInt(1)).Abs().Cmp(dec("0.001")) < 0,
		"self correlation should be 1, got %s", r)
	assert.Equal(t, models.CorrelationStrongPositive, newCalc().Classify(r))
	assert.True(t, newCalc().IsSignificant(r))
}

func TestPearsonNegation(t *testing.T) {
	xs := decs("10", "20", "30", "40", "50")
	ys := make([]decimal.Decimal, len(xs))
	for i, v := range xs {
		ys[i] = v.Neg()
	}

	r, err := newCalc().Pearson(xs, ys)
	require.NoError(t, err)
	assert.True(t, r.Add(decimal.NewFromInt(1)).Abs().Cmp(dec("0.001")) < 0,
		"negated correlation should be -1, got %s", r)
	assert.Equal(t, models.CorrelationStrongNegative, newCalc().Classify(r))
}

func TestPearsonConstantSeries(t *testing.T) {
	xs := decs("7", "7", "7", "7", "7")
	ys := decs("1", "2", "3", "4", "5")

	r, err := newCalc().Pearson(xs, ys)
	require.NoError(t, err)
	assert.True(t, r.IsZero(), "degenerate series should yield zero, got %s", r)

	r, err = newCalc().Pearson(xs, xs)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
}

func TestPearsonInsufficientData(t *testing.T) {
	short := decs("1", "2", "3", "4")

	_, err := newCalc().Pearson(short, short)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = newCalc().Pearson(decs("1", "2", "3", "4", "5"), decs("1", "2", "3"))
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestClampBounds(t *testing.T) {
	one := decimal.NewFromInt(1)
	negOne := one.Neg()

	assert.True(t, Clamp(dec("1.0002"), negOne, one).Equal(one))
	assert.True(t, Clamp(dec("-1.0002"), negOne, one).Equal(negOne))
	assert.True(t, Clamp(dec("0.42"), negOne, one).Equal(dec("0.42")))
}

func TestClassifyBoundaries(t *testing.T) {
	c := newCalc()
	cases := []struct {
		r    string
		want models.CorrelationType
	}{
		{"0.8", models.CorrelationStrongPositive},
		{"0.7", models.CorrelationModeratePositive}, // strong is strict
		{"0.3", models.CorrelationModeratePositive}, // significant is inclusive
		{"0.2", models.CorrelationWeakPositive},
		{"0.05", models.CorrelationNone},
		{"-0.05", models.CorrelationNone},
		{"-0.2", models.CorrelationWeakNegative},
		{"-0.45", models.CorrelationModerateNegative},
		{"-0.9", models.CorrelationStrongNegative},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(dec(tc.r)), "r=%s", tc.r)
	}
}

func TestConfidenceFor(t *testing.T) {
	assert.Equal(t, models.ConfidenceHigh, ConfidenceFor(30))
	assert.Equal(t, models.ConfidenceMedium, ConfidenceFor(10))
	assert.Equal(t, models.ConfidenceLow, ConfidenceFor(9))
}
