package analytics

import "errors"

// ErrInsufficientData is the soft signal that a window holds fewer than the
// configured minimum of observations. Callers treat it as "no statistic
// available", never as a failure.
var ErrInsufficientData = errors.New("insufficient data points")

// ErrNegativeSqrt guards the Newton root against negative input. Unreachable
// from variance terms, kept as a hard error anyway.
var ErrNegativeSqrt = errors.New("square root of negative number")
