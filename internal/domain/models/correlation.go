package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CorrelationType classifies a Pearson coefficient by sign and magnitude.
type CorrelationType string

const (
	CorrelationStrongPositive   CorrelationType = "STRONG_POSITIVE"
	CorrelationModeratePositive CorrelationType = "MODERATE_POSITIVE"
	CorrelationWeakPositive     CorrelationType = "WEAK_POSITIVE"
	CorrelationNone             CorrelationType = "NONE"
	CorrelationWeakNegative     CorrelationType = "WEAK_NEGATIVE"
	CorrelationModerateNegative CorrelationType = "MODERATE_NEGATIVE"
	CorrelationStrongNegative   CorrelationType = "STRONG_NEGATIVE"
)

// ConfidenceLevel grades an edge by the number of overlapping observations.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// CorrelationEdge is a persisted pairwise association between the consumption
// series of two items. The pair is unordered; PairKey fixes its identity.
type CorrelationEdge struct {
	Item1          string          `json:"item1"`
	Item2          string          `json:"item2"`
	Coefficient    decimal.Decimal `json:"coefficient"`
	Type           CorrelationType `json:"type"`
	DataPoints     int             `json:"data_points"`
	Confidence     ConfidenceLevel `json:"confidence"`
	Active         bool            `json:"active"`
	LastCalculated time.Time       `json:"last_calculated"`
}

// PairKey returns the order-independent identity of the edge.
func (e CorrelationEdge) PairKey() string {
	return PairKey(e.Item1, e.Item2)
}

// PairKey builds the canonical key for an unordered item pair.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// Other returns the edge endpoint that is not itemID.
func (e CorrelationEdge) Other(itemID string) string {
	if e.Item1 == itemID {
		return e.Item2
	}
	return e.Item1
}

// CorrelationSummary reports an all-pairs sweep.
type CorrelationSummary struct {
	RunID        string            `json:"run_id"`
	Items        int               `json:"items"`
	Pairs        int               `json:"pairs"`
	Significant  int               `json:"significant"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	Errors       []ItemError       `json:"errors,omitempty"`
	TopEdges     []CorrelationEdge `json:"top_edges,omitempty"`
	ElapsedMS    int64             `json:"elapsed_ms"`
	CalculatedAt time.Time         `json:"calculated_at"`
}

// ItemCorrelations is the result of correlating one item against all others,
// with the strong buckets split out for the recommendation view.
type ItemCorrelations struct {
	ItemID         string            `json:"item_id"`
	Edges          []CorrelationEdge `json:"edges"`
	StrongPositive []CorrelationEdge `json:"strong_positive"`
	StrongNegative []CorrelationEdge `json:"strong_negative"`
	Skipped        int               `json:"skipped"`
}

// Recommendation is one significant edge enriched with the other item's
// identity and reorder status.
type Recommendation struct {
	ItemID         string          `json:"item_id"`
	Name           string          `json:"name"`
	Coefficient    decimal.Decimal `json:"coefficient"`
	Type           CorrelationType `json:"type"`
	Confidence     ConfidenceLevel `json:"confidence"`
	ReorderPending bool            `json:"reorder_pending"`
}
