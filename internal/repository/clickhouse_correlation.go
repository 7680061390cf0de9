package repository

import (
	"context"
	"database/sql"
	"fmt"

	"InvenPulse/internal/domain/models"
	pkgch "InvenPulse/pkg/clickhouse"
	applogger "InvenPulse/pkg/logger"

	"github.com/shopspring/decimal"
)

// CHCorrelationStore implements domain repository.CorrelationStore backed by
// ClickHouse. Edges live in a ReplacingMergeTree keyed by the canonical pair
// key, so saving an existing pair replaces the old row.
type CHCorrelationStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHCorrelationStore(ch *pkgch.Client, l *applogger.Logger) *CHCorrelationStore {
	return &CHCorrelationStore{db: ch.DB(), l: l}
}

const edgeSelect = `
	SELECT item1, item2, coefficient, type, data_points, confidence, active, last_calculated
	FROM invenpulse.correlation_edges FINAL
`

func (s *CHCorrelationStore) Find(ctx context.Context, item1, item2 string) (*models.CorrelationEdge, error) {
	rows, err := s.db.QueryContext(ctx, edgeSelect+" WHERE pair_key = ?", models.PairKey(item1, item2))
	if err != nil {
		return nil, fmt.Errorf("find edge: %w", err)
	}
	defer rows.Close()

	edges, err := scanEdges(rows)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}
	return &edges[0], nil
}

func (s *CHCorrelationStore) Save(ctx context.Context, edge *models.CorrelationEdge) error {
	const q = `
		INSERT INTO invenpulse.correlation_edges (
			pair_key, item1, item2, coefficient, type, data_points,
			confidence, active, last_calculated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	active := uint8(0)
	if edge.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		edge.PairKey(), edge.Item1, edge.Item2, edge.Coefficient,
		string(edge.Type), uint32(edge.DataPoints), string(edge.Confidence),
		active, edge.LastCalculated,
	)
	if err != nil {
		return fmt.Errorf("save edge: %w", err)
	}
	return nil
}

func (s *CHCorrelationStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "TRUNCATE TABLE invenpulse.correlation_edges"); err != nil {
		return fmt.Errorf("truncate edges: %w", err)
	}
	s.l.Warn("correlation graph truncated")
	return nil
}

func (s *CHCorrelationStore) SignificantForItem(ctx context.Context, itemID string, threshold decimal.Decimal, limit int) ([]models.CorrelationEdge, error) {
	q := edgeSelect + `
		WHERE (item1 = ? OR item2 = ?) AND active = 1 AND abs(coefficient) >= ?
		ORDER BY abs(coefficient) DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, q, itemID, itemID, threshold.InexactFloat64(), limit)
	if err != nil {
		return nil, fmt.Errorf("significant edges: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

func scanEdges(rows *sql.Rows) ([]models.CorrelationEdge, error) {
	var out []models.CorrelationEdge
	for rows.Next() {
		var (
			edge       models.CorrelationEdge
			edgeType   string
			dataPoints uint32
			confidence string
			active     uint8
		)
		err := rows.Scan(&edge.Item1, &edge.Item2, &edge.Coefficient,
			&edgeType, &dataPoints, &confidence, &active, &edge.LastCalculated)
		if err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edge.Type = models.CorrelationType(edgeType)
		edge.DataPoints = int(dataPoints)
		edge.Confidence = models.ConfidenceLevel(confidence)
		edge.Active = active != 0
		out = append(out, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
