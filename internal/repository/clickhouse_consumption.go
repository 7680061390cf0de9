package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"InvenPulse/internal/domain/models"
	pkgch "InvenPulse/pkg/clickhouse"
	applogger "InvenPulse/pkg/logger"
)

// CHConsumptionStore implements domain repository.ConsumptionStore backed by
// ClickHouse.
type CHConsumptionStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHConsumptionStore(ch *pkgch.Client, l *applogger.Logger) *CHConsumptionStore {
	return &CHConsumptionStore{db: ch.DB(), l: l}
}

const recordSelect = `
	SELECT item_id, category_id, day, consumed, received, opening_stock, closing_stock
	FROM invenpulse.consumption_records
`

func (s *CHConsumptionStore) RecordsForItem(ctx context.Context, itemID string, from, to time.Time) ([]models.ConsumptionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		recordSelect+" WHERE item_id = ? AND day >= ? AND day <= ? ORDER BY day",
		itemID, from, to)
	if err != nil {
		return nil, fmt.Errorf("records for item: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *CHConsumptionStore) RecordsForWindow(ctx context.Context, from, to time.Time) ([]models.ConsumptionRecord, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		recordSelect+" WHERE day >= ? AND day <= ? ORDER BY item_id, day",
		from, to)
	if err != nil {
		return nil, fmt.Errorf("records for window: %w", err)
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	s.l.Info("window records fetched",
		applogger.Int("rows", len(out)),
		applogger.Duration("duration", time.Since(start)))
	return out, nil
}

func (s *CHConsumptionStore) Store(ctx context.Context, rec *models.ConsumptionRecord) error {
	return s.StoreBatch(ctx, []*models.ConsumptionRecord{rec})
}

const recordInsert = `
	INSERT INTO invenpulse.consumption_records (
		item_id, category_id, day, consumed, received, opening_stock, closing_stock
	) VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (s *CHConsumptionStore) StoreBatch(ctx context.Context, recs []*models.ConsumptionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, recordInsert)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.ItemID, rec.CategoryID, rec.Day,
			rec.Consumed, rec.Received, rec.OpeningStock, rec.ClosingStock,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record for %s: %w", rec.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]models.ConsumptionRecord, error) {
	out := make([]models.ConsumptionRecord, 0, 1024)
	for rows.Next() {
		var rec models.ConsumptionRecord
		err := rows.Scan(&rec.ItemID, &rec.CategoryID, &rec.Day,
			&rec.Consumed, &rec.Received, &rec.OpeningStock, &rec.ClosingStock)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
