package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"InvenPulse/internal/domain/models"
	pkgch "InvenPulse/pkg/clickhouse"
	applogger "InvenPulse/pkg/logger"
)

// CHItemStore implements domain repository.ItemStore backed by ClickHouse.
type CHItemStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHItemStore(ch *pkgch.Client, l *applogger.Logger) *CHItemStore {
	return &CHItemStore{db: ch.DB(), l: l}
}

const itemSelect = `
	SELECT i.id, i.name, i.category_id, i.current_stock, i.reorder_level,
	       i.reorder_pending, i.updated_at,
	       s.item_id, s.window_days, s.mean, s.stddev, s.cv,
	       s.volatility, s.trend, s.pattern, s.forecast,
	       s.p25, s.p50, s.p75, s.p90,
	       s.weekday_avg, s.weekend_avg, s.coverage_days, s.stockout_date,
	       s.updated_at
	FROM invenpulse.items FINAL AS i
	LEFT JOIN invenpulse.item_statistics FINAL AS s ON s.item_id = i.id
`

func (s *CHItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	rows, err := s.db.QueryContext(ctx, itemSelect+" WHERE i.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *CHItemStore) GetAll(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, itemSelect+" ORDER BY i.id")
	if err != nil {
		return nil, fmt.Errorf("get all items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *CHItemStore) GetByIDs(ctx context.Context, ids []string) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	q := fmt.Sprintf("%s WHERE i.id IN (%s) ORDER BY i.id", itemSelect, placeholders)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get items by ids: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *CHItemStore) GetByCategory(ctx context.Context, categoryID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, itemSelect+" WHERE i.category_id = ? ORDER BY i.id", categoryID)
	if err != nil {
		return nil, fmt.Errorf("get items by category: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *CHItemStore) SaveStatistics(ctx context.Context, itemID string, stats models.ItemStatistics) error {
	return s.SaveStatisticsBatch(ctx, []models.ItemStatistics{stats})
}

const statsInsert = `
	INSERT INTO invenpulse.item_statistics (
		item_id, window_days, mean, stddev, cv, volatility, trend, pattern,
		forecast, p25, p50, p75, p90, weekday_avg, weekend_avg,
		coverage_days, stockout_date, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (s *CHItemStore) SaveStatisticsBatch(ctx context.Context, batch []models.ItemStatistics) error {
	if len(batch) == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, statsInsert)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}

	for _, st := range batch {
		_, err := stmt.ExecContext(ctx,
			st.ItemID, uint32(st.WindowDays), st.Mean, st.StdDev, st.CV,
			string(st.Volatility), string(st.Trend), string(st.Pattern),
			st.Forecast,
			st.Percentiles.P25, st.Percentiles.P50, st.Percentiles.P75, st.Percentiles.P90,
			st.Seasonality.WeekdayAvg, st.Seasonality.WeekendAvg,
			int32(st.CoverageDays), st.StockoutDate, st.UpdatedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert statistics for %s: %w", st.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.l.Info("statistics batch saved",
		applogger.Int("rows", len(batch)),
		applogger.Duration("duration", time.Since(start)))
	return nil
}

func scanItems(rows *sql.Rows) ([]models.Item, error) {
	var out []models.Item
	for rows.Next() {
		var (
			item           models.Item
			reorderPending uint8
			st             models.ItemStatistics
			statItemID     string
			windowDays     uint32
			volatility     string
			trend          string
			pattern        string
			coverageDays   int32
			stockoutDate   sql.NullTime
		)
		err := rows.Scan(
			&item.ID, &item.Name, &item.CategoryID, &item.CurrentStock,
			&item.ReorderLevel, &reorderPending, &item.UpdatedAt,
			&statItemID, &windowDays, &st.Mean, &st.StdDev, &st.CV,
			&volatility, &trend, &pattern, &st.Forecast,
			&st.Percentiles.P25, &st.Percentiles.P50, &st.Percentiles.P75, &st.Percentiles.P90,
			&st.Seasonality.WeekdayAvg, &st.Seasonality.WeekendAvg,
			&coverageDays, &stockoutDate, &st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		item.ReorderPending = reorderPending != 0
		if statItemID != "" {
			st.ItemID = statItemID
			st.WindowDays = int(windowDays)
			st.Volatility = models.VolatilityLevel(volatility)
			st.Trend = models.TrendDirection(trend)
			st.Pattern = models.ConsumptionPattern(pattern)
			st.CoverageDays = int(coverageDays)
			if stockoutDate.Valid {
				d := stockoutDate.Time
				st.StockoutDate = &d
			}
			item.Statistics = &st
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
