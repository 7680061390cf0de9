package repository

// Schema returns the DDL the engine needs. ReplacingMergeTree gives
// last-write-wins semantics for snapshots and edges; reads go through FINAL.
func Schema() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS invenpulse`,
		`CREATE TABLE IF NOT EXISTS invenpulse.items (
			id              String,
			name            String,
			category_id     String,
			current_stock   Decimal(18, 4),
			reorder_level   Decimal(18, 4),
			reorder_pending UInt8,
			updated_at      DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY id`,
		`CREATE TABLE IF NOT EXISTS invenpulse.consumption_records (
			item_id       String,
			category_id   String,
			day           Date,
			consumed      Decimal(18, 4),
			received      Decimal(18, 4),
			opening_stock Decimal(18, 4),
			closing_stock Decimal(18, 4),
			ingested_at   DateTime DEFAULT now()
		) ENGINE = MergeTree
		PARTITION BY toYYYYMM(day)
		ORDER BY (item_id, day)`,
		`CREATE TABLE IF NOT EXISTS invenpulse.item_statistics (
			item_id       String,
			window_days   UInt32,
			mean          Decimal(18, 4),
			stddev        Decimal(18, 4),
			cv            Decimal(18, 4),
			volatility    String,
			trend         String,
			pattern       String,
			forecast      Decimal(18, 4),
			p25           Decimal(18, 4),
			p50           Decimal(18, 4),
			p75           Decimal(18, 4),
			p90           Decimal(18, 4),
			weekday_avg   Decimal(18, 4),
			weekend_avg   Decimal(18, 4),
			coverage_days Int32,
			stockout_date Nullable(Date),
			updated_at    DateTime
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY item_id`,
		`CREATE TABLE IF NOT EXISTS invenpulse.correlation_edges (
			pair_key        String,
			item1           String,
			item2           String,
			coefficient     Decimal(9, 4),
			type            String,
			data_points     UInt32,
			confidence      String,
			active          UInt8,
			last_calculated DateTime
		) ENGINE = ReplacingMergeTree(last_calculated)
		ORDER BY pair_key`,
	}
}
