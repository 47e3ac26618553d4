package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema bootstraps all tables. The advisory lock serializes DDL
// across api/worker startups.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS datasets (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	row_count INTEGER NOT NULL DEFAULT 0,
	column_count INTEGER NOT NULL DEFAULT 0,
	rejected_rows INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	enrichment_status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_datasets_status ON datasets(status);
CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	dataset_id TEXT NOT NULL,
	stay_date DATE NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	occupancy DOUBLE PRECISION NOT NULL DEFAULT 0,
	lead_days INTEGER NOT NULL DEFAULT 0,
	weekday TEXT,
	is_weekend BOOLEAN NOT NULL DEFAULT FALSE,
	is_holiday BOOLEAN NOT NULL DEFAULT FALSE,
	season TEXT,
	temp_max DOUBLE PRECISION,
	precipitation DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_bookings_dataset ON bookings(dataset_id);
CREATE INDEX IF NOT EXISTS idx_bookings_stay_date ON bookings(stay_date);

CREATE TABLE IF NOT EXISTS recommendations (
	dataset_id TEXT NOT NULL,
	date TEXT NOT NULL,
	current_price DOUBLE PRECISION NOT NULL,
	recommended_price DOUBLE PRECISION NOT NULL,
	price_change_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
	predicted_occupancy DOUBLE PRECISION NOT NULL DEFAULT 0,
	revenue_impact DOUBLE PRECISION NOT NULL DEFAULT 0,
	confidence TEXT NOT NULL,
	explanation TEXT,
	seasonal_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	weekend_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	jitter_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (dataset_id, date)
);

CREATE TABLE IF NOT EXISTS competitor_prices (
	property TEXT NOT NULL,
	date TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	captured_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (property, date)
);

CREATE INDEX IF NOT EXISTS idx_competitor_prices_date ON competitor_prices(date);

CREATE TABLE IF NOT EXISTS conversations (
	user_id TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, conversation_id)
);

CREATE TABLE IF NOT EXISTS conversation_messages (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversation_messages_conv
	ON conversation_messages(user_id, conversation_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
