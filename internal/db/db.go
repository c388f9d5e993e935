package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to PostgreSQL using the given connection string and
// verifies the connection with a ping.
func NewPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the application tables when they do not exist yet.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id                 SERIAL PRIMARY KEY,
		email              TEXT UNIQUE NOT NULL,
		password           TEXT NOT NULL,
		first_name         TEXT NOT NULL,
		last_name          TEXT NOT NULL,
		role               TEXT NOT NULL DEFAULT 'user',
		reset_token        TEXT,
		reset_token_expiry TIMESTAMPTZ,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS user_orders (
		id            SERIAL PRIMARY KEY,
		user_id       INT NOT NULL REFERENCES users(id),
		customer_name TEXT,
		product       TEXT NOT NULL,
		quantity      INT NOT NULL CHECK (quantity > 0),
		total_value   NUMERIC(12,2) NOT NULL DEFAULT 0,
		status        TEXT NOT NULL DEFAULT 'processing',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- user_id is intentionally not a foreign key: finance history survives
	-- account deletion.
	CREATE TABLE IF NOT EXISTS finance_records (
		id               SERIAL PRIMARY KEY,
		user_id          INT NOT NULL,
		order_id         INT REFERENCES user_orders(id) ON DELETE SET NULL,
		customer_name    TEXT NOT NULL DEFAULT '',
		product_name     TEXT NOT NULL,
		quantity         INT NOT NULL,
		product_rate     NUMERIC(12,2) NOT NULL,
		total_value      NUMERIC(12,2) NOT NULL,
		order_status     TEXT NOT NULL DEFAULT 'processing',
		transaction_type TEXT NOT NULL DEFAULT 'sale',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS cattle (
		id              SERIAL PRIMARY KEY,
		user_id         INT NOT NULL REFERENCES users(id),
		tag_number      TEXT UNIQUE NOT NULL,
		name            TEXT,
		breed           TEXT NOT NULL,
		gender          TEXT NOT NULL,
		age             INT,
		weight          DOUBLE PRECISION,
		health_status   TEXT NOT NULL DEFAULT 'healthy',
		milk_production NUMERIC(8,2) NOT NULL DEFAULT 0,
		date_acquired   DATE,
		notes           TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_user_orders_user     ON user_orders(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_finance_records_user ON finance_records(user_id, created_at);
	`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
