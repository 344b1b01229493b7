package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS economic_events (
	id             BIGSERIAL PRIMARY KEY,
	date           DATE NOT NULL,
	time           VARCHAR(32) NOT NULL,
	currency       VARCHAR(8) NOT NULL,
	volatility     INT NOT NULL DEFAULT 0,
	event          TEXT NOT NULL,
	fact           DOUBLE PRECISION,
	forecast       DOUBLE PRECISION,
	previous       DOUBLE PRECISION,
	original_index INT NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_economic_events_date ON economic_events (date);

CREATE TABLE IF NOT EXISTS telegram_users (
	telegram_user_id BIGINT PRIMARY KEY,
	chat_id          BIGINT NOT NULL,
	username         TEXT,
	first_name       TEXT NOT NULL DEFAULT '',
	last_name        TEXT,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Open connects to Postgres, verifies the connection, and ensures the schema
// exists.
func Open(ctx context.Context, dsn string, maxConns int) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return db, nil
}
