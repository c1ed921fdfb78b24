// Package store persists analysis runs and their artifacts in PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	mode          TEXT NOT NULL,
	persona       TEXT NOT NULL DEFAULT '',
	job_to_be_done TEXT NOT NULL DEFAULT '',
	encoder       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	error_count   INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_artifacts (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id     UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	step       TEXT NOT NULL,
	content    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, step)
);

CREATE TABLE IF NOT EXISTS run_documents (
	run_id        UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	content_hash  TEXT NOT NULL DEFAULT '',
	section_count INT NOT NULL DEFAULT 0,
	error         TEXT,
	duration_ms   BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, name)
);
`

// EnsureSchema creates the tables used by the store if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
