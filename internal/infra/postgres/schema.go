package postgres

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS scans (
    id          UUID PRIMARY KEY,
    target_url  TEXT NOT NULL,
    host        TEXT NOT NULL,
    score       INTEGER NOT NULL,
    level       TEXT NOT NULL,
    summary     JSONB NOT NULL DEFAULT '{}',
    issues      JSONB NOT NULL DEFAULT '[]',
    warnings    JSONB NOT NULL DEFAULT '[]',
    passes      JSONB NOT NULL DEFAULT '[]',
    page        JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scans_host_created ON scans (host, created_at);
CREATE INDEX IF NOT EXISTS idx_scans_created ON scans (created_at);

CREATE TABLE IF NOT EXISTS monitors (
    id            UUID PRIMARY KEY,
    url           TEXT NOT NULL,
    host          TEXT NOT NULL,
    contact       TEXT NOT NULL,
    frequency     TEXT NOT NULL,
    schedule_cron TEXT,
    active        BOOLEAN NOT NULL DEFAULT true,
    last_scan_at  TIMESTAMPTZ,
    last_score    INTEGER,
    next_due_at   TIMESTAMPTZ NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT monitors_host_contact_key UNIQUE (host, contact)
);

CREATE INDEX IF NOT EXISTS idx_monitors_due ON monitors (active, next_due_at);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
