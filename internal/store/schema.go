package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The unique index on
// lookup_key is load-bearing: it is the authority for the shared
// code/alias namespace under concurrent creations.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		name         TEXT,
		email        TEXT UNIQUE,
		total_links  BIGINT NOT NULL DEFAULT 0,
		total_clicks BIGINT NOT NULL DEFAULT 0,
		is_premium   BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin     BOOLEAN NOT NULL DEFAULT FALSE,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS short_links (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		original_url      TEXT NOT NULL,
		lookup_key        TEXT NOT NULL,
		alias             TEXT,
		title             TEXT,
		description       TEXT,
		tags              TEXT[] NOT NULL DEFAULT '{}',
		total_clicks      BIGINT NOT NULL DEFAULT 0,
		is_active         BOOLEAN NOT NULL DEFAULT TRUE,
		expiration_type   TEXT NOT NULL DEFAULT 'never',
		expiration_date   TIMESTAMPTZ,
		expiration_clicks BIGINT,
		clicks_remaining  BIGINT,
		last_accessed_at  TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS short_links_lookup_key_idx ON short_links (lookup_key)`,
	`CREATE INDEX IF NOT EXISTS short_links_user_id_idx ON short_links (user_id)`,
	`CREATE INDEX IF NOT EXISTS short_links_user_url_idx ON short_links (user_id, original_url)`,
	`CREATE INDEX IF NOT EXISTS short_links_total_clicks_idx ON short_links (user_id, total_clicks DESC)`,
	`CREATE TABLE IF NOT EXISTS click_events (
		id         TEXT PRIMARY KEY,
		link_id    TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		ip_address TEXT,
		country    TEXT NOT NULL DEFAULT 'Unknown',
		city       TEXT NOT NULL DEFAULT 'Unknown',
		device     TEXT NOT NULL DEFAULT 'desktop',
		browser    TEXT NOT NULL DEFAULT 'Unknown',
		os         TEXT NOT NULL DEFAULT 'Unknown',
		referrer   TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS click_events_link_id_idx ON click_events (link_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS click_events_user_id_idx ON click_events (user_id, created_at)`,
}

// Migrate creates the tables and indexes if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
