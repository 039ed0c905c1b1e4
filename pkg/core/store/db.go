// Package store is the postgres persistence layer. A single Store handle is
// constructed at process start, passed to the handlers that need it, and
// closed at shutdown; there is no package-level singleton. All writes on the
// valuation path are best-effort: callers log failures and move on.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool to the given database URL.
func New(ctx context.Context, dbURL string) (*Store, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist. Records are
// create-only; there are no UPDATE paths except LoI status marking.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS valuations (
			id UUID PRIMARY KEY,
			user_id UUID,
			company_name TEXT,
			industry TEXT,
			input_json JSONB NOT NULL,
			result_json JSONB NOT NULL,
			most_likely DOUBLE PRECISION NOT NULL,
			min_value DOUBLE PRECISION NOT NULL,
			max_value DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id UUID PRIMARY KEY,
			listing_json JSONB NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS nda_signatures (
			id UUID PRIMARY KEY,
			listing_id UUID NOT NULL,
			buyer_email TEXT NOT NULL,
			nda_json JSONB NOT NULL,
			UNIQUE (listing_id, buyer_email)
		)`,
		`CREATE TABLE IF NOT EXISTS dd_items (
			id UUID PRIMARY KEY,
			listing_id UUID NOT NULL,
			item_json JSONB NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS loi_versions (
			id UUID PRIMARY KEY,
			listing_id UUID NOT NULL,
			version INT NOT NULL,
			loi_json JSONB NOT NULL,
			status TEXT NOT NULL,
			UNIQUE (listing_id, version)
		)`,
		`CREATE TABLE IF NOT EXISTS qa_entries (
			id UUID PRIMARY KEY,
			listing_id UUID NOT NULL,
			entry_json JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS engagement_events (
			id BIGSERIAL PRIMARY KEY,
			listing_id UUID NOT NULL,
			document_id TEXT NOT NULL,
			viewer_id TEXT NOT NULL,
			page INT NOT NULL,
			seconds DOUBLE PRECISION NOT NULL,
			viewed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS engagement_rollups (
			id BIGSERIAL PRIMARY KEY,
			listing_id UUID NOT NULL,
			rollup_json JSONB NOT NULL,
			window_start TIMESTAMPTZ NOT NULL,
			window_end TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}
	}
	return nil
}
