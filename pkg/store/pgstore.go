package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pgLogPrefix = "store:postgres"

// PgStore reads the lookup table from Postgres on every Load.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgPool creates a pgx connection pool and verifies connectivity.
func NewPgPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create pool: %w", pgLogPrefix, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - failed to ping database: %w", pgLogPrefix, err)
	}
	return pool, nil
}

// NewPgStore creates a PgStore with the given connection pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureSchema creates the lookup_entries table if it does not exist.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS lookup_entries (
		     key   TEXT PRIMARY KEY,
		     value JSONB NOT NULL
		 )`)
	if err != nil {
		return fmt.Errorf("%s - failed to ensure schema: %w", pgLogPrefix, err)
	}
	return nil
}

// Put inserts or replaces one entry. Used by seeding and tests; the
// server itself never writes the table.
func (s *PgStore) Put(ctx context.Context, key string, value interface{}) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lookup_entries (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("%s - failed to put %q: %w", pgLogPrefix, key, err)
	}
	return nil
}

// Load reads every row of lookup_entries. Query or scan failures yield
// an empty map.
func (s *PgStore) Load(ctx context.Context) map[string]interface{} {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM lookup_entries`)
	if err != nil {
		slog.Warn(fmt.Sprintf("%s - query failed: %v", pgLogPrefix, err))
		return map[string]interface{}{}
	}
	defer rows.Close()

	table := map[string]interface{}{}
	for rows.Next() {
		var key string
		var value interface{}
		if err := rows.Scan(&key, &value); err != nil {
			slog.Warn(fmt.Sprintf("%s - scan failed: %v", pgLogPrefix, err))
			return map[string]interface{}{}
		}
		table[key] = value
	}
	if err := rows.Err(); err != nil {
		slog.Warn(fmt.Sprintf("%s - rows failed: %v", pgLogPrefix, err))
		return map[string]interface{}{}
	}
	return table
}
