package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists collections as JSONB documents in a single key-value
// table, one row per collection key.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore returns a store backed by the kv_collections table.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table when absent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS kv_collections (
        key TEXT PRIMARY KEY,
        value JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate kv_collections: %w", err)
	}
	return nil
}

// Load decodes the stored value for key into dest.
func (s *PostgresStore) Load(ctx context.Context, key string, dest interface{}) error {
	var raw []byte
	const query = `SELECT value FROM kv_collections WHERE key = $1`
	if err := s.db.GetContext(ctx, &raw, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load %s: %w", key, ErrKeyNotFound)
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Save overwrites the stored value for key.
func (s *PostgresStore) Save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	const query = `INSERT INTO kv_collections (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
