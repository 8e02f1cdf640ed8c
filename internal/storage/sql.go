package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect captures the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Create string
	Select string
	Upsert string
}

// The state table holds one row per key, payload is the raw blob.
var (
	MySQL = Dialect{
		Name: "mysql",
		Create: `CREATE TABLE IF NOT EXISTS state (
            bucket VARCHAR(191) NOT NULL PRIMARY KEY,
            payload LONGBLOB NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
        )`,
		Select: `SELECT payload FROM state WHERE bucket = ?`,
		Upsert: `INSERT INTO state (bucket, payload) VALUES (?, ?)
                 ON DUPLICATE KEY UPDATE payload = VALUES(payload)`,
	}
	SQLite = Dialect{
		Name: "sqlite",
		Create: `CREATE TABLE IF NOT EXISTS state (
            bucket TEXT PRIMARY KEY,
            payload BLOB NOT NULL,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		Select: `SELECT payload FROM state WHERE bucket = ?`,
		Upsert: `INSERT INTO state (bucket, payload) VALUES (?, ?)
                 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
	}
	Postgres = Dialect{
		Name: "postgres",
		Create: `CREATE TABLE IF NOT EXISTS state (
            bucket TEXT PRIMARY KEY,
            payload BYTEA NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		Select: `SELECT payload FROM state WHERE bucket = $1`,
		Upsert: `INSERT INTO state (bucket, payload) VALUES ($1, $2)
                 ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
	}
)

// SQL persists keys into a single `state` table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL ensures the state table exists and returns the backend.
func NewSQL(ctx context.Context, db *sql.DB, d Dialect) (*SQL, error) {
	if _, err := db.ExecContext(ctx, d.Create); err != nil {
		return nil, fmt.Errorf("create %s state table: %w", d.Name, err)
	}
	return &SQL{db: db, dialect: d}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.dialect.Select, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, value)
	return err
}

func (s *SQL) Close() error { return s.db.Close() }
