package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists one named ledger in a shared append-only table.
// Unlike the file store, appends are transactional, so concurrent runs
// against the same database cannot lose entries.
type PostgresStore struct {
	db   *sql.DB
	name string
}

// Open connects to PostgreSQL and ensures the ledger table exists.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id         BIGSERIAL PRIMARY KEY,
			ledger     TEXT NOT NULL,
			entry      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger table: %w", err)
	}
	return db, nil
}

// NewPostgresStore binds a store to one named ledger within db.
func NewPostgresStore(db *sql.DB, name string) *PostgresStore {
	return &PostgresStore{db: db, name: name}
}

// ReadAll returns all entries for this ledger in append order.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry FROM ledger_entries WHERE ledger = $1 ORDER BY id`, s.name)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.name, err)
	}
	defer rows.Close()

	var entries []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan ledger %s: %w", s.name, err)
		}
		entries = append(entries, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.name, err)
	}
	return entries, nil
}

// Append inserts one entry for this ledger.
func (s *PostgresStore) Append(ctx context.Context, entry any) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (ledger, entry) VALUES ($1, $2)`, s.name, raw); err != nil {
		return fmt.Errorf("append ledger %s: %w", s.name, err)
	}
	return nil
}
