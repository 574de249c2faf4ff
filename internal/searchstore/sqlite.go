package searchstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_definitions (
	account    TEXT NOT NULL,
	search_id  TEXT NOT NULL,
	definition TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (account, search_id)
);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and applies
// the schema. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The store has a single logical writer; one connection keeps the
	// in-memory variant coherent too.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, account string) ([]domain.SearchDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT definition FROM search_definitions WHERE account = ? ORDER BY search_id`,
		account,
	)
	if err != nil {
		return nil, fmt.Errorf("querying search definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.SearchDefinition
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning search definition: %w", err)
		}
		var def domain.SearchDefinition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("decoding search definition: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search definitions: %w", err)
	}

	return defs, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, account string, def domain.SearchDefinition) error {
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encoding search definition: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_definitions (account, search_id, definition, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT (account, search_id) DO UPDATE SET
		   definition = excluded.definition,
		   updated_at = excluded.updated_at`,
		account, def.SearchID, string(raw),
	)
	if err != nil {
		return fmt.Errorf("storing search definition: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, account, searchID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM search_definitions WHERE account = ? AND search_id = ?`,
		account, searchID,
	)
	if err != nil {
		return fmt.Errorf("deleting search definition: %w", err)
	}
	return nil
}

// DeleteAccount implements Store.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, account string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM search_definitions WHERE account = ?`,
		account,
	)
	if err != nil {
		return fmt.Errorf("deleting account search definitions: %w", err)
	}
	return nil
}
