package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_proposals (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStorage persists the pending set as a single blob row in a local
// SQLite database. Functionally equivalent to FileStorage; useful when
// the host application already ships a SQLite file.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLiteStorage opens (creating if needed) the database at path.
func OpenSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]*domain.Proposal, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM pending_proposals WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pending proposals: %w", err)
	}

	var proposals []*domain.Proposal
	if err := json.Unmarshal(payload, &proposals); err != nil {
		return nil, fmt.Errorf("decode pending proposals: %w", err)
	}
	return proposals, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, proposals []*domain.Proposal) error {
	payload, err := json.Marshal(proposals)
	if err != nil {
		return fmt.Errorf("encode pending proposals: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pending_proposals (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save pending proposals: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_proposals WHERE id = 1`); err != nil {
		return fmt.Errorf("clear pending proposals: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
