package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS client_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteStore persists values in a local SQLite file, the on-disk
// counterpart of a browser's local storage.
type SQLiteStore struct {
	path   string
	db     *sqlx.DB
	logger aqm.Logger
}

func NewSQLiteStore(path string, logger aqm.Logger) *SQLiteStore {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &SQLiteStore{path: path, logger: logger}
}

func (s *SQLiteStore) Start(ctx context.Context) error {
	if s.path == "" {
		s.path = "tableside.db"
	}

	db, err := sqlx.Open("sqlite3", s.path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("cannot open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("cannot ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("cannot create client_state table: %w", err)
	}

	s.db = db
	s.logger.Info("client state store opened", "backend", "sqlite", "path", s.path)
	return nil
}

func (s *SQLiteStore) Stop(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("cannot close sqlite database: %w", err)
	}
	s.db = nil
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, errors.New("sqlite store not started")
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM client_state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot read key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if s.db == nil {
		return errors.New("sqlite store not started")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("cannot write key %s: %w", key, err)
	}
	return nil
}
