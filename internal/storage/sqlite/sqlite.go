// Package sqlite provides a SQLite-backed recipient registry.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-countdown/internal/config"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS active_chats (
	chat_id  INTEGER PRIMARY KEY,
	added_at INTEGER NOT NULL
);`

// Store persists active chats in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(config.ErrStoragePath)
	}

	dsn := ":memory:"
	if path != dsn {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStorageOpen, err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStorageOpen, err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Info(config.MsgStorageReady,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyPath, path,
	)
	return s, nil
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStorageSchema, err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Add(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO active_chats (chat_id, added_at) VALUES (?, ?) ON CONFLICT(chat_id) DO NOTHING`,
		chatID, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: add %d: %w", config.ErrStorageQuery, chatID, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, chatID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM active_chats WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("%s: remove %d: %w", config.ErrStorageQuery, chatID, err)
	}
	return nil
}

// List returns the chat IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id FROM active_chats ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", config.ErrStorageQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", config.ErrStorageQuery, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: list: %w", config.ErrStorageQuery, err)
	}
	return ids, nil
}
