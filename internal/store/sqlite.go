package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the relational backend: one row per user for identity
// and last-active pointers, one row per (user, topic) progress snapshot
// with the chat history serialized as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite creates a SQLite-backed store at dbPath, creating the schema
// if needed.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		last_active_module_id TEXT NOT NULL,
		last_active_topic_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS topic_progress (
		username TEXT NOT NULL,
		topic_id TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		chat_history TEXT NOT NULL DEFAULT '[]',
		last_modified INTEGER NOT NULL,
		UNIQUE(username, topic_id)
	);
	CREATE INDEX IF NOT EXISTS idx_topic_progress_user ON topic_progress(username);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadUser returns the record for username with all progress rows,
// inserting a default user row first if the username is unseen. A
// progress row whose chat_history does not parse degrades to an empty
// transcript for that row only.
func (s *SQLiteStore) LoadUser(ctx context.Context, username string) (*domain.UserRecord, error) {
	rec := &domain.UserRecord{Username: username, Progress: map[string]domain.TopicProgress{}}

	row := s.db.QueryRowContext(ctx,
		`SELECT last_active_module_id, last_active_topic_id FROM users WHERE username = ?`,
		username)
	err := row.Scan(&rec.LastActiveModuleID, &rec.LastActiveTopicID)
	if errors.Is(err, sql.ErrNoRows) {
		moduleID, topic := curriculum.First()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO users (username, last_active_module_id, last_active_topic_id) VALUES (?, ?, ?)`,
			username, moduleID, topic.ID,
		); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		rec.LastActiveModuleID = moduleID
		rec.LastActiveTopicID = topic.ID
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT topic_id, code, chat_history, last_modified FROM topic_progress WHERE username = ?`,
		username)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close progress rows", "error", closeErr)
		}
	}()

	for rows.Next() {
		var p domain.TopicProgress
		var historyJSON string
		if err := rows.Scan(&p.TopicID, &p.Code, &historyJSON, &p.LastModified); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		if err := json.Unmarshal([]byte(historyJSON), &p.ChatHistory); err != nil {
			slog.Warn("failed to parse chat history, resetting to empty",
				"user", username, "topic_id", p.TopicID, "error", err)
			p.ChatHistory = []domain.ChatMessage{}
		}
		if p.ChatHistory == nil {
			p.ChatHistory = []domain.ChatMessage{}
		}
		rec.Progress[p.TopicID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress rows: %w", err)
	}

	return rec, nil
}

// SaveProgress updates the user's pointer row and upserts the snapshot
// row inside one transaction, so the pointer and the snapshot never
// disagree after a partial failure.
func (s *SQLiteStore) SaveProgress(ctx context.Context, req SaveRequest) error {
	history := req.Progress.ChatHistory
	if history == nil {
		history = []domain.ChatMessage{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Warn("failed to roll back save transaction", "error", rollbackErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (username, last_active_module_id, last_active_topic_id)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			last_active_module_id = excluded.last_active_module_id,
			last_active_topic_id = excluded.last_active_topic_id`,
		req.Username, req.ActiveModuleID, req.ActiveTopicID,
	); err != nil {
		return fmt.Errorf("update user pointers: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO topic_progress (username, topic_id, code, chat_history, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username, topic_id) DO UPDATE SET
			code = excluded.code,
			chat_history = excluded.chat_history,
			last_modified = excluded.last_modified`,
		req.Username, req.Progress.TopicID, req.Progress.Code, string(historyJSON), req.Progress.LastModified,
	); err != nil {
		return fmt.Errorf("upsert topic progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
