// Package sqlite persists the local activity journal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/sysla/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Journal records settled action outcomes in a local sqlite database. It is
// append-only history for the user; it never feeds the synchronized todo
// list back.
type Journal struct {
	db *sql.DB
}

// Open opens the journal at the given path, creating parent directories and
// the schema as needed.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	journal := &Journal{db: db}
	if err := journal.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Journal, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	journal := &Journal{db: db}
	if err := journal.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

// Close closes the requested operation.
func (j *Journal) Close() error {
	return j.db.Close()
}

// migrate handles migrate.
func (j *Journal) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS action_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			operation TEXT NOT NULL,
			todo_id INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL DEFAULT '',
			failure TEXT NOT NULL DEFAULT '',
			occurred_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_action_events_occurred_at
			ON action_events(occurred_at);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// AppendActionEvent stores one settled outcome.
func (j *Journal) AppendActionEvent(ctx context.Context, event domain.ActionEvent) error {
	if event.Operation == "" {
		return errors.New("action event operation is required")
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO action_events (operation, todo_id, title, failure, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(event.Operation), event.TodoID, event.Title, event.Failure,
		occurredAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert action event: %w", err)
	}
	return nil
}

// ListActionEvents returns the most recent events, newest first.
func (j *Journal) ListActionEvents(ctx context.Context, limit int) ([]domain.ActionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, operation, todo_id, title, failure, occurred_at
		 FROM action_events
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query action events: %w", err)
	}
	defer rows.Close()

	var events []domain.ActionEvent
	for rows.Next() {
		var event domain.ActionEvent
		var operation, occurredAt string
		if err := rows.Scan(&event.ID, &operation, &event.TodoID, &event.Title, &event.Failure, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan action event: %w", err)
		}
		event.Operation = domain.ActionOperation(operation)
		parsed, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse action event time: %w", err)
		}
		event.OccurredAt = parsed
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action events: %w", err)
	}
	return events, nil
}
