// server/sqlite/store.go
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/ViniZap4/kanban-server/domain"
	"github.com/ViniZap4/kanban-server/store"
)

const (
	tasksDocument   = "tasks"
	journalDocument = "journal"
)

// Store keeps each board document as a single row of JSON text.
type Store struct {
	DB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) load(ctx context.Context, name string, v any) error {
	var body string
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", name, store.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	query := `INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := s.DB.ExecContext(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Store) LoadTasks(ctx context.Context) (domain.TaskMap, error) {
	var tasks domain.TaskMap
	if err := s.load(ctx, tasksDocument, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = domain.TaskMap{}
	}
	return tasks, nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks domain.TaskMap) error {
	if tasks == nil {
		tasks = domain.TaskMap{}
	}
	return s.save(ctx, tasksDocument, tasks)
}

func (s *Store) LoadJournal(ctx context.Context) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	if err := s.load(ctx, journalDocument, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

func (s *Store) SaveJournal(ctx context.Context, entries []domain.JournalEntry) error {
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return s.save(ctx, journalDocument, entries)
}
