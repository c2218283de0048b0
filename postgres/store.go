// server/postgres/store.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ViniZap4/kanban-server/domain"
	"github.com/ViniZap4/kanban-server/store"
)

// ErrNotMigrated means the documents table is missing.
var ErrNotMigrated = errors.New("documents table missing, run migrations")

const (
	tasksDocument   = "tasks"
	journalDocument = "journal"
)

// Store keeps each board document as one jsonb row.
type Store struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) load(ctx context.Context, name string, v any) error {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM documents WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", name, store.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, classify(err))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	_, err = s.pool.Exec(ctx, `INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		name, string(data))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, classify(err))
	}
	return nil
}

// classify maps Postgres errors the caller can act on to sentinels.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrNotMigrated, pgErr.Message)
	}
	return err
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
