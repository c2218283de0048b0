// server/filesystem/store.go
package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ViniZap4/kanban-server/domain"
)

const (
	TasksFile   = "tasks.json"
	JournalFile = "journal.json"
)

// Store keeps the board as two JSON files under a data directory.
type Store struct {
	dataDir string
}

// NewStore creates dataDir if needed.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return &Store{dataDir: dataDir}, nil
}

func (s *Store) TasksPath() string {
	return filepath.Join(s.dataDir, TasksFile)
}

func (s *Store) JournalPath() string {
	return filepath.Join(s.dataDir, JournalFile)
}

func (s *Store) LoadTasks(ctx context.Context) (domain.TaskMap, error) {
	var tasks domain.TaskMap
	if err := readDocument(s.TasksPath(), &tasks); err != nil {
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
	return writeDocument(s.TasksPath(), tasks)
}

func (s *Store) LoadJournal(ctx context.Context) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	if err := readDocument(s.JournalPath(), &entries); err != nil {
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
	return writeDocument(s.JournalPath(), entries)
}
