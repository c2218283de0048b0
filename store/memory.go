// server/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/ViniZap4/kanban-server/domain"
)

// Memory keeps both documents in process. It copies on every load and save
// so it behaves like the persistent backends: nothing a handler mutates is
// visible until it is saved. The mutex only guards the document swap; a
// load followed by a save is still not atomic.
type Memory struct {
	mu      sync.RWMutex
	tasks   domain.TaskMap
	journal []domain.JournalEntry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadTasks(ctx context.Context) (domain.TaskMap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tasks == nil {
		return nil, ErrNotExist
	}
	return m.tasks.Clone(), nil
}

func (m *Memory) SaveTasks(ctx context.Context, tasks domain.TaskMap) error {
	if tasks == nil {
		tasks = domain.TaskMap{}
	}
	tasks = tasks.Clone()
	m.mu.Lock()
	m.tasks = tasks
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadJournal(ctx context.Context) ([]domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.journal == nil {
		return nil, ErrNotExist
	}
	return append([]domain.JournalEntry{}, m.journal...), nil
}

func (m *Memory) SaveJournal(ctx context.Context, entries []domain.JournalEntry) error {
	entries = append([]domain.JournalEntry{}, entries...)
	m.mu.Lock()
	m.journal = entries
	m.mu.Unlock()
	return nil
}
