// server/board/board.go
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ViniZap4/kanban-server/domain"
	"github.com/ViniZap4/kanban-server/store"
)

// JournalLimit is how many of the most recent entries ListJournal returns.
const JournalLimit = 50

var ErrTaskNotFound = errors.New("task not found")

// Update is a combined request: a status change, a journal entry, both or
// neither.
type Update struct {
	TaskID       string `json:"taskId,omitempty"`
	Status       string `json:"status,omitempty"`
	JournalEntry string `json:"journalEntry,omitempty"`
}

// Service runs every board operation as one load-mutate-save cycle on the
// store. There is no locking across requests: two concurrent writers to the
// same document both read the old version and the second save discards the
// first one's change.
type Service struct {
	store store.Store
	ids   *IDGenerator
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for timestamps and generated ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the default generator.
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewIDGenerator(s.now)
	}
	return s
}

func (s *Service) ListTasks(ctx context.Context) (domain.TaskMap, error) {
	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus sets currentStatus and updatedAt on an existing task and
// leaves every other field as stored. An unknown id returns ErrTaskNotFound
// and nothing is written.
func (s *Service) UpdateStatus(ctx context.Context, taskID, status string) (domain.Task, error) {
	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	task, ok := tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task == nil {
		task = domain.Task{}
	}

	task.SetString(domain.FieldCurrentStatus, status)
	task.SetString(domain.FieldUpdatedAt, domain.Timestamp(s.now()))
	tasks[taskID] = task

	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}
	return task, nil
}

// CreateTask stores the fields of task under its own id, or a generated one
// when it has none, replacing whatever was there before. Only updatedAt, and
// currentStatus when absent, are filled in.
func (s *Service) CreateTask(ctx context.Context, task domain.Task) (string, domain.Task, error) {
	tasks, err := s.store.LoadTasks(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load tasks: %w", err)
	}

	task = task.Clone()
	if task == nil {
		task = domain.Task{}
	}

	taskID := task.ID()
	if taskID == "" {
		taskID = s.ids.TaskID()
	}
	if _, ok := task[domain.FieldCurrentStatus]; !ok {
		task.SetString(domain.FieldCurrentStatus, domain.DefaultStatus)
	}
	task.SetString(domain.FieldUpdatedAt, domain.Timestamp(s.now()))
	tasks[taskID] = task

	if err := s.store.SaveTasks(ctx, tasks); err != nil {
		return "", nil, fmt.Errorf("save tasks: %w", err)
	}
	return taskID, task, nil
}

// ListJournal returns the last JournalLimit entries, oldest first.
func (s *Service) ListJournal(ctx context.Context) ([]domain.JournalEntry, error) {
	entries, err := s.store.LoadJournal(ctx)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if len(entries) > JournalLimit {
		entries = entries[len(entries)-JournalLimit:]
	}
	return entries, nil
}

func (s *Service) AddJournalEntry(ctx context.Context, text string) (domain.JournalEntry, error) {
	entries, err := s.store.LoadJournal(ctx)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("load journal: %w", err)
	}

	entry := domain.NewJournalEntry(s.ids.Next(), text, s.now())
	entries = append(entries, entry)

	if err := s.store.SaveJournal(ctx, entries); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("save journal: %w", err)
	}
	return entry, nil
}

// ApplyUpdate performs the status change when both TaskID and Status are set
// and the journal append when JournalEntry is set. Unlike UpdateStatus, an
// unknown task id is skipped without error.
func (s *Service) ApplyUpdate(ctx context.Context, u Update) error {
	if u.TaskID != "" && u.Status != "" {
		_, err := s.UpdateStatus(ctx, u.TaskID, u.Status)
		if err != nil && !errors.Is(err, ErrTaskNotFound) {
			return err
		}
	}

	if u.JournalEntry != "" {
		if _, err := s.AddJournalEntry(ctx, u.JournalEntry); err != nil {
			return err
		}
	}
	return nil
}
