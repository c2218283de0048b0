// server/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ViniZap4/kanban-server/domain"
)

// ErrNotExist is returned by a Store when a document has never been saved.
var ErrNotExist = errors.New("document does not exist")

// Store reads and rewrites the two board documents wholesale. Implementations
// do no locking: concurrent read-modify-write cycles against the same document
// can lose updates, and the last save wins.
type Store interface {
	LoadTasks(ctx context.Context) (domain.TaskMap, error)
	SaveTasks(ctx context.Context, tasks domain.TaskMap) error
	LoadJournal(ctx context.Context) ([]domain.JournalEntry, error)
	SaveJournal(ctx context.Context, entries []domain.JournalEntry) error
}

// SeedTaskID is the id of the example task written on first run.
const SeedTaskID = "sam-scripts"

// SeedTasks returns the example board written when no tasks document exists.
func SeedTasks(now time.Time) domain.TaskMap {
	return domain.TaskMap{
		SeedTaskID: domain.TaskFields{
			Title:         "Sam Ad Script Review",
			Description:   "Final review with Austin for video shoot",
			Status:        "Urgent",
			Category:      "LYNKS",
			Assignee:      "Austin",
			Priority:      "Urgent",
			Tokens:        "~$3 tokens",
			CurrentStatus: domain.DefaultStatus,
			DetailedDesc:  "Complete final review of ad scripts for Sam's video shoot campaign.",
			Subtasks: []domain.Subtask{
				{Text: "Review script hooks for engagement", Tokens: "$1"},
				{Text: "Check messaging alignment with LYNKS brand", Tokens: "$1"},
				{Text: "Finalize call-to-action language", Tokens: "$1"},
			},
			UpdatedAt: domain.Timestamp(now),
		}.Task(),
	}
}

// SeedReport says what Seed wrote and which existing documents it could
// not read. An unreadable document is left as is; requests that load it fail
// until it is repaired.
type SeedReport struct {
	Tasks      bool
	Journal    bool
	Unreadable []error
}

// Seed writes the initial documents for any that do not exist. Documents
// that exist are never overwritten, even when empty or corrupt. The returned
// error is only set when writing a seed document fails.
func Seed(ctx context.Context, s Store, now time.Time) (SeedReport, error) {
	var report SeedReport

	if _, err := s.LoadTasks(ctx); err != nil {
		if !errors.Is(err, ErrNotExist) {
			report.Unreadable = append(report.Unreadable, fmt.Errorf("tasks document: %w", err))
		} else if err := s.SaveTasks(ctx, SeedTasks(now)); err != nil {
			return report, fmt.Errorf("seed tasks document: %w", err)
		} else {
			report.Tasks = true
		}
	}

	if _, err := s.LoadJournal(ctx); err != nil {
		if !errors.Is(err, ErrNotExist) {
			report.Unreadable = append(report.Unreadable, fmt.Errorf("journal document: %w", err))
		} else if err := s.SaveJournal(ctx, []domain.JournalEntry{}); err != nil {
			return report, fmt.Errorf("seed journal document: %w", err)
		} else {
			report.Journal = true
		}
	}

	return report, nil
}
