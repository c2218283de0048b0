// server/domain/journal.go
package domain

import "time"

// JournalEntry is never modified after it has been appended.
type JournalEntry struct {
	ID        int64  `json:"id"`
	Entry     string `json:"entry"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
}

func NewJournalEntry(id int64, text string, now time.Time) JournalEntry {
	return JournalEntry{
		ID:        id,
		Entry:     text,
		Timestamp: Timestamp(now),
		Date:      now.Format("Mon Jan 02 2006"),
	}
}
