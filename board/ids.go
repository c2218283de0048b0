// server/board/ids.go
package board

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out millisecond timestamps that never repeat: when two
// calls land in the same millisecond the second one is bumped forward.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time

	// UUIDTasks makes TaskID return random UUIDs instead of timestamps.
	UUIDTasks bool
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns the next journal entry id.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// TaskID returns a default id for a task created without one.
func (g *IDGenerator) TaskID() string {
	if g.UUIDTasks {
		return uuid.NewString()
	}
	return strconv.FormatInt(g.Next(), 10)
}
