package feed

import (
	"sync"

	"github.com/vassetti/patter/internal/models"
)

// Entry is one message in the feed plus its seen flag. The payload is
// immutable once the entry is created; only the seen flag changes, and
// only when a visibility check resolves. Entries are compared by
// pointer, never by payload equality.
type Entry struct {
	Message models.Message

	mu   sync.Mutex
	seen bool
}

func NewEntry(msg models.Message) *Entry {
	return &Entry{Message: msg}
}

// Seen reports whether this entry's view was fully visible the last
// time it was evaluated. It is a snapshot taken at check time, not a
// live answer.
func (e *Entry) Seen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen
}

func (e *Entry) SetSeen(v bool) {
	e.mu.Lock()
	e.seen = v
	e.mu.Unlock()
}
