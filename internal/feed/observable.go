package feed

import (
	"sync"
)

// Listener receives structural change notifications from an
// ObservableList. Every mutation emits exactly one callback; ranges are
// half-open, [start, start+count).
type Listener interface {
	OnReset(l *ObservableList)
	OnRangeChanged(l *ObservableList, start, count int)
	OnRangeInserted(l *ObservableList, start, count int)
	OnRangeMoved(l *ObservableList, from, to, count int)
	OnRangeRemoved(l *ObservableList, start, count int)
}

// ObservableList is an ordered, mutable collection of entries.
// Insertion order is display order. Reads are safe from any goroutine;
// mutations must be serialized by the caller (in patter that is the UI
// update loop), since listeners are notified after the internal lock is
// released and interleaved writers would reorder events.
type ObservableList struct {
	mu        sync.RWMutex
	entries   []*Entry
	listeners []Listener
}

func NewObservableList() *ObservableList {
	return &ObservableList{}
}

// AddListener registers a listener. Registering the same listener twice
// is a no-op.
func (l *ObservableList) AddListener(ls Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.listeners {
		if existing == ls {
			return
		}
	}
	l.listeners = append(l.listeners, ls)
}

func (l *ObservableList) RemoveListener(ls Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.listeners {
		if existing == ls {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

func (l *ObservableList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *ObservableList) Get(i int) *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[i]
}

// Snapshot returns a copy of the current entry slice.
func (l *ObservableList) Snapshot() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ObservableList) snapshotListeners() []Listener {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Listener, len(l.listeners))
	copy(out, l.listeners)
	return out
}

// Append adds entries at the end and emits RangeInserted.
func (l *ObservableList) Append(entries ...*Entry) {
	if len(entries) == 0 {
		return
	}
	l.mu.Lock()
	start := len(l.entries)
	l.entries = append(l.entries, entries...)
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnRangeInserted(l, start, len(entries))
	}
}

// Insert adds entries at index i and emits RangeInserted.
func (l *ObservableList) Insert(i int, entries ...*Entry) {
	if len(entries) == 0 {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries[:i], append(append([]*Entry{}, entries...), l.entries[i:]...)...)
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnRangeInserted(l, i, len(entries))
	}
}

// Set replaces the entry at index i and emits RangeChanged.
func (l *ObservableList) Set(i int, e *Entry) {
	l.mu.Lock()
	l.entries[i] = e
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnRangeChanged(l, i, 1)
	}
}

// Remove deletes count entries at index start and emits RangeRemoved.
func (l *ObservableList) Remove(start, count int) {
	if count <= 0 {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries[:start], l.entries[start+count:]...)
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnRangeRemoved(l, start, count)
	}
}

// Move relocates count entries from index from to index to and emits
// RangeMoved. The destination index is interpreted the way the view
// layer applies it: items land at to+i when from > to, at to otherwise.
func (l *ObservableList) Move(from, to, count int) {
	if count <= 0 || from == to {
		return
	}
	l.mu.Lock()
	for i := 0; i < count; i++ {
		e := l.entries[from]
		l.entries = append(l.entries[:from], l.entries[from+1:]...)
		dest := to
		if from > to {
			dest = to + i
		}
		l.entries = append(l.entries[:dest], append([]*Entry{e}, l.entries[dest:]...)...)
	}
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnRangeMoved(l, from, to, count)
	}
}

// Reset replaces the whole collection and emits a single Reset.
func (l *ObservableList) Reset(entries []*Entry) {
	l.mu.Lock()
	l.entries = make([]*Entry, len(entries))
	copy(l.entries, entries)
	l.mu.Unlock()
	for _, ls := range l.snapshotListeners() {
		ls.OnReset(l)
	}
}
