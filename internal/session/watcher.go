// Package session feeds messages written by other board participants
// into the running UI. It watches the database file and reports when
// new rows may have appeared; the UI re-fetches and appends them to
// the feed, which the sync engine observes as tail insertions.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/vassetti/patter/internal/logging"
)

const debounceDelay = 300 * time.Millisecond

// Watcher observes the board database for writes from other processes.
// SQLite in WAL mode touches both the database file and its -wal
// sibling, so the whole parent directory is watched and events are
// filtered by filename prefix, then debounced.
type Watcher struct {
	dbPath   string
	onChange func()
	log      zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
	closed   bool
}

// New creates a watcher that calls onChange (from the watcher
// goroutine) after writes to the database settle.
func New(dbPath string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(dbPath), err)
	}

	w := &Watcher{
		dbPath:   dbPath,
		onChange: onChange,
		log:      logging.Component("session"),
		watcher:  fsw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if !strings.HasPrefix(filepath.Base(event.Name), filepath.Base(w.dbPath)) {
		return
	}
	w.scheduleChange()
}

func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		w.onChange()
	})
}

// Close stops the watcher. No onChange calls are made after Close
// returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
