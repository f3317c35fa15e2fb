package viewsync

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/vassetti/patter/internal/feed"
	"github.com/vassetti/patter/internal/logging"
)

// slot is one materialized view bound to one entry. The generation
// counter invalidates deferred checks scheduled against an earlier
// binding of this slot: rebinding or removal bumps it, and a check
// whose captured generation no longer matches does nothing.
type slot struct {
	entry *feed.Entry
	view  *View
	gen   atomic.Uint64

	// last visibility verdict, written on flush or scroll
	evaluated bool
	visible   bool
}

func (s *slot) generation() uint64 { return s.gen.Load() }
func (s *slot) invalidate()        { s.gen.Add(1) }

// Engine keeps a list of materialized views index-aligned with a
// backing ObservableList, schedules a post-layout visibility check for
// every view it creates or rebinds, and maintains the unread counter
// as a derived aggregate over the slots.
//
// All methods are safe for concurrent use, but structural events are
// expected to arrive from a single goroutine (the UI update loop).
type Engine struct {
	factory *ViewFactory
	log     zerolog.Logger

	mu       sync.Mutex
	list     *feed.ObservableList
	template TemplateID
	counter  *feed.Counter
	attached bool
	slots    []*slot
	sched    scheduler
}

func NewEngine(factory *ViewFactory) *Engine {
	return &Engine{
		factory: factory,
		log:     logging.Component("viewsync"),
	}
}

// Attach subscribes the engine to a backing list and materializes it
// from scratch. Attaching with an unchanged list and template is a
// no-op; anything else releases the previous subscription first.
func (e *Engine) Attach(list *feed.ObservableList, template TemplateID, counter *feed.Counter) {
	e.mu.Lock()
	if e.attached && e.list == list && e.template == template {
		e.mu.Unlock()
		return
	}
	prev := e.list
	sameList := e.attached && prev == list
	if e.attached && prev != nil && !sameList {
		prev.RemoveListener(e)
	}
	e.list = list
	e.template = template
	e.counter = counter
	e.attached = true
	e.mu.Unlock()

	if !sameList {
		list.AddListener(e)
	}
	e.OnReset(list)
}

// Detach releases the subscription and invalidates every pending
// deferred check.
func (e *Engine) Detach() {
	e.mu.Lock()
	list := e.list
	e.attached = false
	e.list = nil
	for _, s := range e.slots {
		s.invalidate()
	}
	e.slots = nil
	e.sched.clear()
	e.mu.Unlock()

	if list != nil {
		list.RemoveListener(e)
	}
}

// Invalidate rebuilds every materialized view from the current backing
// list, as after a render-width change.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached {
		return
	}
	e.resetLocked()
}

// OnReset discards all materialized views and rebuilds the container,
// scheduling one deferred check per view.
func (e *Engine) OnReset(l *feed.ObservableList) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached || l != e.list {
		return
	}
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	for _, s := range e.slots {
		s.invalidate()
	}
	e.slots = nil
	e.sched.clear()
	if e.template == TemplateNone {
		e.recomputeLocked()
		return
	}
	n := e.list.Len()
	for i := 0; i < n; i++ {
		entry := e.list.Get(i)
		s := &slot{entry: entry, view: e.factory.CreateView(e.template, entry)}
		e.slots = append(e.slots, s)
		e.sched.schedule(s)
	}
	e.recomputeLocked()
}

// OnRangeChanged rebinds the views for [start, start+count) in place,
// ascending, scheduling a deferred check for each new binding.
func (e *Engine) OnRangeChanged(l *feed.ObservableList, start, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached || l != e.list || e.template == TemplateNone {
		return
	}
	for i := start; i < start+count; i++ {
		e.slots[i].invalidate()
		entry := e.list.Get(i)
		s := &slot{entry: entry, view: e.factory.CreateView(e.template, entry)}
		e.slots[i] = s
		e.sched.schedule(s)
	}
	e.recomputeLocked()
}

// OnRangeInserted materializes views for the new entries. Indices are
// processed highest first, each inserted at start, which keeps the
// not-yet-processed insertion points stable and lands the batch in
// ascending order.
func (e *Engine) OnRangeInserted(l *feed.ObservableList, start, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached || l != e.list || e.template == TemplateNone {
		return
	}
	for i := start + count - 1; i >= start; i-- {
		entry := e.list.Get(i)
		s := &slot{entry: entry, view: e.factory.CreateView(e.template, entry)}
		e.slots = append(e.slots, nil)
		copy(e.slots[start+1:], e.slots[start:])
		e.slots[start] = s
		e.sched.schedule(s)
	}
	e.log.Debug().Int("start", start).Int("count", count).Msg("range inserted")
	e.recomputeLocked()
}

// OnRangeMoved relocates materialized views without rebuilding them.
// Seen state and pending checks travel with the slot; no new check is
// scheduled.
func (e *Engine) OnRangeMoved(l *feed.ObservableList, from, to, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached || l != e.list || e.template == TemplateNone {
		return
	}
	for i := 0; i < count; i++ {
		s := e.slots[from]
		e.slots = append(e.slots[:from], e.slots[from+1:]...)
		dest := to
		if from > to {
			dest = to + i
		}
		e.slots = append(e.slots[:dest], append([]*slot{s}, e.slots[dest:]...)...)
	}
}

// OnRangeRemoved drops the slots at [start, start+count). Their
// generations are bumped so in-flight checks no-op, and the counter
// recompute sheds whatever they contributed.
func (e *Engine) OnRangeRemoved(l *feed.ObservableList, start, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached || l != e.list || e.template == TemplateNone {
		return
	}
	for i := start; i < start+count && i < len(e.slots); i++ {
		e.slots[i].invalidate()
	}
	e.slots = append(e.slots[:start], e.slots[start+count:]...)
	e.recomputeLocked()
}

// FlushLayout resolves all pending deferred checks against the final
// geometry of the current layout pass, then recomputes the counter.
// Stale checks (slot rebound, removed, or detached since scheduling)
// are dropped.
func (e *Engine) FlushLayout(vp Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	checks := e.sched.drain()
	if len(checks) > 0 {
		tops := e.topsLocked()
		for _, c := range checks {
			if c.stale() {
				continue
			}
			top, ok := tops[c.target]
			if !ok {
				continue
			}
			visible := FullyVisible(top, c.target.view.Height(), vp)
			c.target.entry.SetSeen(visible)
			c.target.evaluated = true
			c.target.visible = visible
		}
	}
	e.recomputeLocked()
}

// Scroll re-evaluates visibility for every materialized view in one
// pass and recomputes the counter. It records per-slot verdicts but
// never writes the seen flag; scrolling a seen message off screen does
// not make it unread again.
func (e *Engine) Scroll(vp Viewport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hidden := make(map[int]struct{})
	top := 0
	for i, s := range e.slots {
		visible := FullyVisible(top, s.view.Height(), vp)
		if !visible {
			hidden[i] = struct{}{}
		}
		s.evaluated = true
		s.visible = visible
		top += s.view.Height()
	}
	e.log.Debug().Int("hidden", len(hidden)).Int("views", len(e.slots)).Msg("scroll recompute")
	e.recomputeLocked()
}

// recomputeLocked derives the unread count from slot state: entries
// whose last verdict was not-fully-visible and whose seen flag is
// still false. Counting this way keeps the incremental and scroll
// paths consistent and the counter non-negative.
func (e *Engine) recomputeLocked() {
	if e.counter == nil {
		return
	}
	n := 0
	for _, s := range e.slots {
		if s.evaluated && !s.visible && !s.entry.Seen() {
			n++
		}
	}
	e.counter.Set(n)
}

// topsLocked maps each slot to its first content row.
func (e *Engine) topsLocked() map[*slot]int {
	tops := make(map[*slot]int, len(e.slots))
	top := 0
	for _, s := range e.slots {
		tops[s] = top
		top += s.view.Height()
	}
	return tops
}

// Content renders the whole container: every materialized view's lines
// in order. Row offsets in the result match the geometry the checks
// evaluate against.
func (e *Engine) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var lines []string
	for _, s := range e.slots {
		lines = append(lines, s.view.Lines...)
	}
	return strings.Join(lines, "\n")
}

// ContentHeight is the total number of content rows.
func (e *Engine) ContentHeight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	top := 0
	for _, s := range e.slots {
		top += s.view.Height()
	}
	return top
}

// ViewCount is the number of materialized views.
func (e *Engine) ViewCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.slots)
}

// PendingChecks is the number of deferred checks not yet resolved.
func (e *Engine) PendingChecks() int {
	return e.sched.pendingCount()
}
