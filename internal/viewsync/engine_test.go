package viewsync

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vassetti/patter/internal/feed"
	"github.com/vassetti/patter/internal/models"
)

const testTemplate TemplateID = 1

func testFactory() *ViewFactory {
	f := NewViewFactory()
	f.Register(testTemplate, func(e *feed.Entry, width int) []string {
		return strings.Split(e.Message.Body, "\n")
	})
	return f
}

// entryLines builds an entry whose view is exactly len(lines) rows tall.
func entryLines(lines ...string) *feed.Entry {
	return feed.NewEntry(models.Message{Body: strings.Join(lines, "\n")})
}

func feedOf(n, height int) *feed.ObservableList {
	l := feed.NewObservableList()
	entries := make([]*feed.Entry, n)
	for i := range entries {
		lines := make([]string, height)
		for j := range lines {
			lines[j] = fmt.Sprintf("m%d.%d", i, j)
		}
		entries[i] = entryLines(lines...)
	}
	l.Reset(entries)
	return l
}

func requireAligned(t *testing.T, e *Engine, l *feed.ObservableList) {
	t.Helper()
	require.Equal(t, l.Len(), e.ViewCount())
	for i := 0; i < l.Len(); i++ {
		require.Same(t, l.Get(i), e.slots[i].entry, "slot %d out of alignment", i)
	}
}

func TestEngine_StaysAlignedThroughMutations(t *testing.T) {
	l := feedOf(4, 1)
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, feed.NewCounter())
	requireAligned(t, e, l)

	l.Append(entryLines("a"), entryLines("b"))
	requireAligned(t, e, l)

	l.Insert(2, entryLines("c"))
	requireAligned(t, e, l)

	l.Set(0, entryLines("d"))
	requireAligned(t, e, l)

	l.Move(0, 4, 2)
	requireAligned(t, e, l)

	l.Remove(1, 3)
	requireAligned(t, e, l)

	l.Reset([]*feed.Entry{entryLines("x")})
	requireAligned(t, e, l)
}

func TestEngine_BatchInsertMatchesSequentialInserts(t *testing.T) {
	batch := feed.NewObservableList()
	eBatch := NewEngine(testFactory())
	eBatch.Attach(batch, testTemplate, feed.NewCounter())
	batch.Insert(0, entryLines("a"), entryLines("b"), entryLines("c"))

	oneByOne := feed.NewObservableList()
	eSeq := NewEngine(testFactory())
	eSeq.Attach(oneByOne, testTemplate, feed.NewCounter())
	oneByOne.Insert(0, entryLines("a"))
	oneByOne.Insert(1, entryLines("b"))
	oneByOne.Insert(2, entryLines("c"))

	require.Equal(t, eSeq.Content(), eBatch.Content())
	requireAligned(t, eBatch, batch)
	requireAligned(t, eSeq, oneByOne)
}

func TestEngine_MovePreservesSeenState(t *testing.T) {
	l := feedOf(3, 1)
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, feed.NewCounter())

	// Resolve all checks with everything on screen.
	e.FlushLayout(Viewport{Offset: 0, Height: 10})
	for i := 0; i < l.Len(); i++ {
		require.True(t, l.Get(i).Seen())
	}

	l.Move(0, 2, 1)
	requireAligned(t, e, l)
	for i := 0; i < l.Len(); i++ {
		require.True(t, l.Get(i).Seen())
	}
	// Moves schedule no new checks.
	require.Equal(t, 0, e.PendingChecks())
}

func TestEngine_AttachIsIdempotent(t *testing.T) {
	l := feedOf(2, 1)
	c := feed.NewCounter()
	e := NewEngine(testFactory())

	e.Attach(l, testTemplate, c)
	pending := e.PendingChecks()
	e.Attach(l, testTemplate, c)
	require.Equal(t, pending, e.PendingChecks())

	// Still exactly one subscription: one append, one new view.
	l.Append(entryLines("a"))
	require.Equal(t, 3, e.ViewCount())
}

func TestEngine_AttachWithNewTemplateRebuilds(t *testing.T) {
	l := feedOf(2, 1)
	f := testFactory()
	f.Register(2, func(e *feed.Entry, width int) []string {
		return []string{"alt: " + e.Message.Body}
	})
	e := NewEngine(f)
	e.Attach(l, testTemplate, feed.NewCounter())
	e.Attach(l, 2, feed.NewCounter())

	require.True(t, strings.HasPrefix(e.Content(), "alt: "))
	requireAligned(t, e, l)
}

func TestEngine_TemplateNoneLeavesContainerEmpty(t *testing.T) {
	l := feedOf(3, 1)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, TemplateNone, c)

	require.Equal(t, 0, e.ViewCount())
	require.Equal(t, 0, e.PendingChecks())
	require.Equal(t, "", e.Content())
	require.Equal(t, 0, c.Value())
}

func TestEngine_RemoveDropsViewsAndSchedulesNothing(t *testing.T) {
	l := feedOf(3, 2)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, c)

	// Everything resolves off-screen: three unread.
	e.FlushLayout(Viewport{Offset: 0, Height: 1})
	require.Equal(t, 3, c.Value())

	pending := e.PendingChecks()
	l.Remove(0, 1)
	require.Equal(t, 2, e.ViewCount())
	require.Equal(t, pending, e.PendingChecks())
	// The derived recompute sheds the removed entry's contribution.
	require.Equal(t, 2, c.Value())
	requireAligned(t, e, l)
}

func TestEngine_StaleCheckAgainstRemovedEntryIsNoOp(t *testing.T) {
	l := feedOf(3, 1)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, c)

	removed := l.Get(0)
	require.Equal(t, 3, e.PendingChecks())
	l.Remove(0, 1)

	// The pending check for the removed entry resolves stale: the seen
	// flag must not be written even though the viewport shows all.
	e.FlushLayout(Viewport{Offset: 0, Height: 100})
	require.False(t, removed.Seen())
	require.True(t, l.Get(0).Seen())
	require.True(t, l.Get(1).Seen())
	require.Equal(t, 0, c.Value())
}

func TestEngine_ChangedRebindsInPlaceAndInvalidatesOldCheck(t *testing.T) {
	l := feedOf(2, 1)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, c)
	e.FlushLayout(Viewport{Offset: 0, Height: 100})

	old := l.Get(1)
	replacement := entryLines("replacement")
	l.Set(1, replacement)
	require.Contains(t, e.Content(), "replacement")
	requireAligned(t, e, l)

	e.FlushLayout(Viewport{Offset: 0, Height: 100})
	require.True(t, replacement.Seen())
	// The old entry keeps its last verdict; nothing re-evaluates it.
	require.True(t, old.Seen())
}

func TestEngine_DetachCancelsPendingChecks(t *testing.T) {
	l := feedOf(3, 1)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, c)
	require.Equal(t, 3, e.PendingChecks())

	e.Detach()
	require.Equal(t, 0, e.PendingChecks())
	e.FlushLayout(Viewport{Offset: 0, Height: 100})
	for i := 0; i < l.Len(); i++ {
		require.False(t, l.Get(i).Seen())
	}

	// Mutations after detach no longer reach the engine.
	l.Append(entryLines("late"))
	require.Equal(t, 0, e.ViewCount())
}

func TestEngine_FlushIsIdempotent(t *testing.T) {
	l := feedOf(3, 2)
	c := feed.NewCounter()
	e := NewEngine(testFactory())
	e.Attach(l, testTemplate, c)

	vp := Viewport{Offset: 0, Height: 1}
	e.FlushLayout(vp)
	require.Equal(t, 3, c.Value())

	// A second flush with nothing pending must not double-count.
	e.FlushLayout(vp)
	require.Equal(t, 3, c.Value())
}

func TestEngine_UnknownTemplateRendersUnbound(t *testing.T) {
	l := feedOf(2, 1)
	e := NewEngine(NewViewFactory()) // no templates registered
	e.Attach(l, testTemplate, feed.NewCounter())

	require.Equal(t, 2, e.ViewCount())
	require.Equal(t, "", e.Content())
	require.Equal(t, 0, e.ContentHeight())
}
