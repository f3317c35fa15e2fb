package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vassetti/patter/internal/models"
)

type recordedEvent struct {
	kind  string
	start int
	to    int
	count int
}

type recordingListener struct {
	events []recordedEvent
}

func (r *recordingListener) OnReset(l *ObservableList) {
	r.events = append(r.events, recordedEvent{kind: "reset"})
}

func (r *recordingListener) OnRangeChanged(l *ObservableList, start, count int) {
	r.events = append(r.events, recordedEvent{kind: "changed", start: start, count: count})
}

func (r *recordingListener) OnRangeInserted(l *ObservableList, start, count int) {
	r.events = append(r.events, recordedEvent{kind: "inserted", start: start, count: count})
}

func (r *recordingListener) OnRangeMoved(l *ObservableList, from, to, count int) {
	r.events = append(r.events, recordedEvent{kind: "moved", start: from, to: to, count: count})
}

func (r *recordingListener) OnRangeRemoved(l *ObservableList, start, count int) {
	r.events = append(r.events, recordedEvent{kind: "removed", start: start, count: count})
}

func entry(body string) *Entry {
	return NewEntry(models.Message{Body: body})
}

func entries(n int) []*Entry {
	out := make([]*Entry, n)
	for i := range out {
		out[i] = entry(fmt.Sprintf("m%d", i))
	}
	return out
}

func TestObservableList_EmitsOneEventPerMutation(t *testing.T) {
	l := NewObservableList()
	rec := &recordingListener{}
	l.AddListener(rec)

	l.Append(entry("a"), entry("b"))
	l.Insert(1, entry("c"))
	l.Set(0, entry("d"))
	l.Move(0, 2, 1)
	l.Remove(1, 1)
	l.Reset(entries(2))

	require.Equal(t, []recordedEvent{
		{kind: "inserted", start: 0, count: 2},
		{kind: "inserted", start: 1, count: 1},
		{kind: "changed", start: 0, count: 1},
		{kind: "moved", start: 0, to: 2, count: 1},
		{kind: "removed", start: 1, count: 1},
		{kind: "reset"},
	}, rec.events)
}

func TestObservableList_EmptyMutationsEmitNothing(t *testing.T) {
	l := NewObservableList()
	rec := &recordingListener{}
	l.AddListener(rec)

	l.Append()
	l.Remove(0, 0)
	l.Move(1, 1, 3)

	require.Empty(t, rec.events)
}

func TestObservableList_MoveReordersLikeViewLayer(t *testing.T) {
	l := NewObservableList()
	l.Reset(entries(5)) // m0 m1 m2 m3 m4

	// Move two entries forward: m1,m2 land after m3.
	l.Move(1, 3, 2)
	require.Equal(t, []string{"m0", "m3", "m1", "m2", "m4"}, bodies(l))

	// Move them back.
	l.Move(2, 1, 2)
	require.Equal(t, []string{"m0", "m1", "m2", "m3", "m4"}, bodies(l))
}

func bodies(l *ObservableList) []string {
	out := make([]string, l.Len())
	for i := range out {
		out[i] = l.Get(i).Message.Body
	}
	return out
}

func TestObservableList_ListenerRegistrationIsIdempotent(t *testing.T) {
	l := NewObservableList()
	rec := &recordingListener{}
	l.AddListener(rec)
	l.AddListener(rec)

	l.Append(entry("a"))
	require.Len(t, rec.events, 1)

	l.RemoveListener(rec)
	l.Append(entry("b"))
	require.Len(t, rec.events, 1)
}

func TestObservableList_SnapshotIsACopy(t *testing.T) {
	l := NewObservableList()
	l.Reset(entries(3))

	snap := l.Snapshot()
	l.Remove(0, 2)

	require.Len(t, snap, 3)
	require.Equal(t, 1, l.Len())
}
