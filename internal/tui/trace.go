package tui

import (
	"fmt"

	"github.com/h0rv/nanoui/internal/flow"
)

// TraceEntry is one realised transition.
type TraceEntry struct {
	Seq  int
	From flow.ID
	To   flow.ID
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("#%d %s -> %s", e.Seq, e.From, e.To)
}

// Trace keeps the most recent transitions in a fixed-size ring. Register
// Observe with flow.WithObserver.
type Trace struct {
	entries []TraceEntry
	next    int
	seq     int
}

// NewTrace creates a trace holding up to size entries.
func NewTrace(size int) *Trace {
	if size < 1 {
		size = 1
	}
	return &Trace{entries: make([]TraceEntry, 0, size)}
}

// Observe records a transition.
func (t *Trace) Observe(from, to flow.ID, _ any) {
	t.seq++
	e := TraceEntry{Seq: t.seq, From: from, To: to}
	if len(t.entries) < cap(t.entries) {
		t.entries = append(t.entries, e)
		return
	}
	t.entries[t.next] = e
	t.next = (t.next + 1) % len(t.entries)
}

// Entries returns the retained transitions, oldest first.
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, 0, len(t.entries))
	out = append(out, t.entries[t.next:]...)
	return append(out, t.entries[:t.next]...)
}

// Last returns the most recent transition.
func (t *Trace) Last() (TraceEntry, bool) {
	if len(t.entries) == 0 {
		return TraceEntry{}, false
	}
	i := (t.next - 1 + len(t.entries)) % len(t.entries)
	return t.entries[i], true
}

// Total returns the number of transitions observed, including dropped ones.
func (t *Trace) Total() int {
	return t.seq
}
