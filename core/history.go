package core

import (
	"sync"
	"time"
)

const defaultJournalCapacity = 128

// EventKind classifies a lifecycle transition in the journal.
type EventKind int

const (
	EventCreated EventKind = iota
	EventSuspended
	EventResumed
	EventPriorityChanged
	EventExited
	EventDeleted
)

func (e EventKind) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventSuspended:
		return "suspended"
	case EventResumed:
		return "resumed"
	case EventPriorityChanged:
		return "priority-changed"
	case EventExited:
		return "exited"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// LifecycleRecord captures one lifecycle transition.
type LifecycleRecord struct {
	Handle Handle
	Name   string
	Event  EventKind
	At     time.Time
}

// lifecycleJournal is a bounded ring of lifecycle records. The oldest
// entry is overwritten once the ring is full.
type lifecycleJournal struct {
	mu    sync.Mutex
	items []LifecycleRecord
	head  int
	count int
}

func newLifecycleJournal(capacity int) *lifecycleJournal {
	if capacity < 1 {
		capacity = defaultJournalCapacity
	}
	return &lifecycleJournal{items: make([]LifecycleRecord, capacity)}
}

func (j *lifecycleJournal) Add(record LifecycleRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.items[j.head] = record
	j.head = (j.head + 1) % len(j.items)
	if j.count < len(j.items) {
		j.count++
	}
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (j *lifecycleJournal) Recent(limit int) []LifecycleRecord {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.count == 0 {
		return nil
	}
	if limit <= 0 || limit > j.count {
		limit = j.count
	}

	out := make([]LifecycleRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (j.head - 1 - i + len(j.items)) % len(j.items)
		out = append(out, j.items[idx])
	}
	return out
}

// Last returns the newest record, if any.
func (j *lifecycleJournal) Last() (LifecycleRecord, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.count == 0 {
		return LifecycleRecord{}, false
	}
	idx := (j.head - 1 + len(j.items)) % len(j.items)
	return j.items[idx], true
}
