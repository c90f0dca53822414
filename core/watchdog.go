package core

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// StallReport describes a running task that has gone past the stall bound
// without reaching a checkpoint. Such a task cannot be suspended or
// stopped by this layer until it checkpoints again; the watchdog makes
// that condition visible instead of letting it hide.
type StallReport struct {
	Handle Handle
	Name   string
	Since  time.Duration // time since the task's last checkpoint
}

// watchdog periodically scans the registry for running tasks whose last
// checkpoint is older than the stall bound and reports them oldest-first.
// Detection only: it never forces a task to stop.
type watchdog struct {
	k        *Kernel
	interval time.Duration
	stall    time.Duration
	onStall  func(StallReport)

	quit chan struct{}
	done chan struct{}
}

func newWatchdog(k *Kernel, interval, stall time.Duration, onStall func(StallReport)) *watchdog {
	return &watchdog{
		k:        k,
		interval: interval,
		stall:    stall,
		onStall:  onStall,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *watchdog) start() {
	go w.loop()
}

func (w *watchdog) stop() {
	close(w.quit)
	<-w.done
}

func (w *watchdog) loop() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return
		case <-ticker.C:
			w.scan(time.Now())
		}
	}
}

// stallKey orders stalled tasks by last checkpoint, then slot index as a
// tiebreaker.
type stallKey struct {
	lastCheckpoint int64
	index          uint32
}

func stallCmp(a, b any) int {
	ka, kb := a.(stallKey), b.(stallKey)
	switch {
	case ka.lastCheckpoint < kb.lastCheckpoint:
		return -1
	case ka.lastCheckpoint > kb.lastCheckpoint:
		return 1
	case ka.index < kb.index:
		return -1
	case ka.index > kb.index:
		return 1
	default:
		return 0
	}
}

func (w *watchdog) scan(now time.Time) {
	rbt := redblacktree.NewWith(stallCmp)

	for _, t := range w.k.reg.snapshot() {
		// Suspended tasks are legitimately parked, not stalled.
		if t.state() != StateRunning {
			continue
		}
		last := t.lastCheckpoint.Load()
		if now.Sub(time.Unix(0, last)) > w.stall {
			rbt.Put(stallKey{lastCheckpoint: last, index: t.handle.index}, t)
		}
	}

	it := rbt.Iterator()
	for it.Next() {
		t := it.Value().(*task)
		since := now.Sub(time.Unix(0, t.lastCheckpoint.Load()))

		w.k.metrics.RecordStalledTask(t.name)
		w.k.log.Warn("task has not checkpointed",
			F("name", t.name), F("since", since.Round(time.Millisecond)))
		if w.onStall != nil {
			w.onStall(StallReport{Handle: t.handle, Name: t.name, Since: since})
		}
	}
}
