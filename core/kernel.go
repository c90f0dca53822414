package core

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Kernel owns the task registry and implements the lifecycle protocol:
// create, cooperative suspend/resume, cooperative stop with join, and
// priority translation. One Kernel instance is one independent task
// universe; there are no package-level globals.
//
// Suspend, Resume and Delete never force the target goroutine to stop.
// They only mutate TCB flags and broadcast on the TCB's condition
// variable; the target honors them at its next Yield or Delay checkpoint.
type Kernel struct {
	cfg     Config
	reg     *registry
	log     Logger
	metrics Metrics
	journal *lifecycleJournal
	wd      *watchdog
}

// KernelOptions holds optional collaborator hooks. All fields are
// optional; missing ones get default implementations.
type KernelOptions struct {
	// Logger receives lifecycle and degradation events. Defaults to
	// DefaultLogger.
	Logger Logger

	// Metrics receives task telemetry. Defaults to NilMetrics.
	Metrics Metrics

	// OnStall is invoked by the checkpoint watchdog (when enabled via
	// Config.WatchdogIntervalMS) for each running task that has gone past
	// the stall bound without checkpointing.
	OnStall func(StallReport)
}

// NewKernel creates a kernel with default options.
func NewKernel(cfg Config) *Kernel {
	return NewKernelWithOptions(cfg, nil)
}

// NewKernelWithOptions creates a kernel with the given hooks.
func NewKernelWithOptions(cfg Config, opts *KernelOptions) *Kernel {
	cfg = cfg.sanitized()
	if opts == nil {
		opts = &KernelOptions{}
	}
	k := &Kernel{
		cfg:     cfg,
		reg:     newRegistry(cfg.Capacity),
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if k.log == nil {
		k.log = NewDefaultLogger()
	}
	if k.metrics == nil {
		k.metrics = &NilMetrics{}
	}
	if cfg.HistoryCapacity >= 0 {
		k.journal = newLifecycleJournal(cfg.HistoryCapacity)
	}
	if cfg.WatchdogIntervalMS > 0 {
		k.wd = newWatchdog(k, cfg.watchdogInterval(), cfg.watchdogStall(), opts.OnStall)
		k.wd.start()
	}
	return k
}

// Config returns the (sanitized) configuration the kernel runs with.
func (k *Kernel) Config() Config { return k.cfg }

// Create allocates a TCB slot, spawns the task goroutine and returns its
// handle. The name is copied into a bounded buffer, truncating silently.
// Priority is applied from inside the new goroutine once it is pinned to
// an OS thread; failure to elevate degrades to the time-shared default
// and is logged, never surfaced as a creation failure.
func (k *Kernel) Create(entry TaskEntry, arg any, attr TaskAttr) (Handle, error) {
	if entry == nil {
		return Handle{}, fmt.Errorf("%w: nil task entry", ErrInvalidArgument)
	}

	h, err := k.reg.allocate()
	if err != nil {
		return Handle{}, err
	}

	t := newTask(h, entry, arg, attr)
	t.name = truncateName(attr.Name, k.cfg.NameMax)
	t.slice = k.cfg.delaySlice()
	t.sliceThreshold = k.cfg.delaySliceThreshold()
	t.metrics = k.metrics
	k.reg.bind(h, t)

	go k.trampoline(t)

	k.record(EventCreated, t)
	k.metrics.RecordTaskCreated(t.name)
	k.log.Debug("task created",
		F("name", t.name), F("prio", attr.Priority), F("slot", h.index))
	return h, nil
}

// trampoline is the goroutine body of every task. It pins the goroutine
// to an OS thread, applies the translated priority, installs the TCB into
// the task context and invokes the user entry. The deferred completion
// also runs when a checkpoint terminates the goroutine via runtime.Goexit,
// so Delete's join always unblocks.
func (k *Kernel) trampoline(t *task) {
	runtime.LockOSThread()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.suspended = false
		t.mu.Unlock()
		t.cond.Broadcast()
		k.record(EventExited, t)
		close(t.done)
	}()

	t.tid.Store(nativeThreadID())
	k.applyPriority(t, t.requestedPriority())

	ctx := withTask(context.Background(), t)
	t.entry(ctx, t.arg)
}

// applyPriority translates and applies a task's priority to its pinned
// thread, recording both the request and the outcome on the TCB.
func (k *Kernel) applyPriority(t *task, abstract uint8) error {
	np := Translate(abstract, k.cfg.ElevatedScheduling)
	applied, err := applySched(t.tid.Load(), np, fallbackNice(abstract))

	t.prioMu.Lock()
	t.prioReq = abstract
	t.applied = applied
	t.prioMu.Unlock()

	if err != nil {
		k.metrics.RecordDegradedScheduling(t.name)
		k.log.Warn("scheduling degraded",
			F("name", t.name), F("prio", abstract), F("err", err))
	}
	return err
}

// Suspend requests a cooperative pause. It does not block the caller and
// takes effect at the target's next checkpoint. Repeated calls are
// idempotent; a task that has already exited is left alone.
func (k *Kernel) Suspend(h Handle) error {
	t, err := k.reg.lookup(h)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.running {
		t.suspended = true
	}
	t.mu.Unlock()

	k.record(EventSuspended, t)
	return nil
}

// Resume clears a pending suspend and wakes the task if it is parked at a
// checkpoint. Resuming a task that was not suspended is a no-op, not an
// error.
func (k *Kernel) Resume(h Handle) error {
	t, err := k.reg.lookup(h)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.suspended = false
	t.mu.Unlock()
	t.cond.Broadcast()

	k.record(EventResumed, t)
	return nil
}

// Delete requests a cooperative stop, wakes the task if it is parked,
// blocks until its goroutine has fully exited, and releases the slot.
// This is the only destruction path. Deleting an already-exited task
// completes immediately after the join; deleting an unknown or stale
// handle returns ErrInvalidArgument.
//
// Delete must not be called from the task's own goroutine: the join would
// wait on itself.
func (k *Kernel) Delete(h Handle) error {
	t, err := k.reg.lookup(h)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.running = false
	t.suspended = false
	t.mu.Unlock()
	t.cond.Broadcast()

	<-t.done

	if !t.reaped.CompareAndSwap(false, true) {
		// Lost a concurrent Delete race; the winner released the slot.
		return nil
	}
	k.reg.release(t.handle)
	k.record(EventDeleted, t)
	k.metrics.RecordTaskDeleted(t.name, time.Since(t.createdAt))
	k.log.Debug("task deleted", F("name", t.name), F("slot", t.handle.index))
	return nil
}

// ChangePriority re-translates and re-applies priority on a live task.
// The requested value is recorded even when the OS refuses the elevated
// class; in that case the task keeps running time-shared and the returned
// error matches ErrDegradedScheduling.
func (k *Kernel) ChangePriority(h Handle, priority uint8) error {
	t, err := k.reg.lookup(h)
	if err != nil {
		return err
	}

	if t.tid.Load() == 0 {
		// Not pinned yet; the trampoline will pick up the new request.
		t.prioMu.Lock()
		t.prioReq = priority
		t.prioMu.Unlock()
		return nil
	}

	k.record(EventPriorityChanged, t)
	return k.applyPriority(t, priority)
}

// GetState reports the task's lifecycle state. Unknown and stale handles
// read as StateInvalid alongside ErrInvalidArgument.
func (k *Kernel) GetState(h Handle) (TaskState, error) {
	t, err := k.reg.lookup(h)
	if err != nil {
		return StateInvalid, err
	}
	return t.state(), nil
}

// GetName returns the task's (possibly truncated) name.
func (k *Kernel) GetName(h Handle) (string, error) {
	t, err := k.reg.lookup(h)
	if err != nil {
		return "", err
	}
	return t.name, nil
}

// Shutdown stops the watchdog and deletes every bound task, joining each
// in registry order.
func (k *Kernel) Shutdown() {
	if k.wd != nil {
		k.wd.stop()
	}
	for _, t := range k.reg.snapshot() {
		_ = k.Delete(t.handle)
	}
}

// History returns the most recent lifecycle events, newest first. It
// returns nil when journaling is disabled.
func (k *Kernel) History(limit int) []LifecycleRecord {
	if k.journal == nil {
		return nil
	}
	return k.journal.Recent(limit)
}

func (k *Kernel) record(kind EventKind, t *task) {
	if k.journal == nil {
		return
	}
	k.journal.Add(LifecycleRecord{
		Handle: t.handle,
		Name:   t.name,
		Event:  kind,
		At:     time.Now(),
	})
}

func (t *task) requestedPriority() uint8 {
	t.prioMu.Lock()
	defer t.prioMu.Unlock()
	return t.prioReq
}

func truncateName(name string, max int) string {
	if len(name) > max {
		return name[:max]
	}
	return name
}
