package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TaskEntry is the user entry point of a task. The context carries the
// task's control block so that Yield and Delay can find it; arg is the
// opaque argument passed to Create. The entry runs on a dedicated,
// OS-thread-pinned goroutine and should call Yield or Delay at bounded
// intervals so suspend and stop requests take effect.
type TaskEntry func(ctx context.Context, arg any)

// TaskAttr describes creation-time task attributes.
type TaskAttr struct {
	// Name is copied into a bounded internal buffer; names longer than the
	// configured maximum are silently truncated.
	Name string

	// Priority is the abstract urgency, 0..255 with 0 the most urgent
	// (RTOS convention). It is translated onto the native scheduler range.
	Priority uint8

	// StackSizeHint is recorded for introspection only. Goroutine stacks
	// grow on demand, so the hint has no scheduling effect on this backend.
	StackSizeHint int
}

// TaskState is the externally observable lifecycle state of a task.
type TaskState int

const (
	// StateInvalid means the task has stopped (or the handle is unbound).
	StateInvalid TaskState = iota

	// StateRunning means the task is live and not suspended.
	StateRunning

	// StateWaiting means a cooperative suspend is in effect (or pending
	// until the task's next checkpoint).
	StateWaiting
)

func (s TaskState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	default:
		return "invalid"
	}
}

// Handle identifies a task slot. Handles are index+generation pairs, so a
// handle kept across Delete and slot reuse is detected as stale instead of
// aliasing the new occupant. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero (never-valid) handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// TaskInfo is a point-in-time snapshot of one bound task, as returned by
// the directory operations.
type TaskInfo struct {
	Handle            Handle
	Name              string
	State             TaskState
	RequestedPriority uint8
	Applied           NativePriority
	StackSizeHint     int
	CreatedAt         time.Time
	LastCheckpoint    time.Time
}

// task is the task control block. Lifecycle flags are guarded by mu; the
// cond is broadcast after every flag mutation so no checkpoint waiter can
// miss a transition. Everything else is written once at creation (or via
// its own atomic) and safe to read without mu.
type task struct {
	mu        sync.Mutex
	cond      *sync.Cond
	running   bool // false = stop requested or task finished; monotonic
	suspended bool // cooperative pause request; meaningless once !running

	handle    Handle
	name      string
	entry     TaskEntry
	arg       any
	stackHint int
	createdAt time.Time

	prioMu  sync.Mutex
	prioReq uint8
	applied NativePriority
	tid     atomic.Int64 // native thread id; 0 until the trampoline pins

	// checkpoint slicing parameters, copied from the kernel config
	slice          time.Duration
	sliceThreshold time.Duration

	lastCheckpoint atomic.Int64 // unix nanos of the most recent checkpoint

	done   chan struct{} // closed by the trampoline when the goroutine exits
	reaped atomic.Bool   // set by the Delete call that releases the slot

	metrics Metrics
}

func newTask(h Handle, entry TaskEntry, arg any, attr TaskAttr) *task {
	t := &task{
		running:   true,
		handle:    h,
		entry:     entry,
		arg:       arg,
		prioReq:   attr.Priority,
		stackHint: attr.StackSizeHint,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
	t.cond = sync.NewCond(&t.mu)
	t.lastCheckpoint.Store(t.createdAt.UnixNano())
	return t
}

// state reads the lifecycle flags under the TCB lock. There is no window
// in which a caller can observe StateRunning after running has been
// visibly cleared.
func (t *task) state() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case !t.running:
		return StateInvalid
	case t.suspended:
		return StateWaiting
	default:
		return StateRunning
	}
}

func (t *task) info() TaskInfo {
	t.prioMu.Lock()
	prioReq, applied := t.prioReq, t.applied
	t.prioMu.Unlock()
	return TaskInfo{
		Handle:            t.handle,
		Name:              t.name,
		State:             t.state(),
		RequestedPriority: prioReq,
		Applied:           applied,
		StackSizeHint:     t.stackHint,
		CreatedAt:         t.createdAt,
		LastCheckpoint:    time.Unix(0, t.lastCheckpoint.Load()),
	}
}

// =============================================================================
// Context helper: the trampoline installs the TCB into the task context so
// Yield/Delay can find it without explicit parameter threading.
// =============================================================================

type taskKeyType struct{}

var taskKey taskKeyType

func withTask(ctx context.Context, t *task) context.Context {
	return context.WithValue(ctx, taskKey, t)
}

func fromContext(ctx context.Context) *task {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(taskKey); v != nil {
		return v.(*task)
	}
	return nil
}

// CurrentHandle returns the handle of the task owning ctx, or the zero
// Handle when ctx does not belong to a task goroutine.
func CurrentHandle(ctx context.Context) Handle {
	if t := fromContext(ctx); t != nil {
		return t.handle
	}
	return Handle{}
}
