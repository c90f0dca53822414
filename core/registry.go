package core

import (
	"fmt"
	"sync"
)

// registry is the fixed-capacity arena of task slots. A slot is either
// free or bound to exactly one task; the search-and-claim in allocate is
// the only structure shared between concurrent creators and is guarded by
// a single mutex that is never held across task boundaries.
type registry struct {
	mu    sync.Mutex
	slots []regSlot
}

type regSlot struct {
	used bool
	gen  uint32
	task *task
}

func newRegistry(capacity int) *registry {
	return &registry{slots: make([]regSlot, capacity)}
}

// allocate claims a free slot and returns its handle. Generation counters
// start at 1 so the zero Handle never matches a bound slot.
func (r *registry) allocate() (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if !r.slots[i].used {
			r.slots[i].used = true
			r.slots[i].gen++
			return Handle{index: uint32(i), gen: r.slots[i].gen}, nil
		}
	}
	return Handle{}, fmt.Errorf("%w: all %d task slots bound", ErrResourceExhausted, len(r.slots))
}

// bind attaches the populated TCB to its allocated slot.
func (r *registry) bind(h Handle, t *task) {
	r.mu.Lock()
	r.slots[h.index].task = t
	r.mu.Unlock()
}

// release zeroes a slot and returns it to the free pool. It must only be
// called after the task's goroutine has fully exited (post-join).
func (r *registry) release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &r.slots[h.index]
	if !s.used || s.gen != h.gen {
		return
	}
	s.used = false
	s.task = nil
}

// lookup resolves a handle to its TCB, rejecting unbound and stale
// handles.
func (r *registry) lookup(h Handle) (*task, error) {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil, fmt.Errorf("%w: unbound task handle", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := &r.slots[h.index]
	if !s.used || s.gen != h.gen || s.task == nil {
		return nil, fmt.Errorf("%w: unbound task handle", ErrInvalidArgument)
	}
	return s.task, nil
}

// count returns the number of bound (not necessarily running) slots.
func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range r.slots {
		if r.slots[i].used {
			n++
		}
	}
	return n
}

// snapshot copies the bound TCB pointers in registry order so callers can
// enumerate without holding the registry lock.
func (r *registry) snapshot() []*task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*task, 0, len(r.slots))
	for i := range r.slots {
		if r.slots[i].used && r.slots[i].task != nil {
			out = append(out, r.slots[i].task)
		}
	}
	return out
}

func (r *registry) capacity() int { return len(r.slots) }
