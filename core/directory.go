package core

import "fmt"

// Process-wide task directory: enumeration and inspection of live tasks.

// Count returns the number of bound slots. Bound includes tasks that have
// exited but not yet been deleted.
func (k *Kernel) Count() int {
	return k.reg.count()
}

// ForEach invokes cb once per bound slot in registry order with a snapshot
// of that task's state. The callback must not Delete the slot it is
// currently visiting; mutating the registry during enumeration is a
// documented hazard, not a guaranteed-safe operation.
func (k *Kernel) ForEach(cb func(TaskInfo)) error {
	if cb == nil {
		return fmt.Errorf("%w: nil callback", ErrInvalidArgument)
	}
	for _, t := range k.reg.snapshot() {
		cb(t.info())
	}
	return nil
}

// FindByName returns the handle of the first bound task with the given
// (bounded) name, in registry order.
func (k *Kernel) FindByName(name string) (Handle, error) {
	name = truncateName(name, k.cfg.NameMax)
	for _, t := range k.reg.snapshot() {
		if t.name == name {
			return t.handle, nil
		}
	}
	return Handle{}, fmt.Errorf("%w: no task named %q", ErrNotFound, name)
}

// Inspect returns a snapshot of one task.
func (k *Kernel) Inspect(h Handle) (TaskInfo, error) {
	t, err := k.reg.lookup(h)
	if err != nil {
		return TaskInfo{}, err
	}
	return t.info(), nil
}

// Stats summarizes the registry for periodic export.
func (k *Kernel) Stats() KernelStats {
	s := KernelStats{Capacity: k.reg.capacity()}
	for _, t := range k.reg.snapshot() {
		s.Bound++
		switch t.state() {
		case StateRunning:
			s.Running++
		case StateWaiting:
			s.Waiting++
		}
		t.prioMu.Lock()
		degraded := k.cfg.ElevatedScheduling && t.applied.Policy != PolicyFIFO && t.tid.Load() != 0
		t.prioMu.Unlock()
		if degraded {
			s.Degraded++
		}
	}
	return s
}
