//go:build linux

package core

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// nativeThreadID reports the calling thread's id. The trampoline calls it
// after runtime.LockOSThread, so the id stays valid for the goroutine's
// lifetime.
func nativeThreadID() int64 {
	return int64(unix.Gettid())
}

// applySched applies the translated priority to the given thread. When the
// elevated class is refused (typically EPERM without CAP_SYS_NICE) it
// falls back to the default time-shared policy with the given niceness and
// reports ErrDegradedScheduling; the caller treats that as non-fatal.
func applySched(tid int64, np NativePriority, nice int) (NativePriority, error) {
	if np.Policy == PolicyTimeShared {
		// Threads start out time-shared; nothing to apply.
		return np, nil
	}
	if np.Policy == PolicyFIFO {
		attr := unix.SchedAttr{
			Size:     unix.SizeofSchedAttr,
			Policy:   unix.SCHED_FIFO,
			Priority: uint32(np.Priority),
		}
		if err := unix.SchedSetAttr(int(tid), &attr, 0); err == nil {
			return np, nil
		}
	}

	fallback := unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: unix.SCHED_NORMAL,
	}
	if err := unix.SchedSetAttr(int(tid), &fallback, 0); err != nil {
		return NativePriority{Policy: PolicyTimeShared},
			fmt.Errorf("%w: sched_setattr tid=%d: %v", ErrDegradedScheduling, tid, err)
	}

	// Best effort: keep the urgency ordering through niceness. Raising
	// niceness never needs privilege, lowering it may fail silently.
	applied := NativePriority{Policy: PolicyTimeShared}
	if unix.Setpriority(unix.PRIO_PROCESS, int(tid), nice) == nil {
		applied.Priority = nice
	}
	return applied,
		fmt.Errorf("%w: fifo refused for tid=%d (no CAP_SYS_NICE?)", ErrDegradedScheduling, tid)
}
