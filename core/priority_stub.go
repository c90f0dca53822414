//go:build !linux

package core

import "fmt"

func nativeThreadID() int64 { return 0 }

// applySched on non-Linux hosts: there is no portable per-thread priority
// facility, so every elevated request degrades to the time-shared default.
func applySched(tid int64, np NativePriority, nice int) (NativePriority, error) {
	if np.Policy == PolicyFIFO {
		return NativePriority{Policy: PolicyTimeShared},
			fmt.Errorf("%w: elevated scheduling unsupported on this platform", ErrDegradedScheduling)
	}
	return NativePriority{Policy: PolicyTimeShared}, nil
}
