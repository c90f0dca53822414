package core

import (
	"context"
	"runtime"
	"time"
)

// Yield is a cooperative checkpoint. If a suspend is pending for the
// calling task it parks on the TCB condition variable until resumed (or
// stopped); if a stop is pending, before or after the park, the
// goroutine permanently relinquishes control via runtime.Goexit, so user
// code past this point never runs again. Otherwise it offers the
// scheduler a chance to run another ready goroutine.
//
// Called outside a task goroutine, Yield is just a scheduler hint.
func Yield(ctx context.Context) {
	if t := fromContext(ctx); t != nil {
		if !t.checkpoint() {
			runtime.Goexit()
		}
	}
	runtime.Gosched()
}

// Delay sleeps for at least d, honoring suspend and stop requests along
// the way. Delays longer than the slice threshold are decomposed into
// slices (10 ms by default) with a checkpoint after each one, so the
// worst-case suspend/stop latency is one slice width regardless of the
// requested duration. Time spent suspended does not count against d: the
// remaining duration is still slept after a resume, preserving the
// minimum-delay guarantee.
//
// Called outside a task goroutine, Delay is a plain sleep.
func Delay(ctx context.Context, d time.Duration) {
	t := fromContext(ctx)
	if t == nil {
		time.Sleep(d)
		return
	}

	slice := d
	if d > t.sliceThreshold {
		slice = t.slice
	}

	for remain := d; remain > 0; {
		step := slice
		if remain < step {
			step = remain
		}
		time.Sleep(step)
		remain -= step

		if !t.checkpoint() {
			runtime.Goexit()
		}
	}
}

// DelayMs is Delay with a millisecond count, mirroring the classic RTOS
// signature.
func DelayMs(ctx context.Context, ms uint32) {
	Delay(ctx, time.Duration(ms)*time.Millisecond)
}

// checkpoint is the core of the cooperative protocol: park while a
// suspend is in effect, then report whether the task may keep running.
// The flags are only read under the TCB mutex and the cond is broadcast
// after every mutation, so no transition can be missed.
func (t *task) checkpoint() bool {
	t.mu.Lock()
	waited := time.Time{}
	for t.running && t.suspended {
		if waited.IsZero() {
			waited = time.Now()
		}
		t.cond.Wait()
	}
	running := t.running
	t.mu.Unlock()

	if !waited.IsZero() {
		t.metrics.RecordSuspendWait(t.name, time.Since(waited))
	}
	t.lastCheckpoint.Store(time.Now().UnixNano())
	return running
}
