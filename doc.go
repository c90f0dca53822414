// Package osal provides a portable task abstraction: a fixed-capacity
// registry of long-lived named tasks with RTOS-style lifecycle control
// (create, suspend, resume, delete, priority) implemented over OS threads
// that cannot be suspended from outside.
//
// # The cooperative contract
//
// A general-purpose OS cannot force-pause a thread the way an RTOS
// scheduler can, so suspension and stopping are cooperative: every
// long-running task must call osal.Yield or osal.Delay at bounded
// intervals. These checkpoints are the only points where a pending
// Suspend parks the task and where a pending Delete terminates it. A task
// that never checkpoints can never be suspended or stopped by this layer;
// the optional watchdog reports such tasks instead of pretending
// otherwise.
//
// # Quick start
//
//	k := osal.NewKernel(osal.DefaultConfig())
//	defer k.Shutdown()
//
//	h, err := k.Create(func(ctx context.Context, arg any) {
//		for {
//			doWork()
//			osal.DelayMs(ctx, 500) // checkpoint: suspend/stop honored here
//		}
//	}, nil, osal.TaskAttr{Name: "worker", Priority: 15})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	k.Suspend(h) // parks the task at its next checkpoint
//	k.Resume(h)  // wakes it again
//	k.Delete(h)  // stops it, joins, and frees the slot
//
// # Priorities
//
// Priorities are abstract 0..255 values with 0 the most urgent, following
// RTOS convention. On Linux they translate linearly onto SCHED_FIFO 1..99
// and are applied to the task's pinned OS thread. Without CAP_SYS_NICE
// the layer degrades to the time-shared default: the task still runs, the
// requested priority is still recorded, and the degradation is logged and
// countable. It is never a creation failure.
//
// # Observability
//
// The kernel accepts a Logger and a Metrics implementation via
// KernelOptions; observability/prometheus exports the Metrics interface
// and periodic KernelStats snapshots as Prometheus collectors.
package osal
