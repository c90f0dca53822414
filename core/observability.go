package core

import "time"

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics is the hook for task-layer telemetry. Implementations can send
// to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods must be safe for concurrent use and fast; they are called from
// lifecycle operations and from inside checkpoints.
type Metrics interface {
	// RecordTaskCreated is called when Create successfully binds a slot.
	RecordTaskCreated(name string)

	// RecordTaskDeleted is called after Delete has joined the task and
	// released its slot. lifetime is the time since creation.
	RecordTaskDeleted(name string, lifetime time.Duration)

	// RecordSuspendWait records how long a task sat parked on its
	// condition variable before a resume (or stop) released it.
	RecordSuspendWait(name string, d time.Duration)

	// RecordDegradedScheduling is called when an elevated scheduling
	// request fell back to the time-shared default.
	RecordDegradedScheduling(name string)

	// RecordStalledTask is called by the checkpoint watchdog when a
	// running task has gone too long without reaching a checkpoint.
	RecordStalledTask(name string)
}

// NilMetrics is the no-op default when no metrics sink is provided.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskCreated(name string)                       {}
func (m *NilMetrics) RecordTaskDeleted(name string, lifetime time.Duration) {}
func (m *NilMetrics) RecordSuspendWait(name string, d time.Duration)      {}
func (m *NilMetrics) RecordDegradedScheduling(name string)                {}
func (m *NilMetrics) RecordStalledTask(name string)                       {}

// KernelStats is a point-in-time snapshot of the registry, suitable for
// periodic export.
type KernelStats struct {
	Capacity int
	Bound    int
	Running  int
	Waiting  int
	Degraded int // bound tasks running under a degraded scheduling class
}
