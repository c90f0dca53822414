package osal

import (
	"context"
	"time"

	"github.com/portos/go-osal/core"
)

// Re-export commonly used types from the core package so most callers
// only import osal.

// Kernel owns the task registry and the lifecycle protocol.
type Kernel = core.Kernel

// KernelOptions holds optional Logger/Metrics/OnStall hooks.
type KernelOptions = core.KernelOptions

// Config holds the task-layer limits, loadable from YAML.
type Config = core.Config

// Handle identifies a task slot (index + generation).
type Handle = core.Handle

// TaskEntry is the user entry point of a task.
type TaskEntry = core.TaskEntry

// TaskAttr carries creation-time attributes (name, priority, stack hint).
type TaskAttr = core.TaskAttr

// TaskState is the observable lifecycle state of a task.
type TaskState = core.TaskState

// TaskInfo is a directory snapshot of one bound task.
type TaskInfo = core.TaskInfo

// NativePriority is the scheduler class and priority actually applied.
type NativePriority = core.NativePriority

// StallReport is emitted by the checkpoint watchdog.
type StallReport = core.StallReport

// LifecycleRecord is one entry of the lifecycle event journal.
type LifecycleRecord = core.LifecycleRecord

// Logger and Field for structured logging hooks.
type (
	Logger = core.Logger
	Field  = core.Field
)

// Metrics is the telemetry hook consumed by observability exporters.
type Metrics = core.Metrics

// KernelStats is a point-in-time registry summary.
type KernelStats = core.KernelStats

// Task states.
const (
	StateInvalid = core.StateInvalid
	StateRunning = core.StateRunning
	StateWaiting = core.StateWaiting
)

// Sentinel errors.
var (
	ErrInvalidArgument    = core.ErrInvalidArgument
	ErrResourceExhausted  = core.ErrResourceExhausted
	ErrDegradedScheduling = core.ErrDegradedScheduling
	ErrNotFound           = core.ErrNotFound
)

// NewKernel creates a kernel with default options.
func NewKernel(cfg Config) *Kernel { return core.NewKernel(cfg) }

// NewKernelWithOptions creates a kernel with explicit hooks.
func NewKernelWithOptions(cfg Config, opts *KernelOptions) *Kernel {
	return core.NewKernelWithOptions(cfg, opts)
}

// DefaultConfig returns the default limits (8 slots, 16-byte names,
// 10 ms checkpoint slices).
func DefaultConfig() Config { return core.DefaultConfig() }

// LoadConfig reads a YAML config, falling back to defaults.
func LoadConfig(path string) Config { return core.LoadConfig(path) }

// Yield is the cooperative checkpoint; see core.Yield.
func Yield(ctx context.Context) { core.Yield(ctx) }

// Delay sleeps at least d in checkpointed slices; see core.Delay.
func Delay(ctx context.Context, d time.Duration) { core.Delay(ctx, d) }

// DelayMs is Delay with a millisecond count.
func DelayMs(ctx context.Context, ms uint32) { core.DelayMs(ctx, ms) }

// CurrentHandle returns the calling task's handle, or the zero Handle
// outside a task goroutine.
func CurrentHandle(ctx context.Context) Handle { return core.CurrentHandle(ctx) }
