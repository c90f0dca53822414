package core

import "errors"

// Sentinel errors returned by the task layer. Callers should test with
// errors.Is; wrapped variants carry additional context.
var (
	// ErrInvalidArgument indicates a missing entry point or an
	// invalid/unbound/stale task handle.
	ErrInvalidArgument = errors.New("osal: invalid argument")

	// ErrResourceExhausted indicates the task registry is full.
	ErrResourceExhausted = errors.New("osal: resource exhausted")

	// ErrDegradedScheduling indicates the requested scheduling class could
	// not be applied at the OS level. The operation still succeeded; the
	// task runs under the default time-shared policy.
	ErrDegradedScheduling = errors.New("osal: degraded scheduling")

	// ErrNotFound indicates a name lookup miss.
	ErrNotFound = errors.New("osal: not found")
)
