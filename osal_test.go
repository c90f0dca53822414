package osal_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	osal "github.com/portos/go-osal"
)

func testKernel() *osal.Kernel {
	cfg := osal.DefaultConfig()
	cfg.ElevatedScheduling = false
	return osal.NewKernelWithOptions(cfg, &osal.KernelOptions{
		Logger: &silentLogger{},
	})
}

type silentLogger struct{}

func (silentLogger) Debug(msg string, fields ...osal.Field) {}
func (silentLogger) Info(msg string, fields ...osal.Field)  {}
func (silentLogger) Warn(msg string, fields ...osal.Field)  {}
func (silentLogger) Error(msg string, fields ...osal.Field) {}

// TestEndToEnd_SuspendResumeDelete walks the full lifecycle through the
// public API: create, observe progress, suspend, resume, delete, reuse.
func TestEndToEnd_SuspendResumeDelete(t *testing.T) {
	k := testKernel()
	defer k.Shutdown()

	var counter atomic.Int64
	h, err := k.Create(func(ctx context.Context, arg any) {
		for {
			counter.Add(1)
			osal.DelayMs(ctx, 20)
		}
	}, nil, osal.TaskAttr{Name: "worker", Priority: 15})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if counter.Load() == 0 {
		t.Fatal("task made no progress")
	}

	// Suspend: the counter freezes within one checkpoint slice.
	if err := k.Suspend(h); err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	frozen := counter.Load()
	time.Sleep(200 * time.Millisecond)
	if got := counter.Load(); got != frozen {
		t.Errorf("counter advanced while suspended: %d -> %d", frozen, got)
	}
	if state, _ := k.GetState(h); state != osal.StateWaiting {
		t.Errorf("state = %v, want StateWaiting", state)
	}

	// Resume: progress returns promptly.
	if err := k.Resume(h); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if got := counter.Load(); got == frozen {
		t.Error("counter did not advance after Resume")
	}

	// Delete: returns only once the loop has stopped; slot is reusable.
	if err := k.Delete(h); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	final := counter.Load()
	time.Sleep(100 * time.Millisecond)
	if got := counter.Load(); got != final {
		t.Errorf("counter advanced after Delete: %d -> %d", final, got)
	}

	if _, err := k.GetState(h); !errors.Is(err, osal.ErrInvalidArgument) {
		t.Errorf("GetState(deleted) err = %v, want ErrInvalidArgument", err)
	}
	if k.Count() != 0 {
		t.Errorf("Count() = %d, want 0", k.Count())
	}
}

// TestEndToEnd_DirectoryAndConfig exercises the re-exported directory and
// config helpers.
func TestEndToEnd_DirectoryAndConfig(t *testing.T) {
	cfg := osal.DefaultConfig()
	cfg.ElevatedScheduling = false
	cfg.Capacity = 2

	k := osal.NewKernelWithOptions(cfg, &osal.KernelOptions{Logger: &silentLogger{}})
	defer k.Shutdown()

	entry := func(ctx context.Context, arg any) {
		for {
			osal.Yield(ctx)
			osal.DelayMs(ctx, 10)
		}
	}

	if _, err := k.Create(entry, nil, osal.TaskAttr{Name: "one"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	h2, err := k.Create(entry, nil, osal.TaskAttr{Name: "two"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := k.Create(entry, nil, osal.TaskAttr{Name: "three"}); !errors.Is(err, osal.ErrResourceExhausted) {
		t.Fatalf("overflow = %v, want ErrResourceExhausted", err)
	}

	if got, err := k.FindByName("two"); err != nil || got != h2 {
		t.Errorf("FindByName = %v, %v, want %+v", got, err, h2)
	}

	names := map[string]bool{}
	k.ForEach(func(info osal.TaskInfo) { names[info.Name] = true })
	if !names["one"] || !names["two"] {
		t.Errorf("ForEach visited %v, want one and two", names)
	}
}
